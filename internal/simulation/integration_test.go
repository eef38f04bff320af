package simulation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/simulation"
)

// Runs the greenhouse preset through a real EnergyPlus install. Set
// EPLUS_WEATHER to an .epw file to enable it.
func TestGreenhouseWithEnergyPlus(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	weather := os.Getenv("EPLUS_WEATHER")
	dir := engine.InstallDir()
	if weather == "" || !engine.Installed(dir) {
		t.Skip("EPLUS_WEATHER unset or EnergyPlus not installed")
	}

	m, err := model.Greenhouse(model.DefaultGreenhouseParams())
	require.NoError(t, err)
	idfPath := filepath.Join(t.TempDir(), "greenhouse.idf")
	require.NoError(t, m.WriteFile(idfPath))

	rt := &engine.Exec{Dir: dir}
	res, err := simulation.New(rt).Run(context.Background(), simulation.RunConfig{
		WeatherFile: weather,
		IDFFile:     idfPath,
	}, control.DefaultSettings())
	require.NoError(t, err)

	table, err := results.Load(res.OutputDir)
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 0)
	for col := range model.GreenhouseLabels("MAINZ") {
		assert.True(t, table.Has(col), "missing column %s", col)
	}

	vars, err := results.LoadVariableDictionary(res.OutputDir)
	require.NoError(t, err)
	assert.NotEmpty(t, vars)
}
