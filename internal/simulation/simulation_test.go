package simulation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/engine/enginetest"
)

func greenhouseRuntime() *enginetest.Runtime {
	return &enginetest.Runtime{
		Variables: []string{"Zone Air Temperature|MAINZ"},
		Actuators: []string{"OtherEquipment|Power Level|TestOtherEquipment"},
		Forecast:  4.25,
		Steps: []enginetest.Step{
			{Ready: false, ZoneStep: 1},
			{Ready: true, ZoneStep: 1, Hour: 0, Minute: 10, Temp: 23},
			{Ready: true, ZoneStep: 2, Hour: 0, Minute: 20, Temp: 21},
		},
		OutputCSV: "Date/Time,MAINZ:Zone Air Temperature [C](Hourly)\n 01/01  01:00:00,20.5\n",
	}
}

func TestNormalize(t *testing.T) {
	cfg, err := RunConfig{WeatherFile: "w.epw", IDFFile: "runs/greenhouse"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "runs/greenhouse.idf", cfg.IDFFile)
	assert.Equal(t, "runs/greenhouse", cfg.OutputDir)
	assert.NotEmpty(t, cfg.RunID)

	cfg, err = RunConfig{WeatherFile: "w.epw", IDFFile: "a.IDF", OutputDir: "out", RunID: "r1"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "a.IDF", cfg.IDFFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "r1", cfg.RunID)

	_, err = RunConfig{IDFFile: "a"}.Normalize()
	assert.ErrorContains(t, err, "weather file")
	_, err = RunConfig{WeatherFile: "w.epw"}.Normalize()
	assert.ErrorContains(t, err, "idf file")
}

func TestRunWithLog(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	cfg := RunConfig{
		RunID:       "test",
		WeatherFile: "w.epw",
		IDFFile:     filepath.Join(dir, "greenhouse"),
		Log:         true,
	}

	res, err := New(rt).Run(context.Background(), cfg, control.DefaultSettings())
	require.NoError(t, err)

	out := filepath.Join(dir, "greenhouse")
	assert.Equal(t, out, res.OutputDir)
	assert.Equal(t, filepath.Join(out, OutputCSV), res.CSVPath)
	assert.Equal(t, 2, res.Steps)
	assert.FileExists(t, res.CSVPath)

	sessions := rt.Sessions()
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, 1, s.Closed)
	assert.Equal(t, []string{"Zone Air Temperature|MAINZ"}, s.Requested)
	assert.Equal(t, engine.Args{
		OutputDir:   out,
		WeatherFile: "w.epw",
		IDFFile:     out + ".idf",
	}, s.Args)
	assert.Equal(t, []float64{1300, 0}, s.Actuated)

	raw, err := os.ReadFile(res.LogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "step,hour,minute,zone_air_temperature_c,power_level_w,action,forecast_drybulb_c", lines[0])
	assert.Equal(t, "1,0,10,23.00,1300.00,HEATING,4.25", lines[1])
	assert.Equal(t, "2,0,20,21.00,0.00,IDLE,", lines[2])
}

func TestRunWithoutLog(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	cfg := RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g.idf")}

	res, err := New(rt).Run(context.Background(), cfg, control.Settings{})
	require.NoError(t, err)

	s := rt.Sessions()[0]
	assert.Empty(t, s.Requested)
	assert.Empty(t, s.Actuated)
	assert.Equal(t, 0, res.Steps)
	assert.Empty(t, res.LogPath)
	assert.NoFileExists(t, filepath.Join(dir, "g", "apilog.csv"))
}

func TestRunCloseFailureDropsResult(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	rt.CloseErr = errors.New("state delete failed")
	cfg := RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g"), Log: true}

	res, err := New(rt).Run(context.Background(), cfg, control.DefaultSettings())

	assert.Nil(t, res)
	assert.EqualError(t, err, "close session: state delete failed")
	s := rt.Sessions()[0]
	assert.True(t, s.Ran)
	assert.Equal(t, 1, s.Closed)
	// The run log was still flushed before the session closed.
	assert.FileExists(t, filepath.Join(dir, "g", "apilog.csv"))
}

func TestRunMissingActuatorClosesLog(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	rt.Actuators = nil
	cfg := RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g"), Log: true}

	_, err := New(rt).Run(context.Background(), cfg, control.DefaultSettings())
	require.Error(t, err)

	var initErr *control.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "actuator", initErr.Kind)
	assert.ErrorIs(t, err, control.ErrHandleNotFound)

	assert.Equal(t, 1, rt.Sessions()[0].Closed)
	assert.Empty(t, rt.Sessions()[0].Actuated)

	// The log was flushed and closed: only the header made it.
	raw, err := os.ReadFile(filepath.Join(dir, "g", "apilog.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "\n"))
}

func TestRunEngineFailure(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	rt.Err = &engine.ExitError{Code: 1}
	cfg := RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g")}

	_, err := New(rt).Run(context.Background(), cfg, control.Settings{})
	var exit *engine.ExitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.Code)
	assert.Equal(t, 1, rt.Sessions()[0].Closed)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(greenhouseRuntime()).Run(ctx, RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g")}, control.Settings{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBadStrategy(t *testing.T) {
	dir := t.TempDir()
	rt := greenhouseRuntime()
	settings := control.DefaultSettings()
	settings.Strategy.Name = "oracle"

	_, err := New(rt).Run(context.Background(), RunConfig{WeatherFile: "w.epw", IDFFile: filepath.Join(dir, "g"), Log: true}, settings)
	assert.ErrorContains(t, err, "unsupported strategy")
	assert.False(t, rt.Sessions()[0].Ran)
	assert.Equal(t, 1, rt.Sessions()[0].Closed)
}
