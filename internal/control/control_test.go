package control

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/engine/enginetest"
	"greenhouse-eplus/internal/telemetry"
)

func greenhouseRuntime(steps ...enginetest.Step) *enginetest.Runtime {
	return &enginetest.Runtime{
		Variables: []string{"Zone Air Temperature|MAINZ"},
		Actuators: []string{"OtherEquipment|Power Level|TestOtherEquipment"},
		Forecast:  11.5,
		Steps:     steps,
	}
}

func run(t *testing.T, rt *enginetest.Runtime, c *Controller) *enginetest.Session {
	t.Helper()
	s, err := rt.NewSession()
	require.NoError(t, err)
	require.NoError(t, s.OnEndOfZoneTimeStep(c.Callback()))
	require.NoError(t, s.Run(context.Background(), engine.Args{}))
	return s.(*enginetest.Session)
}

func TestControllerThreshold(t *testing.T) {
	rt := greenhouseRuntime(
		enginetest.Step{Ready: false, ZoneStep: 1, Temp: 30},
		enginetest.Step{Ready: false, ZoneStep: 2, Temp: 30},
		enginetest.Step{Ready: true, ZoneStep: 3, Temp: 22.0},
		enginetest.Step{Ready: true, ZoneStep: 4, Temp: 21.9},
		enginetest.Step{Ready: true, ZoneStep: 1, Hour: 1, Temp: 25},
	)
	mem := &telemetry.Memory{}
	c, err := New(DefaultSettings(), mem)
	require.NoError(t, err)

	s := run(t, rt, c)
	require.NoError(t, c.Err())

	// The two not-ready steps left no trace.
	assert.Equal(t, []float64{1300, 0, 1300}, s.Actuated)
	require.Len(t, mem.Records, 3)
	assert.Equal(t, 3, c.Steps())
	assert.Equal(t, Steady, c.Phase())

	assert.Equal(t, 1, mem.Records[0].Step)
	assert.Equal(t, telemetry.ActionHeating, mem.Records[0].Action)
	assert.Equal(t, telemetry.ActionIdle, mem.Records[1].Action)
	assert.True(t, math.IsNaN(mem.Records[0].Forecast))
	assert.Equal(t, 11.5, mem.Records[2].Forecast)
	assert.Equal(t, 1, s.ForecastQueries)
}

func TestControllerNeverLeavesSteady(t *testing.T) {
	rt := greenhouseRuntime(
		enginetest.Step{Ready: true, ZoneStep: 2, Temp: 10},
		enginetest.Step{Ready: false, ZoneStep: 3, Temp: 23},
	)
	c, err := New(DefaultSettings(), nil)
	require.NoError(t, err)

	s := run(t, rt, c)
	assert.Equal(t, Steady, c.Phase())
	assert.Equal(t, []float64{0, 1300}, s.Actuated)
}

func TestControllerMissingActuator(t *testing.T) {
	rt := &enginetest.Runtime{
		Variables: []string{"Zone Air Temperature|MAINZ"},
		Steps: []enginetest.Step{
			{Ready: true, ZoneStep: 1, Temp: 25},
			{Ready: true, ZoneStep: 2, Temp: 25},
		},
	}
	mem := &telemetry.Memory{}
	c, err := New(DefaultSettings(), mem)
	require.NoError(t, err)

	s := run(t, rt, c)
	err = c.Err()
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "actuator", ie.Kind)
	assert.True(t, errors.Is(err, ErrHandleNotFound))
	assert.Contains(t, err.Error(), "OtherEquipment/Power Level/TestOtherEquipment")

	// Later callbacks are ignored.
	assert.Empty(t, s.Actuated)
	assert.Empty(t, mem.Records)
	assert.Equal(t, NotReady, c.Phase())
}

func TestControllerMissingSensor(t *testing.T) {
	rt := greenhouseRuntime(enginetest.Step{Ready: true, ZoneStep: 1})
	st := DefaultSettings()
	st.Zone = "ZONE ONE"
	c, err := New(st, nil)
	require.NoError(t, err)

	run(t, rt, c)
	var ie *InitError
	require.ErrorAs(t, c.Err(), &ie)
	assert.Equal(t, "sensor", ie.Kind)
	assert.Contains(t, ie.Error(), "Zone Air Temperature at ZONE ONE")
}

func TestNewValidates(t *testing.T) {
	st := DefaultSettings()
	st.Strategy.Name = "nope"
	_, err := New(st, nil)
	assert.ErrorContains(t, err, "unsupported strategy")

	st = DefaultSettings()
	st.Zone = ""
	_, err = New(st, nil)
	assert.ErrorContains(t, err, "zone is required")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "steady", Steady.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
