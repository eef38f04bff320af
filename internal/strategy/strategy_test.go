package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdBoundaryIsInclusive(t *testing.T) {
	s, err := Build("threshold", nil)
	require.NoError(t, err)

	assert.Equal(t, 1300.0, s.Decide(Context{ZoneTemp: 22.0}).PowerW)
	assert.Equal(t, 0.0, s.Decide(Context{ZoneTemp: 21.9}).PowerW)
	assert.Equal(t, 1300.0, s.Decide(Context{ZoneTemp: 35}).PowerW)
}

func TestThresholdParams(t *testing.T) {
	s, err := Build("Threshold", map[string]any{"setpoint_c": 18, "on_power_w": 500.0, "off_power_w": 50.0})
	require.NoError(t, err)
	assert.Equal(t, 500.0, s.Decide(Context{ZoneTemp: 18}).PowerW)
	assert.Equal(t, 50.0, s.Decide(Context{ZoneTemp: 17.99}).PowerW)
}

func TestSchedule(t *testing.T) {
	s, err := Build("schedule", map[string]any{"on_start": "22:00", "on_end": "02:30", "on_power_w": 800.0})
	require.NoError(t, err)

	assert.Equal(t, 800.0, s.Decide(Context{Hour: 23}).PowerW)
	assert.Equal(t, 800.0, s.Decide(Context{Hour: 2, Minute: 29}).PowerW)
	assert.Equal(t, 0.0, s.Decide(Context{Hour: 2, Minute: 30}).PowerW)
	assert.Equal(t, 0.0, s.Decide(Context{Hour: 12}).PowerW)
	// Minute 60 is the top of the next hour.
	assert.Equal(t, 800.0, s.Decide(Context{Hour: 21, Minute: 60}).PowerW)
	assert.Equal(t, 0.0, s.Decide(Context{Hour: 21, Minute: 50}).PowerW)
	assert.Equal(t, 0.0, s.Decide(Context{Hour: 2, Minute: 60}).PowerW)

	_, err = Build("schedule", map[string]any{"on_start": "25:00"})
	assert.ErrorContains(t, err, "invalid time")
}

func TestInWindowEmpty(t *testing.T) {
	assert.False(t, inWindow(600, 600, 600))
}

func TestUnknownStrategy(t *testing.T) {
	_, err := Build("oracle", nil)
	assert.ErrorContains(t, err, `unsupported strategy: "oracle"`)
}

func TestCatalogNamesBuild(t *testing.T) {
	for _, info := range Catalog() {
		_, err := Build(info.Name, nil)
		assert.NoError(t, err, info.Name)
	}
}
