// Package telemetry records what the controller did at every zone time step.
package telemetry

import (
	"errors"
	"math"
)

// Action is a human-friendly operating mode for a time step. The values are
// stable; they appear in apilog.csv and in published messages.
type Action string

const (
	ActionHeating Action = "HEATING"
	ActionIdle    Action = "IDLE"
)

func ActionFromPowerW(powerW float64) Action {
	if powerW > 0 {
		return ActionHeating
	}
	return ActionIdle
}

// Record is one controller invocation. Forecast is NaN except on the first
// zone time step of each hour.
type Record struct {
	RunID    string  `json:"run_id,omitempty"`
	Step     int     `json:"step"`
	Hour     int     `json:"hour"`
	Minute   int     `json:"minute"`
	ZoneTemp float64 `json:"zone_air_temperature_c"`
	PowerW   float64 `json:"power_level_w"`
	Action   Action  `json:"action"`
	Forecast float64 `json:"-"`
}

// HasForecast reports whether the record carries tomorrow's dry-bulb.
func (r Record) HasForecast() bool { return !math.IsNaN(r.Forecast) }

// Sink consumes records. Write is called on the engine thread and must not
// block on the network.
type Sink interface {
	Write(Record) error
	Close() error
}

// Multi fans records out to every sink. Write stops at the first error;
// Close closes all of them.
type Multi []Sink

func (m Multi) Write(r Record) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Memory keeps every record. The zero value is ready to use.
type Memory struct {
	Records []Record
	Closed  bool
}

func (m *Memory) Write(r Record) error {
	m.Records = append(m.Records, r)
	return nil
}

func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
