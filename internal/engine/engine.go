// Package engine drives EnergyPlus runs. A Runtime opens Sessions; a Session
// can register one end-of-zone-time-step callback and then runs the engine to
// completion.
package engine

import (
	"context"
	"errors"
	"fmt"
)

// InvalidHandle is what EnergyPlus returns for a variable or actuator it
// does not know.
const InvalidHandle = -1

var (
	// ErrCallbacksUnsupported is returned when a runtime cannot call back
	// into Go during a run.
	ErrCallbacksUnsupported = errors.New("engine: runtime does not support time step callbacks")

	// ErrNotBuilt is returned by the C API runtime in binaries built without
	// the eplusapi tag.
	ErrNotBuilt = errors.New("engine: C API support not built in (rebuild with -tags eplusapi)")
)

// ExitError is a non-zero EnergyPlus exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("energyplus exited with status %d", e.Code)
}

// Exchange is the view of a running simulation available to a callback. It
// is only valid for the duration of the callback.
type Exchange interface {
	// DataFullyReady reports whether handles can be resolved yet.
	DataFullyReady() bool
	VariableHandle(name, key string) int
	ActuatorHandle(componentType, controlType, key string) int
	VariableValue(handle int) float64
	SetActuatorValue(handle int, value float64)
	// Hour and Minutes give the simulation clock at the end of the current
	// time step.
	Hour() int
	Minutes() int
	// ZoneTimeStepNum is 1 on the first zone time step of each hour.
	ZoneTimeStepNum() int
	TimeStepsInHour() int
	// TomorrowOutdoorDryBulb is the weather file forecast for tomorrow at the
	// given hour and time step.
	TomorrowOutdoorDryBulb(hour, timeStep int) float64
}

// Callback runs on the engine thread after zone reporting at the end of each
// zone time step. It must not block.
type Callback func(Exchange)

// Session is one EnergyPlus state. Close must be called exactly once.
type Session interface {
	// RequestVariable asks the engine to make name at key available to
	// VariableHandle. It must be called before Run.
	RequestVariable(name, key string) error
	OnEndOfZoneTimeStep(cb Callback) error
	// Run blocks until the simulation ends.
	Run(ctx context.Context, args Args) error
	Close() error
}

// Runtime creates sessions.
type Runtime interface {
	Name() string
	NewSession() (Session, error)
}

// Args are the command line arguments of one run.
type Args struct {
	OutputDir     string
	WeatherFile   string
	IDFFile       string
	ExpandObjects bool
}

// Strings renders args in EnergyPlus command line order:
// -d <out> -w <epw> [-x] <idf>.
func (a Args) Strings() []string {
	out := []string{"-d", a.OutputDir, "-w", a.WeatherFile}
	if a.ExpandObjects {
		out = append(out, "-x")
	}
	return append(out, a.IDFFile)
}
