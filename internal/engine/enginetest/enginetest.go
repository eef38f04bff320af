// Package enginetest provides a scripted engine.Runtime for tests.
package enginetest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"greenhouse-eplus/internal/engine"
)

// Step is one scripted zone time step.
type Step struct {
	Ready    bool    // value of DataFullyReady
	Hour     int     // value of Hour
	Minute   int     // value of Minutes
	ZoneStep int     // value of ZoneTimeStepNum
	Temp     float64 // value of every variable handle
}

// Runtime replays Steps through the registered callback. Variables and
// Actuators name what exists; anything else resolves to engine.InvalidHandle.
type Runtime struct {
	Steps     []Step
	Variables []string // "name|key"
	Actuators []string // "componentType|controlType|key"
	Forecast  float64
	// OutputCSV, when set, is written to eplusout.csv in the output
	// directory after the steps have run.
	OutputCSV string
	// Err is returned from Run after the steps have been replayed.
	Err error
	// CloseErr is returned from every session's Close.
	CloseErr error

	mu       sync.Mutex
	sessions []*Session
}

func (r *Runtime) Name() string { return "fake" }

func (r *Runtime) NewSession() (engine.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Session{rt: r}
	r.sessions = append(r.sessions, s)
	return s, nil
}

// Sessions returns every session opened so far.
func (r *Runtime) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Session(nil), r.sessions...)
}

// Session records what the code under test did with it.
type Session struct {
	rt *Runtime
	cb engine.Callback

	Requested []string // "name|key"
	Args      engine.Args
	Ran       bool
	Closed    int
	// Actuated holds every SetActuatorValue call in order.
	Actuated []float64
	// ForecastQueries counts TomorrowOutdoorDryBulb calls.
	ForecastQueries int
}

func (s *Session) RequestVariable(name, key string) error {
	s.Requested = append(s.Requested, name+"|"+key)
	return nil
}

func (s *Session) OnEndOfZoneTimeStep(cb engine.Callback) error {
	if s.cb != nil {
		return errors.New("enginetest: callback already registered")
	}
	s.cb = cb
	return nil
}

func (s *Session) Run(ctx context.Context, args engine.Args) error {
	s.Ran = true
	s.Args = args
	if args.OutputDir != "" {
		if err := os.MkdirAll(args.OutputDir, 0o755); err != nil {
			return err
		}
	}
	for _, st := range s.rt.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.cb != nil {
			s.cb(&exchange{s: s, step: st})
		}
	}
	if s.rt.OutputCSV != "" {
		path := filepath.Join(args.OutputDir, "eplusout.csv")
		if err := os.WriteFile(path, []byte(s.rt.OutputCSV), 0o644); err != nil {
			return err
		}
	}
	return s.rt.Err
}

func (s *Session) Close() error {
	s.Closed++
	return s.rt.CloseErr
}

type exchange struct {
	s    *Session
	step Step
}

func (x *exchange) DataFullyReady() bool { return x.step.Ready }

func (x *exchange) VariableHandle(name, key string) int {
	return lookup(x.s.rt.Variables, name+"|"+key)
}

func (x *exchange) ActuatorHandle(componentType, controlType, key string) int {
	return lookup(x.s.rt.Actuators, componentType+"|"+controlType+"|"+key)
}

func lookup(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return engine.InvalidHandle
}

func (x *exchange) VariableValue(int) float64 { return x.step.Temp }

func (x *exchange) SetActuatorValue(_ int, v float64) { x.s.Actuated = append(x.s.Actuated, v) }

func (x *exchange) Hour() int { return x.step.Hour }

func (x *exchange) Minutes() int { return x.step.Minute }

func (x *exchange) ZoneTimeStepNum() int { return x.step.ZoneStep }

func (x *exchange) TimeStepsInHour() int { return 6 }

func (x *exchange) TomorrowOutdoorDryBulb(int, int) float64 {
	x.s.ForecastQueries++
	return x.s.rt.Forecast
}
