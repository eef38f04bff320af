//go:build eplusapi

// Package capi runs EnergyPlus in-process through its C API, which is what
// allows time step callbacks. Build with -tags eplusapi and point cgo at the
// install directory, for example:
//
//	CGO_LDFLAGS="-L$EPLUS_DIR -Wl,-rpath,$EPLUS_DIR" go build -tags eplusapi ./...
package capi

/*
#cgo LDFLAGS: -lenergyplusapi
#include <stdlib.h>

typedef void* EnergyPlusState;

EnergyPlusState stateNew();
void stateDelete(EnergyPlusState state);
int energyplus(EnergyPlusState state, int argc, const char* argv[]);
void callbackEndOfZoneTimeStepAfterZoneReporting(EnergyPlusState state, void (*f)(EnergyPlusState));
void requestVariable(EnergyPlusState state, const char* type, const char* key);
int apiDataFullyReady(EnergyPlusState state);
int getVariableHandle(EnergyPlusState state, const char* type, const char* key);
int getActuatorHandle(EnergyPlusState state, const char* componentType, const char* controlType, const char* uniqueKey);
double getVariableValue(EnergyPlusState state, int handle);
void setActuatorValue(EnergyPlusState state, int handle, double value);
int hour(EnergyPlusState state);
int minutes(EnergyPlusState state);
int zoneTimeStepNum(EnergyPlusState state);
int numTimeStepsInHour(EnergyPlusState state);
double tomorrowWeatherOutDryBulbAtTime(EnergyPlusState state, int hour, int timeStepNum);

extern void goEndOfZoneTimeStep(EnergyPlusState state);
*/
import "C"

import (
	"context"
	"errors"
	"sync"
	"unsafe"

	"greenhouse-eplus/internal/engine"
)

// Runtime opens in-process EnergyPlus states.
type Runtime struct{}

func New() (*Runtime, error) { return &Runtime{}, nil }

func (r *Runtime) Name() string { return "capi" }

func (r *Runtime) NewSession() (engine.Session, error) {
	st := C.stateNew()
	if st == nil {
		return nil, errors.New("capi: stateNew returned nil")
	}
	return &session{state: st}, nil
}

// C callbacks only carry the state pointer, so sessions are found by it.
var (
	mu       sync.Mutex
	sessions = map[uintptr]*session{}
)

//export goEndOfZoneTimeStep
func goEndOfZoneTimeStep(st C.EnergyPlusState) {
	mu.Lock()
	s := sessions[uintptr(st)]
	mu.Unlock()
	if s != nil && s.cb != nil {
		s.cb(exchange{st})
	}
}

type session struct {
	state  C.EnergyPlusState
	cb     engine.Callback
	closed bool
}

func (s *session) RequestVariable(name, key string) error {
	cn, ck := C.CString(name), C.CString(key)
	defer C.free(unsafe.Pointer(cn))
	defer C.free(unsafe.Pointer(ck))
	C.requestVariable(s.state, cn, ck)
	return nil
}

func (s *session) OnEndOfZoneTimeStep(cb engine.Callback) error {
	if s.cb != nil {
		return errors.New("capi: callback already registered")
	}
	s.cb = cb
	mu.Lock()
	sessions[uintptr(s.state)] = s
	mu.Unlock()
	C.callbackEndOfZoneTimeStepAfterZoneReporting(s.state, (*[0]byte)(C.goEndOfZoneTimeStep))
	return nil
}

// Run calls the engine entry point. The C API has no cancellation, so ctx is
// only checked before starting.
func (s *session) Run(ctx context.Context, args engine.Args) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	argv := append([]string{"energyplus"}, args.Strings()...)
	cargs := make([]*C.char, len(argv))
	for i, a := range argv {
		cargs[i] = C.CString(a)
	}
	defer func() {
		for _, p := range cargs {
			C.free(unsafe.Pointer(p))
		}
	}()
	code := C.energyplus(s.state, C.int(len(cargs)), (**C.char)(unsafe.Pointer(&cargs[0])))
	if code != 0 {
		return &engine.ExitError{Code: int(code)}
	}
	return nil
}

func (s *session) Close() error {
	if s.closed {
		return errors.New("capi: session already closed")
	}
	s.closed = true
	mu.Lock()
	delete(sessions, uintptr(s.state))
	mu.Unlock()
	C.stateDelete(s.state)
	return nil
}

type exchange struct {
	state C.EnergyPlusState
}

func (x exchange) DataFullyReady() bool { return C.apiDataFullyReady(x.state) != 0 }

func (x exchange) VariableHandle(name, key string) int {
	cn, ck := C.CString(name), C.CString(key)
	defer C.free(unsafe.Pointer(cn))
	defer C.free(unsafe.Pointer(ck))
	return int(C.getVariableHandle(x.state, cn, ck))
}

func (x exchange) ActuatorHandle(componentType, controlType, key string) int {
	ct, cc, ck := C.CString(componentType), C.CString(controlType), C.CString(key)
	defer C.free(unsafe.Pointer(ct))
	defer C.free(unsafe.Pointer(cc))
	defer C.free(unsafe.Pointer(ck))
	return int(C.getActuatorHandle(x.state, ct, cc, ck))
}

func (x exchange) VariableValue(handle int) float64 {
	return float64(C.getVariableValue(x.state, C.int(handle)))
}

func (x exchange) SetActuatorValue(handle int, value float64) {
	C.setActuatorValue(x.state, C.int(handle), C.double(value))
}

func (x exchange) Hour() int { return int(C.hour(x.state)) }

func (x exchange) Minutes() int { return int(C.minutes(x.state)) }

func (x exchange) ZoneTimeStepNum() int { return int(C.zoneTimeStepNum(x.state)) }

func (x exchange) TimeStepsInHour() int { return int(C.numTimeStepsInHour(x.state)) }

func (x exchange) TomorrowOutdoorDryBulb(hour, timeStep int) float64 {
	return float64(C.tomorrowWeatherOutDryBulbAtTime(x.state, C.int(hour), C.int(timeStep)))
}
