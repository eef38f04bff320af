// Package control implements the per-time-step zone controller run inside an
// EnergyPlus callback.
package control

import (
	"errors"
	"fmt"
	"math"

	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/strategy"
	"greenhouse-eplus/internal/telemetry"
)

// Phase is the controller lifecycle. It only moves forward.
type Phase int

const (
	NotReady Phase = iota
	Ready
	Steady
)

func (p Phase) String() string {
	switch p {
	case NotReady:
		return "not_ready"
	case Ready:
		return "ready"
	case Steady:
		return "steady"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ZoneTemperature is the sensor variable the controller reads.
const ZoneTemperature = "Zone Air Temperature"

// ErrHandleNotFound is matched by every InitError.
var ErrHandleNotFound = errors.New("handle not found")

// InitError reports a sensor or actuator the engine could not resolve.
type InitError struct {
	Kind string // "sensor" or "actuator"
	What string
}

func (e *InitError) Error() string {
	return fmt.Sprintf("control: %s %s: %v", e.Kind, e.What, ErrHandleNotFound)
}

func (e *InitError) Unwrap() error { return ErrHandleNotFound }

// Actuator names an EnergyPlus actuator.
type Actuator struct {
	ComponentType string `yaml:"component_type" json:"component_type"`
	ControlType   string `yaml:"control_type" json:"control_type"`
	Key           string `yaml:"key" json:"key"`
}

func (a Actuator) String() string {
	return fmt.Sprintf("%s/%s/%s", a.ComponentType, a.ControlType, a.Key)
}

// Settings configures a Controller.
type Settings struct {
	Zone         string         `yaml:"zone" json:"zone"`
	Actuator     Actuator       `yaml:"actuator" json:"actuator"`
	ForecastHour int            `yaml:"forecast_hour" json:"forecast_hour"`
	ForecastStep int            `yaml:"forecast_step" json:"forecast_step"`
	Strategy     StrategyConfig `yaml:"strategy" json:"strategy"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params" json:"params"`
}

// DefaultSettings controls the greenhouse zone with the threshold strategy
// and asks for tomorrow's dry-bulb at hour 3, time step 2.
func DefaultSettings() Settings {
	return Settings{
		Zone: "MAINZ",
		Actuator: Actuator{
			ComponentType: "OtherEquipment",
			ControlType:   "Power Level",
			Key:           "TestOtherEquipment",
		},
		ForecastHour: 3,
		ForecastStep: 2,
		Strategy:     StrategyConfig{Name: "threshold"},
	}
}

// Controller is the state shared by the callbacks of a single run. It is
// not safe for concurrent use; EnergyPlus calls it from one thread.
type Controller struct {
	settings Settings
	strat    strategy.Strategy
	sink     telemetry.Sink

	phase    Phase
	sensor   int
	actuator int
	steps    int
	err      error
}

// New builds a controller. A nil sink drops records.
func New(s Settings, sink telemetry.Sink) (*Controller, error) {
	if s.Zone == "" {
		return nil, errors.New("control: zone is required")
	}
	strat, err := strategy.Build(s.Strategy.Name, s.Strategy.Params)
	if err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}
	return &Controller{
		settings: s,
		strat:    strat,
		sink:     sink,
		sensor:   engine.InvalidHandle,
		actuator: engine.InvalidHandle,
	}, nil
}

func (c *Controller) Settings() Settings { return c.settings }

func (c *Controller) Phase() Phase { return c.phase }

// Steps is the number of steady invocations so far.
func (c *Controller) Steps() int { return c.steps }

// Err is the first error raised by a callback, if any.
func (c *Controller) Err() error { return c.err }

// Callback adapts Step to an engine callback. Once Step has failed, later
// invocations do nothing.
func (c *Controller) Callback() engine.Callback {
	return func(x engine.Exchange) {
		if c.err != nil {
			return
		}
		c.err = c.Step(x)
	}
}

// Step runs one zone time step.
func (c *Controller) Step(x engine.Exchange) error {
	if c.phase == NotReady {
		if !x.DataFullyReady() {
			return nil
		}
		if err := c.resolve(x); err != nil {
			return err
		}
		c.phase = Ready
	}
	c.phase = Steady
	c.steps++

	temp := x.VariableValue(c.sensor)
	d := c.strat.Decide(strategy.Context{
		Step:     c.steps,
		Hour:     x.Hour(),
		Minute:   x.Minutes(),
		ZoneTemp: temp,
	})
	x.SetActuatorValue(c.actuator, d.PowerW)

	rec := telemetry.Record{
		Step:     c.steps,
		Hour:     x.Hour(),
		Minute:   x.Minutes(),
		ZoneTemp: temp,
		PowerW:   d.PowerW,
		Action:   telemetry.ActionFromPowerW(d.PowerW),
		Forecast: math.NaN(),
	}
	if x.ZoneTimeStepNum() == 1 {
		rec.Forecast = x.TomorrowOutdoorDryBulb(c.settings.ForecastHour, c.settings.ForecastStep)
	}
	if c.sink == nil {
		return nil
	}
	if err := c.sink.Write(rec); err != nil {
		return fmt.Errorf("control: write record: %w", err)
	}
	return nil
}

func (c *Controller) resolve(x engine.Exchange) error {
	c.sensor = x.VariableHandle(ZoneTemperature, c.settings.Zone)
	if c.sensor == engine.InvalidHandle {
		return &InitError{Kind: "sensor", What: fmt.Sprintf("%s at %s", ZoneTemperature, c.settings.Zone)}
	}
	a := c.settings.Actuator
	c.actuator = x.ActuatorHandle(a.ComponentType, a.ControlType, a.Key)
	if c.actuator == engine.InvalidHandle {
		return &InitError{Kind: "actuator", What: a.String()}
	}
	return nil
}
