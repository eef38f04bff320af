// Package strategy decides the heating power of a zone at each time step.
package strategy

import (
	"fmt"
	"strings"
)

// Context is what a strategy sees at one zone time step. Hour and Minute are
// the clock at the end of the step, so Minute runs 1..60 and Hour*60+Minute
// is the start of the step the decision applies to.
type Context struct {
	Step     int     // invocation number since the controller became steady
	Hour     int     // 0..23
	Minute   int     // 1..60
	ZoneTemp float64 // zone air temperature, deg C
}

// Decision is the power level to apply to the actuator, in W.
type Decision struct {
	PowerW float64
}

type Strategy interface {
	Name() string
	Decide(ctx Context) Decision
}

// Build constructs a strategy by name. Missing params take their documented
// defaults; see Catalog.
func Build(name string, params map[string]any) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "threshold":
		return &ThresholdStrategy{Params: ThresholdParams{
			SetpointC: num(params, "setpoint_c", DefaultSetpointC),
			OnPowerW:  num(params, "on_power_w", DefaultOnPowerW),
			OffPowerW: num(params, "off_power_w", 0),
		}}, nil
	case "schedule":
		return NewScheduleStrategy(ScheduleParams{
			OnStart:   str(params, "on_start", "06:00"),
			OnEnd:     str(params, "on_end", "18:00"),
			OnPowerW:  num(params, "on_power_w", DefaultOnPowerW),
			OffPowerW: num(params, "off_power_w", 0),
		})
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}

func num(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		case int:
			return float64(x)
		case int64:
			return float64(x)
		}
	}
	return def
}

func str(m map[string]any, key string, def string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// Param documents one strategy parameter.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
}

// Info documents one strategy.
type Info struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  []Param `json:"parameters"`
}

// Catalog lists every strategy Build accepts.
func Catalog() []Info {
	return []Info{
		{
			Name:        "threshold",
			Description: "Two-level switch. Applies on_power_w when the zone is at or above the setpoint, off_power_w below it.",
			Parameters: []Param{
				{Name: "setpoint_c", Type: "float", Description: "Zone air temperature threshold in deg C (inclusive)", Default: DefaultSetpointC},
				{Name: "on_power_w", Type: "float", Description: "Power level at or above the setpoint, W", Default: DefaultOnPowerW},
				{Name: "off_power_w", Type: "float", Description: "Power level below the setpoint, W", Default: 0.0},
			},
		},
		{
			Name:        "schedule",
			Description: "Daily time window. Applies on_power_w during [on_start, on_end) and off_power_w otherwise.",
			Parameters: []Param{
				{Name: "on_start", Type: "string", Description: "Window start (HH:MM)", Default: "06:00"},
				{Name: "on_end", Type: "string", Description: "Window end (HH:MM); before on_start wraps past midnight", Default: "18:00"},
				{Name: "on_power_w", Type: "float", Description: "Power level inside the window, W", Default: DefaultOnPowerW},
				{Name: "off_power_w", Type: "float", Description: "Power level outside the window, W", Default: 0.0},
			},
		},
	}
}
