package strategy

const (
	DefaultSetpointC = 22.0
	DefaultOnPowerW  = 1300.0
)

// ThresholdParams configures a two-level switch without hysteresis.
type ThresholdParams struct {
	SetpointC float64
	OnPowerW  float64
	OffPowerW float64
}

type ThresholdStrategy struct {
	Params ThresholdParams
}

func (s *ThresholdStrategy) Name() string { return "threshold" }

// Decide switches on at or above the setpoint.
func (s *ThresholdStrategy) Decide(ctx Context) Decision {
	if ctx.ZoneTemp >= s.Params.SetpointC {
		return Decision{PowerW: s.Params.OnPowerW}
	}
	return Decision{PowerW: s.Params.OffPowerW}
}
