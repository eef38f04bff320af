package strategy

import (
	"fmt"
	"strings"
)

// ScheduleParams applies OnPowerW during the daily window [OnStart, OnEnd)
// and OffPowerW otherwise. Times are simulation local time, "HH:MM".
type ScheduleParams struct {
	OnStart   string
	OnEnd     string
	OnPowerW  float64
	OffPowerW float64
}

type ScheduleStrategy struct {
	Params ScheduleParams

	startMins int
	endMins   int
}

func NewScheduleStrategy(p ScheduleParams) (*ScheduleStrategy, error) {
	start, err := parseHHMM(p.OnStart)
	if err != nil {
		return nil, err
	}
	end, err := parseHHMM(p.OnEnd)
	if err != nil {
		return nil, err
	}
	return &ScheduleStrategy{Params: p, startMins: start, endMins: end}, nil
}

func (s *ScheduleStrategy) Name() string { return "schedule" }

func (s *ScheduleStrategy) Decide(ctx Context) Decision {
	mins := ctx.Hour*60 + ctx.Minute
	if inWindow(mins, s.startMins, s.endMins) {
		return Decision{PowerW: s.Params.OnPowerW}
	}
	return Decision{PowerW: s.Params.OffPowerW}
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// An empty window (start == end) never matches; start > end wraps past
// midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
