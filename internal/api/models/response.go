package models

import (
	"math"
	"time"

	"greenhouse-eplus/internal/analysis"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/simulation"
)

// Run statuses.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunResponse describes a run and, once it has finished, its result.
type RunResponse struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	Error      *ErrorDetail       `json:"error,omitempty"`
	Result     *simulation.Result `json:"result,omitempty"`
}

// ColumnStats mirrors analysis.ColumnSummary with NaN written as null.
type ColumnStats struct {
	Column string        `json:"column"`
	Label  results.Label `json:"label"`
	Count  int           `json:"count"`
	Min    *float64      `json:"min"`
	Max    *float64      `json:"max"`
	Mean   *float64      `json:"mean"`
	P05    *float64      `json:"p05"`
	P95    *float64      `json:"p95"`
}

func NewColumnStats(s analysis.ColumnSummary) ColumnStats {
	return ColumnStats{
		Column: s.Column,
		Label:  s.Label,
		Count:  s.Count,
		Min:    Float(s.Min),
		Max:    Float(s.Max),
		Mean:   Float(s.Mean),
		P05:    Float(s.P05),
		P95:    Float(s.P95),
	}
}

// SummaryResponse is GET /api/v1/runs/:id/summary.
type SummaryResponse struct {
	RunID   string        `json:"run_id"`
	Rows    int           `json:"rows"`
	Columns []ColumnStats `json:"columns"`
}

// SeriesResponse is GET /api/v1/runs/:id/series.
type SeriesResponse struct {
	RunID  string     `json:"run_id"`
	Column string     `json:"column"`
	Label  string     `json:"label"`
	From   int        `json:"from"`
	Index  []string   `json:"index"`
	Values []*float64 `json:"values"`
	// Mean covers the whole column.
	Mean *float64 `json:"mean"`
}

// ModelInfo describes a model file in the models directory.
type ModelInfo struct {
	ID       string   `json:"id"`
	File     string   `json:"file"`
	Format   string   `json:"format"`
	Building string   `json:"building"`
	Zones    []string `json:"zones"`
	Surfaces int      `json:"surfaces"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Float maps NaN to nil.
func Float(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// Floats maps every NaN in xs to nil.
func Floats(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}
