// Package analysis summarizes result columns.
package analysis

import (
	"math"
	"sort"

	"greenhouse-eplus/internal/results"
)

// ColumnSummary describes one eplusout.csv column. NaN cells are skipped;
// Count is the number of values that were not.
type ColumnSummary struct {
	Column string        `json:"column"`
	Label  results.Label `json:"label"`

	Count int `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`
}

// Summarize computes the statistics of one column. With no values every
// statistic is NaN.
func Summarize(column string, values []float64) ColumnSummary {
	s := ColumnSummary{
		Column: column,
		Label:  results.ParseLabel(column),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		P05:    math.NaN(),
		P95:    math.NaN(),
	}
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return s
	}
	sort.Float64s(vals)
	s.Count = len(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Mean = results.Mean(vals)
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	return s
}

// SummarizeTable summarizes every data column in file order.
func SummarizeTable(t *results.Table) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for _, col := range t.Columns {
		v, _ := t.Column(col)
		out = append(out, Summarize(col, v))
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
