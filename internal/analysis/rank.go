package analysis

import (
	"math"
	"sort"

	"greenhouse-eplus/internal/results"
)

// RankByMean summarizes the requested columns (all when none are given) and
// sorts them by descending mean. Columns without values sort last.
func RankByMean(t *results.Table, columns ...string) ([]ColumnSummary, error) {
	if len(columns) == 0 {
		columns = t.Columns
	}
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		v, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(col, v))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Mean, out[j].Mean
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return out, nil
}
