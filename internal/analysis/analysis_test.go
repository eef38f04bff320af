package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/results"
)

func TestSummarize(t *testing.T) {
	vals := make([]float64, 0, 21)
	for i := 20; i >= 0; i-- {
		vals = append(vals, float64(i))
	}
	vals = append(vals, math.NaN())

	s := Summarize("MAINZ:Zone Mean Air Temperature [C](Hourly)", vals)
	assert.Equal(t, 21, s.Count)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 20.0, s.Max)
	assert.Equal(t, 10.0, s.Mean)
	assert.InDelta(t, 1.0, s.P05, 1e-12)
	assert.InDelta(t, 19.0, s.P95, 1e-12)
	assert.Equal(t, "MAINZ", s.Label.Key)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("x", []float64{math.NaN()})
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.P95))
}

func TestRankByMean(t *testing.T) {
	tbl, err := results.Read(strings.NewReader("Date/Time,low,high,empty\n a,1,10,\n b,3,30,\n"))
	require.NoError(t, err)

	ranked, err := RankByMean(tbl)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Column)
	assert.Equal(t, "low", ranked[1].Column)
	assert.Equal(t, "empty", ranked[2].Column)

	ranked, err = RankByMean(tbl, "low")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 2.0, ranked[0].Mean)

	_, err = RankByMean(tbl, "missing")
	assert.ErrorIs(t, err, results.ErrColumnNotFound)
}

func TestSummarizeTable(t *testing.T) {
	tbl, err := results.Read(strings.NewReader("Date/Time,a,b\n x,1,2\n"))
	require.NoError(t, err)
	sums := SummarizeTable(tbl)
	require.Len(t, sums, 2)
	assert.Equal(t, "a", sums[0].Column)
	assert.Equal(t, 2.0, sums[1].Max)
}
