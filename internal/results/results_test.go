package results

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date/Time,Environment:Site Outdoor Air Drybulb Temperature [C](Hourly),MAINZ:Zone Mean Air Temperature [C](Hourly),GHROOF:Surface Inside Face Temperature [C](TimeStep)
 01/01  01:00:00,-2.5,18.0,10
 01/01  02:00:00,-3.5,,11
 01/01  03:00:00,-4.0,20.0,12
`

func writeOutput(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	tbl, err := Load(writeOutput(t, sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "01/01  01:00:00", tbl.Index[0])
	require.Len(t, tbl.Columns, 3)
	assert.False(t, tbl.Has(IndexColumn))

	zone, err := tbl.Column("MAINZ:Zone Mean Air Temperature [C](Hourly)")
	require.NoError(t, err)
	assert.Equal(t, 18.0, zone[0])
	assert.True(t, math.IsNaN(zone[1]))
	assert.Equal(t, 19.0, Mean(zone))

	out, err := tbl.Column("Environment:Site Outdoor Air Drybulb Temperature [C](Hourly)")
	require.NoError(t, err)
	assert.InDelta(t, -10.0/3, Mean(out), 1e-12)
}

func TestColumnNotFound(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, err = tbl.Column("nope")
	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "nope", colErr.Column)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")

	_, err = Read(strings.NewReader("Date/Time,a\n x,abc\n"))
	assert.ErrorContains(t, err, `row 2 column "a"`)

	_, err = Read(strings.NewReader("Date/Time,a,a\n"))
	assert.ErrorContains(t, err, "duplicate column")

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShortRowsAreNaN(t *testing.T) {
	tbl, err := Read(strings.NewReader("Date/Time,a,b\n x,1\n"))
	require.NoError(t, err)
	b, err := tbl.Column("b")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(b[0]))
}

func TestMean(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
	assert.Equal(t, 2.0, Mean([]float64{1, math.NaN(), 3}))
}

func TestParseLabel(t *testing.T) {
	l := ParseLabel("GHWALLS:Surface Inside Face Temperature [C](Hourly)")
	assert.Equal(t, Label{
		Key:       "GHWALLS",
		Variable:  "Surface Inside Face Temperature",
		Units:     "C",
		Frequency: "Hourly",
	}, l)
	assert.Equal(t, "GHWALLS:Surface Inside Face Temperature [C](Hourly)", l.Column())

	assert.Equal(t, Label{Variable: "Date/Time"}, ParseLabel("Date/Time"))
	assert.Equal(t, Label{Key: "Environment", Variable: "Site Outdoor Air Relative Humidity", Units: "%", Frequency: "Hourly"},
		ParseLabel("Environment:Site Outdoor Air Relative Humidity [%](Hourly)"))
}

func TestReadVariableDictionary(t *testing.T) {
	regular := `Program Version,EnergyPlus, Version 9.5.0-de239b2e5f, YMD=2021.09.01 10:00
Var Type (reported time step),Var Report Type,Variable Name [Units]
Zone,Average,Site Outdoor Air Drybulb Temperature [C]
HVAC,Sum,Zone Other Equipment Electricity Energy [J]
`
	vars, err := ReadVariableDictionary(strings.NewReader(regular))
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, Variable{Name: "Site Outdoor Air Drybulb Temperature", Units: "C", TimeStep: "Zone", ReportType: "Average"}, vars[0])
	assert.Equal(t, "Sum", vars[1].ReportType)

	idfForm := `! Program Version,EnergyPlus, Version 9.5.0-de239b2e5f, YMD=2021.09.01 10:00
! Output:Variable Objects (applicable to this run)
Output:Variable,*,Site Outdoor Air Drybulb Temperature,hourly; !- Zone Average [C]
Output:Variable,*,Zone Mean Air Temperature,hourly; !- Zone Average [C]
`
	vars, err = ReadVariableDictionary(strings.NewReader(idfForm))
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, Variable{Name: "Zone Mean Air Temperature", Units: "C", TimeStep: "Zone", ReportType: "Average"}, vars[1])

	_, err = ReadVariableDictionary(strings.NewReader("garbage\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestCatalogRoundTrip(t *testing.T) {
	c := NewCatalog("eplusout.rdd", "2021-09-01T10:00:00Z", []Variable{
		{Name: "Zone Mean Air Temperature"},
		{Name: "Site Sky Temperature"},
		{Name: "zone mean air temperature"},
	})
	require.Len(t, c.Variables, 2)
	assert.Equal(t, "Site Sky Temperature", c.Variables[0].Name)

	path := filepath.Join(t.TempDir(), "nested", "variables.json")
	require.NoError(t, SaveCatalog(c, path))
	got, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, ok := got.Find("ZONE MEAN AIR TEMPERATURE")
	assert.True(t, ok)
}

func TestCache(t *testing.T) {
	dir := writeOutput(t, sampleCSV)
	c := NewCache(time.Hour)

	a, err := c.Load(dir)
	require.NoError(t, err)
	b, err := c.Load(dir)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	c.Prune()
	assert.Equal(t, 0, c.Len())

	var nilCache *Cache
	tbl, err := nilCache.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}
