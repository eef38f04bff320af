package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/idf"
)

func greenhouse(t *testing.T) *Model {
	t.Helper()
	m, err := Greenhouse(DefaultGreenhouseParams())
	require.NoError(t, err)
	return m
}

func TestGreenhouseRenders(t *testing.T) {
	m := greenhouse(t)
	assert.Empty(t, m.CheckReferences())

	text, err := m.Text()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "! IDF file created by greenhouse-eplus\n\n  Version,9.5;\n"))
	assert.Equal(t, 5, strings.Count(text, "  BuildingSurface:Detailed,\n"))
	assert.Equal(t, 11, strings.Count(text, "  Output:Variable,"))
	assert.Contains(t, text, "  Output:Variable,GHRoof,Surface Inside Face Temperature,Hourly;\n")
	assert.Contains(t, text, "  Output:VariableDictionary,IDF;\n")
	assert.Contains(t, text, "    Yes,                           !- Output RDD\n")
	assert.Contains(t, text, "    1.73,                          !- Conductivity {W/m-K}\n")

	// Every object ends with one blank line; the comment adds one more.
	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, strings.Count(text, "\n\n")-1, n)
	assert.Greater(t, n, len(m.Objects())+1)
}

func TestGreenhouseRejectsBadDimensions(t *testing.T) {
	p := DefaultGreenhouseParams()
	p.Width = 0
	_, err := Greenhouse(p)
	assert.ErrorContains(t, err, "dimensions")
}

func TestGreenhouseLabels(t *testing.T) {
	labels := GreenhouseLabels("MAINZ")
	assert.Len(t, labels, 11)
	assert.Equal(t, "Ti", labels["MAINZ:Zone Mean Air Temperature [C](Hourly)"])
	assert.Equal(t, "TwS", labels["SOUTHWALL:Surface Inside Face Temperature [C](Hourly)"])
	assert.Equal(t, "RHo", labels["Environment:Site Outdoor Air Relative Humidity [%](Hourly)"])
}

func TestExampleModelsMatchPreset(t *testing.T) {
	want, err := greenhouse(t).Text()
	require.NoError(t, err)

	for _, name := range []string{"greenhouse.yaml", "greenhouse.hcl"} {
		t.Run(name, func(t *testing.T) {
			m, err := LoadFile(filepath.Join("..", "..", "examples", "models", name))
			require.NoError(t, err)
			got, err := m.Text()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseJSONKeepsDefaults(t *testing.T) {
	src := `{
		"building": {"name": "BOX", "terrain": "City"},
		"materials": [{"name": "STEEL"}],
		"constructions": [{"name": "WALL", "layers": ["STEEL"]}],
		"zones": [{"name": "Z1"}],
		"surfaces": [{"name": "ROOF", "type": "Roof", "construction": "WALL", "zone": "Z1",
			"vertices": [[0,0,3],[1,0,3],[1,1,3],[0,1,3]]}],
		"output_files": {"rdd": true},
		"outputs": [{"requests": ["Zone Air Temperature"]}]
	}`
	m, err := Parse([]byte(src), FormatJSON, "box.json")
	require.NoError(t, err)

	assert.Equal(t, idf.TerrainCity, m.Building.Terrain)
	assert.Equal(t, 30, m.Building.MaxWarmupDays)
	assert.Equal(t, idf.DefaultAlgorithms(), m.Algorithms)
	assert.Equal(t, 7850.0, m.Materials[0].Density)
	assert.Equal(t, idf.Outdoors, m.Surfaces[0].OutsideBoundary)
	assert.True(t, m.OutputFiles.Enabled("CSV"))
	assert.True(t, m.OutputFiles.Enabled("RDD"))
	assert.Equal(t, idf.Hourly, m.Outputs[0].Frequency)
	assert.Empty(t, m.CheckReferences())

	_, err = Parse([]byte(`{"bulding": {}}`), FormatJSON, "typo.json")
	assert.Error(t, err)
}

func TestParseJSONRejectsNestedTypos(t *testing.T) {
	_, err := Parse([]byte(`{"zones": [{"name": "Z1", "multiplyer": 2}]}`), FormatJSON, "box.json")
	assert.ErrorContains(t, err, `unknown field "multiplyer"`)

	_, err = Parse([]byte(`{"zonez": []}`), FormatJSON, "box.json")
	assert.ErrorContains(t, err, `unknown field "zonez"`)
}

func TestParseHCLErrors(t *testing.T) {
	_, err := Parse([]byte(`surface "S" { vertices = [[0, 0]] }`), FormatHCL, "bad.hcl")
	assert.ErrorContains(t, err, "vertex 1 needs 3 coordinates")

	_, err = Parse([]byte(`output "Hourly" { requests = [["a", "b", "c"]] }`), FormatHCL, "bad.hcl")
	assert.ErrorContains(t, err, "pair needs 2 elements")

	_, err = Parse([]byte(`zone "Z" { height = H }`), FormatHCL, "bad.hcl")
	assert.Error(t, err)
}

func TestCheckReferences(t *testing.T) {
	m := greenhouse(t)
	m.Constructions[0].Layers = append(m.Constructions[0].Layers, "PAINT")
	m.Surfaces[0].Zone = "OTHER"

	problems := m.CheckReferences()
	require.Len(t, problems, 2)
	assert.Equal(t, `Construction "GHWALL": unknown material "PAINT"`, problems[0].String())
	assert.Equal(t, "BuildingSurface:Detailed", problems[1].Object)
	assert.Contains(t, problems[1].Detail, "OTHER")

	// The writer does not enforce references.
	_, err := m.Text()
	assert.NoError(t, err)
}

func TestWriteFileLeavesNothingOnInvalidModel(t *testing.T) {
	dir := t.TempDir()
	m := greenhouse(t)
	m.Surfaces[1].VertexCount = 7

	path := filepath.Join(dir, "bad.idf")
	err := m.WriteFile(path)
	var verr *idf.ValidationError
	require.ErrorAs(t, err, &verr)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	m.Surfaces[1].VertexCount = 0
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "EastWall")
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b/model.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = FormatOf("model.toml")
	assert.ErrorContains(t, err, ".toml")
}
