// Package plot draws result columns against simulation hours.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/plt"

	"greenhouse-eplus/internal/results"
)

// Options selects and decorates the plotted series.
type Options struct {
	// Columns to draw. Empty means every data column.
	Columns []string `yaml:"columns" json:"columns,omitempty"`
	// Labels renames columns in the legend.
	Labels map[string]string `yaml:"labels" json:"labels,omitempty"`
	// FromHour and ToHour bound the drawn rows. ToHour 0 means the end of
	// the table.
	FromHour int      `yaml:"from_hour" json:"from_hour"`
	ToHour   int      `yaml:"to_hour" json:"to_hour"`
	YMin     *float64 `yaml:"y_min" json:"y_min,omitempty"`
	YMax     *float64 `yaml:"y_max" json:"y_max,omitempty"`
	XLabel   string   `yaml:"x_label" json:"x_label"`
	YLabel   string   `yaml:"y_label" json:"y_label"`
	Title    string   `yaml:"title" json:"title,omitempty"`
	Legend   string   `yaml:"legend" json:"legend"`
	// Dir and Key name the image: <Dir>/<Key>.png. Dir defaults to the
	// working directory.
	Dir string `yaml:"dir" json:"dir"`
	Key string `yaml:"key" json:"key"`
}

// DefaultOptions draws the first 8000 hours between 0 and 30 °C.
func DefaultOptions() Options {
	ymin, ymax := 0.0, 30.0
	return Options{
		ToHour: 8000,
		YMin:   &ymin,
		YMax:   &ymax,
		XLabel: "Hours",
		YLabel: "Temperature [C]",
		Legend: "upper left",
		Key:    "eplusout",
	}
}

// Series is one plotted column. Mean covers the whole column, not only the
// drawn window.
type Series struct {
	Column string
	Label  string
	X      []float64
	Y      []float64
	Mean   float64
}

// Prepare picks the series to draw from t.
func Prepare(t *results.Table, o Options) ([]Series, error) {
	if o.FromHour < 0 || o.ToHour < 0 {
		return nil, errors.New("plot: hour window must not be negative")
	}
	if o.ToHour != 0 && o.ToHour <= o.FromHour {
		return nil, fmt.Errorf("plot: empty hour window [%d, %d)", o.FromHour, o.ToHour)
	}
	cols := o.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	lo, hi := o.FromHour, o.ToHour
	if hi == 0 || hi > t.Len() {
		hi = t.Len()
	}
	if lo > hi {
		lo = hi
	}

	out := make([]Series, 0, len(cols))
	for _, col := range cols {
		v, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		s := Series{
			Column: col,
			Label:  col,
			Y:      v[lo:hi],
			Mean:   results.Mean(v),
		}
		if l, ok := o.Labels[col]; ok && l != "" {
			s.Label = l
		}
		s.X = make([]float64, hi-lo)
		for i := range s.X {
			s.X[i] = float64(lo + i)
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteAverages prints one "average(<column>) = <mean>" line per series,
// with one decimal.
func WriteAverages(w io.Writer, series []Series) error {
	for _, s := range series {
		if _, err := fmt.Fprintf(w, "average(%s) = %.1f\n", s.Column, s.Mean); err != nil {
			return err
		}
	}
	return nil
}

// interpreter is what gosl runs the generated matplotlib script with.
func interpreter() string {
	if p := os.Getenv("PYTHON"); p != "" {
		return p
	}
	return "python"
}

// save writes the current figure; gosl panics when the script fails.
var save = plt.Save

// Render draws series with matplotlib through gosl and returns the image
// path.
func Render(series []Series, o Options) (path string, err error) {
	if len(series) == 0 {
		return "", errors.New("plot: nothing to draw")
	}
	if o.Key == "" {
		return "", errors.New("plot: key is required")
	}
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("plot: %w", err)
	}
	py := interpreter()
	if _, err := exec.LookPath(py); err != nil {
		return "", fmt.Errorf("plot: matplotlib needs %s: %w", py, err)
	}
	defer func() {
		if r := recover(); r != nil {
			path, err = "", fmt.Errorf("plot: %s", strings.TrimSpace(fmt.Sprint(r)))
		}
	}()

	plt.Reset(true, &plt.A{Prop: 0.6})
	for _, s := range series {
		plt.Plot(s.X, s.Y, &plt.A{L: s.Label, NoClip: true})
	}
	if o.YMin != nil && o.YMax != nil {
		plt.AxisYrange(*o.YMin, *o.YMax)
	}
	if o.Title != "" {
		plt.Title(o.Title, nil)
	}
	plt.Gll(o.XLabel, o.YLabel, &plt.A{LegLoc: o.Legend})
	save(dir, o.Key)
	return filepath.Join(dir, o.Key+".png"), nil
}
