// Package results reads what EnergyPlus leaves in an output folder.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the result table EnergyPlus writes when OutputControl:Files
// enables CSV output.
const FileName = "eplusout.csv"

// IndexColumn is the first column of eplusout.csv.
const IndexColumn = "Date/Time"

var ErrColumnNotFound = errors.New("column not found")

// ColumnError names a column the table does not have.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("results: %q: %v", e.Column, ErrColumnNotFound)
}

func (e *ColumnError) Unwrap() error { return ErrColumnNotFound }

// Table is eplusout.csv indexed by its Date/Time column. Blank cells are NaN.
type Table struct {
	Index   []string
	Columns []string
	values  map[string][]float64
}

// Load reads eplusout.csv from an output folder.
func Load(outputDir string) (*Table, error) {
	return ReadFile(filepath.Join(outputDir, FileName))
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a result table. The first column is the index.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty results file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 1 {
		return nil, errors.New("header has no columns")
	}

	t := &Table{values: map[string][]float64{}}
	for _, h := range header[1:] {
		h = strings.TrimSpace(h)
		if _, dup := t.values[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		t.Columns = append(t.Columns, h)
		t.values[h] = nil
	}

	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", row, len(rec), len(header))
		}
		t.Index = append(t.Index, strings.TrimSpace(rec[0]))
		for i, col := range t.Columns {
			v := math.NaN()
			if i+1 < len(rec) {
				cell := strings.TrimSpace(rec[i+1])
				if cell != "" {
					v, err = strconv.ParseFloat(cell, 64)
					if err != nil {
						return nil, fmt.Errorf("row %d column %q: %w", row, col, err)
					}
				}
			}
			t.values[col] = append(t.values[col], v)
		}
	}
	return t, nil
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Index) }

// Has reports whether name is a data column.
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of a data column. The slice is shared with the
// table.
func (t *Table) Column(name string) ([]float64, error) {
	v, ok := t.values[name]
	if !ok {
		return nil, &ColumnError{Column: name}
	}
	return v, nil
}

// Mean is the arithmetic mean of the non-NaN values, or NaN when there are
// none.
func Mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
