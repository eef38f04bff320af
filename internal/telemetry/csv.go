package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LogFile is the run log written to the output directory.
const LogFile = "apilog.csv"

var csvHeader = []string{
	"step",
	"hour",
	"minute",
	"zone_air_temperature_c",
	"power_level_w",
	"action",
	"forecast_drybulb_c",
}

// CSVSink writes one row per record. Rows are buffered and flushed on Close.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// CreateCSV creates path and writes the header.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create run log: %w", err)
	}
	s := &CSVSink{f: f, w: csv.NewWriter(f)}
	if err := s.w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Write(r Record) error {
	forecast := ""
	if r.HasForecast() {
		forecast = fmtFloat(r.Forecast)
	}
	return s.w.Write([]string{
		strconv.Itoa(r.Step),
		strconv.Itoa(r.Hour),
		strconv.Itoa(r.Minute),
		fmtFloat(r.ZoneTemp),
		fmtFloat(r.PowerW),
		string(r.Action),
		forecast,
	})
}

// Close flushes and closes the file. It is safe to call more than once.
func (s *CSVSink) Close() error {
	if s.f == nil {
		return nil
	}
	s.w.Flush()
	err := s.w.Error()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
