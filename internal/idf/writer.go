package idf

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Writer appends IDF objects to one output stream. It is not safe for
// concurrent use. The first I/O error is sticky and returned by every later
// call, including Close.
type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	err     error
	closed  bool
	objects int
}

// Create creates (or truncates) path and writes the header to it.
func Create(path string, h Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create idf: %w", err)
	}
	w, err := newWriter(f, f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter writes the header to w. Close flushes but does not close w.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	return newWriter(w, nil, h)
}

func newWriter(w io.Writer, c io.Closer, h Header) (*Writer, error) {
	recs, err := h.Records()
	if err != nil {
		return nil, err
	}
	iw := &Writer{w: bufio.NewWriter(w), closer: c}
	if h.Comment != "" {
		iw.printf("! %s\n\n", h.Comment)
	}
	for _, r := range recs {
		iw.printf("%s", r.Text())
	}
	return iw, iw.err
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Write validates every object first and then appends all of them, so a
// rejected object leaves the document unchanged.
func (w *Writer) Write(objs ...Object) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	var recs []Record
	for _, o := range objs {
		rs, err := o.Records()
		if err != nil {
			return err
		}
		recs = append(recs, rs...)
	}
	for _, r := range recs {
		w.printf("%s", r.Text())
	}
	if w.err == nil {
		w.objects += len(recs)
	}
	return w.err
}

// Objects is the number of objects written so far, header excluded.
func (w *Writer) Objects() int { return w.objects }

// Close flushes the document and closes the underlying file. Calling it more
// than once returns ErrClosed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if err := w.w.Flush(); err != nil && w.err == nil {
		w.err = err
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && w.err == nil {
			w.err = err
		}
	}
	return w.err
}

func (w *Writer) Building(b Building) error                     { return w.Write(b) }
func (w *Writer) Algorithms(a Algorithms) error                 { return w.Write(a) }
func (w *Writer) SimulationControl(s SimulationControl) error   { return w.Write(s) }
func (w *Writer) RunPeriod(p RunPeriod) error                   { return w.Write(p) }
func (w *Writer) Material(m Material) error                     { return w.Write(m) }
func (w *Writer) MaterialNoMass(m MaterialNoMass) error         { return w.Write(m) }
func (w *Writer) WindowGlazing(g WindowGlazing) error           { return w.Write(g) }
func (w *Writer) GroundTemperatures(g GroundTemperatures) error { return w.Write(g) }
func (w *Writer) Zone(z Zone) error                             { return w.Write(z) }
func (w *Writer) GlobalGeometryRules(g GlobalGeometryRules) error {
	return w.Write(g)
}
func (w *Writer) BuildingSurface(s BuildingSurface) error       { return w.Write(s) }
func (w *Writer) FloorAdiabatic(f FloorAdiabatic) error         { return w.Write(f) }
func (w *Writer) OutputControlFiles(o OutputControlFiles) error { return w.Write(o) }
func (w *Writer) VariableDictionary(d VariableDictionary) error { return w.Write(d) }

// Construction writes name followed by its layers, outside to inside.
func (w *Writer) Construction(name string, layers ...string) error {
	return w.Write(Construction{Name: name, Layers: layers})
}

// OutputVariables writes one Output:Variable per request.
func (w *Writer) OutputVariables(freq Frequency, reqs ...OutputRequest) error {
	return w.Write(OutputVariables{Frequency: freq, Requests: reqs})
}
