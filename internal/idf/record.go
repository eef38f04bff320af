package idf

import (
	"fmt"
	"strings"
)

// Field is one formatted IDF field with the IDD field name used as its comment.
type Field struct {
	Value string
	Note  string
}

// Record is one IDF object ready to be written: a class name followed by its
// ordered fields. Compact records are written on a single line.
type Record struct {
	Class   string
	Fields  []Field
	Compact bool
}

// Values returns the field values in order.
func (r Record) Values() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Value
	}
	return out
}

// Text renders the record, terminated by a semicolon and a blank line.
func (r Record) Text() string {
	var b strings.Builder
	if r.Compact || len(r.Fields) == 0 {
		b.WriteString("  ")
		b.WriteString(r.Class)
		for _, f := range r.Fields {
			b.WriteByte(',')
			b.WriteString(f.Value)
		}
		b.WriteString(";\n\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  %s,\n", r.Class)
	last := len(r.Fields) - 1
	for i, f := range r.Fields {
		sep := ","
		if i == last {
			sep = ";"
		}
		if f.Note == "" {
			fmt.Fprintf(&b, "    %s%s\n", f.Value, sep)
			continue
		}
		fmt.Fprintf(&b, "    %-30s !- %s\n", f.Value+sep, f.Note)
	}
	b.WriteByte('\n')
	return b.String()
}

// Object is anything that can be rendered into one or more IDF records.
type Object interface {
	Records() ([]Record, error)
}

// recordBuilder accumulates fields for a single record and remembers the
// first validation failure.
type recordBuilder struct {
	rec Record
	err *ValidationError
}

func newRecord(class string) *recordBuilder {
	return &recordBuilder{rec: Record{Class: class}}
}

func (b *recordBuilder) add(value, note string) *recordBuilder {
	b.rec.Fields = append(b.rec.Fields, Field{Value: value, Note: note})
	return b
}

func (b *recordBuilder) fail(err *ValidationError) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *recordBuilder) build() (Record, error) {
	if b.err != nil {
		return Record{}, b.err
	}
	return b.rec, nil
}

func single(r Record, err error) ([]Record, error) {
	if err != nil {
		return nil, err
	}
	return []Record{r}, nil
}
