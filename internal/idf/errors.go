package idf

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every write after the document has been closed.
var ErrClosed = errors.New("idf: document is closed")

// ValidationError reports an object that cannot be written as valid IDF text.
// Nothing is written for an object that fails validation.
type ValidationError struct {
	Object string // IDF class, e.g. "BuildingSurface:Detailed"
	Name   string // object name, when it has one
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("idf: %s %q: %s: %s", e.Object, e.Name, e.Field, e.Reason)
	}
	return fmt.Sprintf("idf: %s: %s: %s", e.Object, e.Field, e.Reason)
}

func invalid(object, name, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Object: object,
		Name:   name,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
