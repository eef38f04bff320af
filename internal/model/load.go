package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a model file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the syntax from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported model file extension %q (want .yaml, .yml, .json or .hcl)", filepath.Ext(path))
	}
}

// LoadFile reads a model in the syntax implied by its extension.
func LoadFile(path string) (*Model, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(raw, f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a model. filename only appears in diagnostics.
func Parse(data []byte, f Format, filename string) (*Model, error) {
	switch f {
	case FormatYAML:
		m := New("")
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, err
		}
		return m, nil
	case FormatJSON:
		m := New("")
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return nil, err
		}
		return m, nil
	case FormatHCL:
		return parseHCL(data, filename)
	default:
		return nil, fmt.Errorf("unsupported model format %q", f)
	}
}
