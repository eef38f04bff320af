package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog is a saved variable dictionary served by the API.
type Catalog struct {
	Source    string     `json:"source"`     // dictionary it was built from
	UpdatedAt string     `json:"updated_at"` // RFC 3339
	Variables []Variable `json:"variables"`
}

// NewCatalog sorts vars by name and drops duplicates.
func NewCatalog(source, updatedAt string, vars []Variable) *Catalog {
	sorted := append([]Variable(nil), vars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	out := sorted[:0]
	for i, v := range sorted {
		if i > 0 && strings.EqualFold(v.Name, out[len(out)-1].Name) {
			continue
		}
		out = append(out, v)
	}
	return &Catalog{Source: source, UpdatedAt: updatedAt, Variables: out}
}

// Find looks a variable up by name, ignoring case.
func (c *Catalog) Find(name string) (Variable, bool) {
	for _, v := range c.Variables {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return Variable{}, false
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read variable catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse variable catalog: %w", err)
	}
	return &c, nil
}

func SaveCatalog(c *Catalog, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal variable catalog: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write variable catalog: %w", err)
	}
	return nil
}

// DefaultCatalogPath is VARIABLES_FILE, or data/variables.json.
func DefaultCatalogPath() string {
	if path := os.Getenv("VARIABLES_FILE"); path != "" {
		return path
	}
	return "./data/variables.json"
}
