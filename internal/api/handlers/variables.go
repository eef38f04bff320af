package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/results"
)

// VariableHandler serves the report variable catalog.
type VariableHandler struct {
	path string
}

// NewVariableHandler reads the catalog at path, or results.DefaultCatalogPath().
func NewVariableHandler(path string) *VariableHandler {
	if path == "" {
		path = results.DefaultCatalogPath()
	}
	return &VariableHandler{path: path}
}

// List handles GET /api/v1/variables. ?q= filters by a case-insensitive
// substring of the name. A missing catalog is an empty list.
func (h *VariableHandler) List(c *gin.Context) {
	cat, err := results.LoadCatalog(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"variables": []results.Variable{}, "count": 0})
			return
		}
		fail(c, http.StatusInternalServerError, "CATALOG_LOAD_ERROR", fmt.Errorf("failed to load variables: %w", err))
		return
	}

	vars := cat.Variables
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		vars = make([]results.Variable, 0, len(cat.Variables))
		for _, v := range cat.Variables {
			if strings.Contains(strings.ToLower(v.Name), q) {
				vars = append(vars, v)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"variables":  vars,
		"source":     cat.Source,
		"updated_at": cat.UpdatedAt,
		"count":      len(vars),
	})
}
