package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/api/models"
	"greenhouse-eplus/internal/model"
)

var errModelNotFound = errors.New("model not found")

// ModelHandler serves the building models kept in a directory.
type ModelHandler struct {
	dir string
	log *slog.Logger
}

// NewModelHandler uses dir, or MODELS_DIR, or examples/models under the
// working directory.
func NewModelHandler(dir string, log *slog.Logger) *ModelHandler {
	if dir == "" {
		dir = os.Getenv("MODELS_DIR")
	}
	if dir == "" {
		dir = filepath.Join("examples", "models")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &ModelHandler{dir: dir, log: log.With(slog.String("handler", "models"))}
}

func (h *ModelHandler) Dir() string { return h.dir }

// List handles GET /api/v1/models. Files that do not load are skipped.
func (h *ModelHandler) List(c *gin.Context) {
	out := []models.ModelInfo{}
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.log.Warn("cannot read models directory", "dir", h.dir, "error", err)
		c.JSON(http.StatusOK, gin.H{"models": out})
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := model.FormatOf(e.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(h.dir, e.Name())
		m, err := model.LoadFile(path)
		if err != nil {
			h.log.Warn("skipping model file", "file", path, "error", err)
			continue
		}
		out = append(out, models.ModelInfo{
			ID:       modelID(e.Name()),
			File:     e.Name(),
			Format:   string(f),
			Building: m.Building.Name,
			Zones:    m.ZoneNames(),
			Surfaces: len(m.Surfaces),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	c.JSON(http.StatusOK, gin.H{"models": out, "count": len(out)})
}

// RenderIDF handles GET /api/v1/models/:id/idf.
func (h *ModelHandler) RenderIDF(c *gin.Context) {
	m, err := h.Load(c.Param("id"))
	if err != nil {
		if errors.Is(err, errModelNotFound) {
			fail(c, http.StatusNotFound, "MODEL_NOT_FOUND", err)
			return
		}
		fail(c, http.StatusBadRequest, "INVALID_MODEL", err)
		return
	}
	text, ok := renderChecked(c, m)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// Load finds a model by id (file name with or without its extension).
func (h *ModelHandler) Load(id string) (*model.Model, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, fmt.Errorf("%w: %q", errModelNotFound, id)
	}
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errModelNotFound, err)
	}
	for _, e := range entries {
		if e.IsDir() || (e.Name() != id && modelID(e.Name()) != id) {
			continue
		}
		if _, err := model.FormatOf(e.Name()); err != nil {
			continue
		}
		return model.LoadFile(filepath.Join(h.dir, e.Name()))
	}
	return nil, fmt.Errorf("%w: %q", errModelNotFound, id)
}

func modelID(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}
