package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/idf"
	"greenhouse-eplus/internal/model"
)

// IDFHandler renders building models to IDF text.
type IDFHandler struct{}

func NewIDFHandler() *IDFHandler { return &IDFHandler{} }

// Render handles POST /api/v1/idf. The body is a building model; ?format=
// selects json (default), yaml or hcl.
func (h *IDFHandler) Render(c *gin.Context) {
	format := model.Format(strings.ToLower(c.DefaultQuery("format", string(model.FormatJSON))))
	switch format {
	case model.FormatJSON, model.FormatYAML, model.FormatHCL:
	default:
		fail(c, http.StatusBadRequest, "INVALID_FORMAT", fmt.Errorf("unsupported model format %q", format))
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	m, err := model.Parse(raw, format, "request."+string(format))
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_MODEL", err)
		return
	}
	text, ok := renderChecked(c, m)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// renderChecked renders m after checking its cross references. It writes the
// error response itself and reports false on failure.
func renderChecked(c *gin.Context, m *model.Model) (string, bool) {
	if problems := m.CheckReferences(); len(problems) > 0 {
		list := make([]string, len(problems))
		for i, p := range problems {
			list[i] = p.String()
		}
		failDetails(c, http.StatusUnprocessableEntity, "UNRESOLVED_REFERENCES",
			fmt.Errorf("model has %d unresolved references", len(problems)),
			map[string]any{"problems": list})
		return "", false
	}
	text, err := m.Text()
	if err != nil {
		var vErr *idf.ValidationError
		if errors.As(err, &vErr) {
			failDetails(c, http.StatusBadRequest, "INVALID_MODEL", err, map[string]any{
				"object": vErr.Object,
				"name":   vErr.Name,
				"field":  vErr.Field,
			})
			return "", false
		}
		fail(c, http.StatusInternalServerError, "RENDER_ERROR", err)
		return "", false
	}
	return text, true
}
