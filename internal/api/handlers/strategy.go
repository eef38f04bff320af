package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/strategy"
)

// StrategyHandler describes the heating strategies a run's controller can use.
type StrategyHandler struct {
	catalog []strategy.Info
}

func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{catalog: strategy.Catalog()}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": h.catalog})
}

// GetStrategy handles GET /api/v1/strategies/:name
func (h *StrategyHandler) GetStrategy(c *gin.Context) {
	name := c.Param("name")
	for _, info := range h.catalog {
		if strings.EqualFold(info.Name, name) {
			c.JSON(http.StatusOK, info)
			return
		}
	}
	fail(c, http.StatusNotFound, "STRATEGY_NOT_FOUND", fmt.Errorf("unsupported strategy: %q", name))
}
