// Package api exposes model rendering, simulation runs and their results
// over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"greenhouse-eplus/internal/api/handlers"
	"greenhouse-eplus/internal/api/middleware"
)

// Deps are the pieces the router is assembled from.
type Deps struct {
	Runs      *handlers.RunHandler
	Models    *handlers.ModelHandler
	Variables *handlers.VariableHandler
	Metrics   *middleware.Metrics
	Origins   []string
	Logger    *slog.Logger
	// StaticDir holds a built web front end; empty or missing disables it.
	StaticDir string
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(d.Origins))
	router.Use(middleware.Logger(log))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	idfHandler := handlers.NewIDFHandler()
	strategyHandler := handlers.NewStrategyHandler()

	api := router.Group("/api/v1")
	{
		api.POST("/idf", idfHandler.Render)

		if d.Models != nil {
			api.GET("/models", d.Models.List)
			api.GET("/models/:id/idf", d.Models.RenderIDF)
		}

		if d.Runs != nil {
			api.POST("/runs", d.Runs.CreateRun)
			api.GET("/runs/:id", d.Runs.GetRun)
			api.GET("/runs/:id/summary", d.Runs.Summary)
			api.GET("/runs/:id/series", d.Runs.Series)
		}

		if d.Variables != nil {
			api.GET("/variables", d.Variables.List)
		}
		api.GET("/strategies", strategyHandler.ListStrategies)
		api.GET("/strategies/:name", strategyHandler.GetStrategy)
	}

	static := d.StaticDir
	if fi, err := os.Stat(static); static == "" || err != nil || !fi.IsDir() {
		static = ""
	} else {
		router.Static("/assets", filepath.Join(static, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(static, "favicon.ico"))
		log.Info("serving static files", "dir", static)
	}

	// Everything outside /api falls back to the front end's index.html.
	router.NoRoute(func(c *gin.Context) {
		if static != "" && !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.File(filepath.Join(static, "index.html"))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
