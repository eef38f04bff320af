package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greenhouse-eplus/internal/analysis"
	"greenhouse-eplus/internal/api/middleware"
	"greenhouse-eplus/internal/api/models"
	"greenhouse-eplus/internal/config"
	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/idf"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/simulation"
	"greenhouse-eplus/internal/strategy"
)

// RunFunc executes one simulation; (*simulation.Runner).Run satisfies it.
type RunFunc func(ctx context.Context, cfg simulation.RunConfig, s control.Settings) (*simulation.Result, error)

// RunOptions configures a RunHandler. Empty directories fall back to
// RUNS_DIR and WEATHER_DIR, then ./runs and ./weather.
type RunOptions struct {
	RunsDir    string
	WeatherDir string
	Models     *ModelHandler
	Cache      *results.Cache
	Metrics    *middleware.Metrics
	Logger     *slog.Logger
}

// RunHandler starts simulations and serves their results. EnergyPlus keeps
// process-wide state, so runs execute one at a time.
type RunHandler struct {
	run        RunFunc
	runsDir    string
	weatherDir string
	models     *ModelHandler
	cache      *results.Cache
	metrics    *middleware.Metrics
	log        *slog.Logger

	mu    sync.Mutex // held for the whole of a run
	wg    sync.WaitGroup
	store *runStore
	now   func() time.Time
}

func NewRunHandler(run RunFunc, opts RunOptions) *RunHandler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &RunHandler{
		run:        run,
		runsDir:    dirOr(opts.RunsDir, "RUNS_DIR", "runs"),
		weatherDir: dirOr(opts.WeatherDir, "WEATHER_DIR", "weather"),
		models:     opts.Models,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		log:        log.With(slog.String("handler", "runs")),
		store:      newRunStore(),
		now:        time.Now,
	}
}

func dirOr(dir, env, def string) string {
	if dir == "" {
		dir = os.Getenv(env)
	}
	if dir == "" {
		dir = def
	}
	return dir
}

// Wait blocks until every started run has finished.
func (h *RunHandler) Wait() { h.wg.Wait() }

// CreateRun handles POST /api/v1/runs. The run starts in the background and
// the response is 202; with ?wait=true it is 200 once the run has finished.
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	m, err := h.buildModel(req)
	if err != nil {
		code := "INVALID_MODEL"
		status := http.StatusBadRequest
		if errors.Is(err, errModelNotFound) {
			code, status = "MODEL_NOT_FOUND", http.StatusNotFound
		}
		fail(c, status, code, err)
		return
	}

	weather, err := h.weatherPath(req.WeatherFile)
	if err != nil {
		fail(c, http.StatusBadRequest, "WEATHER_NOT_FOUND", err)
		return
	}

	settings := config.MergeControl(control.DefaultSettings(), req.Control)
	if req.Log {
		if _, err := strategy.Build(settings.Strategy.Name, settings.Strategy.Params); err != nil {
			fail(c, http.StatusBadRequest, "INVALID_CONFIG", err)
			return
		}
	}

	id := uuid.NewString()
	dir := filepath.Join(h.runsDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail(c, http.StatusInternalServerError, "RUN_SETUP_ERROR", err)
		return
	}
	idfPath := filepath.Join(dir, "model.idf")
	if err := m.WriteFile(idfPath); err != nil {
		var vErr *idf.ValidationError
		if errors.As(err, &vErr) {
			fail(c, http.StatusBadRequest, "INVALID_MODEL", err)
			return
		}
		fail(c, http.StatusInternalServerError, "RUN_SETUP_ERROR", err)
		return
	}

	cfg := simulation.RunConfig{
		RunID:         id,
		WeatherFile:   weather,
		IDFFile:       idfPath,
		OutputDir:     filepath.Join(dir, "out"),
		Log:           req.Log,
		ExpandObjects: req.ExpandObjects,
	}
	h.store.add(id, h.now())
	h.wg.Add(1)

	if c.Query("wait") == "true" {
		h.execute(cfg, settings)
		resp, _ := h.store.get(id)
		c.JSON(http.StatusOK, resp)
		return
	}
	go h.execute(cfg, settings)
	resp, _ := h.store.get(id)
	c.JSON(http.StatusAccepted, resp)
}

func (h *RunHandler) buildModel(req models.RunRequest) (*model.Model, error) {
	sources := 0
	for _, set := range []bool{len(req.Model) > 0, req.ModelName != "", req.Preset != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New("exactly one of model, model_name or preset is required")
	}
	switch {
	case len(req.Model) > 0:
		return model.Parse(req.Model, model.FormatJSON, "model.json")
	case req.ModelName != "":
		if h.models == nil {
			return nil, fmt.Errorf("%w: no models directory", errModelNotFound)
		}
		return h.models.Load(req.ModelName)
	case req.Preset == config.PresetGreenhouse:
		return model.Greenhouse(model.DefaultGreenhouseParams())
	default:
		return nil, fmt.Errorf("unknown preset %q", req.Preset)
	}
}

// weatherPath only accepts plain file names inside the weather directory.
func (h *RunHandler) weatherPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid weather file %q", name)
	}
	path := filepath.Join(h.weatherDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("weather file %q: %w", name, err)
	}
	return path, nil
}

func (h *RunHandler) execute(cfg simulation.RunConfig, settings control.Settings) {
	defer h.wg.Done()
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.log.With(slog.String("run_id", cfg.RunID))
	ctx := logging.WithLogger(context.Background(), log)

	start := h.now()
	h.store.update(cfg.RunID, func(r *runRecord) {
		r.status = models.StatusRunning
		r.startedAt = start
	})
	h.metrics.RunStarted()

	res, err := h.run(ctx, cfg, settings)

	status := models.StatusSucceeded
	if err != nil {
		status = models.StatusFailed
		log.Error("run failed", "error", err)
	}
	finished := h.now()
	h.metrics.RunFinished(status, finished.Sub(start))
	h.cache.Forget(cfg.OutputDir)
	h.store.update(cfg.RunID, func(r *runRecord) {
		r.status = status
		r.finishedAt = finished
		r.result = res
		if err != nil {
			r.err = &models.ErrorDetail{Code: runErrorCode(err), Message: err.Error()}
		}
	})
}

func runErrorCode(err error) string {
	if errors.Is(err, control.ErrHandleNotFound) {
		return "CONTROL_INIT_ERROR"
	}
	return "RUN_ERROR"
}

// GetRun handles GET /api/v1/runs/:id.
func (h *RunHandler) GetRun(c *gin.Context) {
	resp, ok := h.store.get(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Errorf("run %q not found", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// table loads the result table of a finished run, writing the error response
// itself on failure.
func (h *RunHandler) table(c *gin.Context) (string, *results.Table, bool) {
	id := c.Param("id")
	resp, ok := h.store.get(id)
	if !ok {
		fail(c, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Errorf("run %q not found", id))
		return "", nil, false
	}
	if resp.Status != models.StatusSucceeded || resp.Result == nil {
		fail(c, http.StatusConflict, "RUN_NOT_SUCCEEDED", fmt.Errorf("run %q is %s", id, resp.Status))
		return "", nil, false
	}
	t, err := h.cache.Load(resp.Result.OutputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fail(c, http.StatusNotFound, "RESULTS_NOT_FOUND", err)
			return "", nil, false
		}
		fail(c, http.StatusInternalServerError, "RESULTS_ERROR", err)
		return "", nil, false
	}
	return id, t, true
}

// Summary handles GET /api/v1/runs/:id/summary. ?rank=mean sorts columns by
// descending mean.
func (h *RunHandler) Summary(c *gin.Context) {
	id, t, ok := h.table(c)
	if !ok {
		return
	}
	var sums []analysis.ColumnSummary
	switch c.Query("rank") {
	case "":
		sums = analysis.SummarizeTable(t)
	case "mean":
		sums, _ = analysis.RankByMean(t)
	default:
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Errorf("unsupported rank %q", c.Query("rank")))
		return
	}
	out := models.SummaryResponse{RunID: id, Rows: t.Len(), Columns: make([]models.ColumnStats, len(sums))}
	for i, s := range sums {
		out.Columns[i] = models.NewColumnStats(s)
	}
	c.JSON(http.StatusOK, out)
}

// Series handles GET /api/v1/runs/:id/series?column=&from=&to=.
func (h *RunHandler) Series(c *gin.Context) {
	var q models.SeriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if q.From < 0 || q.To < 0 || (q.To != 0 && q.To <= q.From) {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Errorf("invalid row window [%d, %d)", q.From, q.To))
		return
	}
	id, t, ok := h.table(c)
	if !ok {
		return
	}
	v, err := t.Column(q.Column)
	if err != nil {
		fail(c, http.StatusNotFound, "COLUMN_NOT_FOUND", err)
		return
	}
	lo, hi := q.From, q.To
	if hi == 0 || hi > len(v) {
		hi = len(v)
	}
	if lo > hi {
		lo = hi
	}
	c.JSON(http.StatusOK, models.SeriesResponse{
		RunID:  id,
		Column: q.Column,
		Label:  results.ParseLabel(q.Column).Variable,
		From:   lo,
		Index:  t.Index[lo:hi],
		Values: models.Floats(v[lo:hi]),
		Mean:   models.Float(results.Mean(v)),
	})
}
