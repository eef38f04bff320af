package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse-eplus/internal/api/handlers"
	"greenhouse-eplus/internal/api/middleware"
	"greenhouse-eplus/internal/api/models"
	"greenhouse-eplus/internal/engine/enginetest"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/simulation"
)

const zoneColumn = "MAINZ:Zone Mean Air Temperature [C](Hourly)"

const boxModel = `{
	"building": {"name": "BOX"},
	"materials": [{"name": "STEEL"}],
	"constructions": [{"name": "WALL", "layers": ["STEEL"]}],
	"zones": [{"name": "Z1"}],
	"surfaces": [{"name": "ROOF", "type": "Roof", "construction": "WALL", "zone": "Z1",
		"vertices": [[0,0,3],[1,0,3],[1,1,3],[0,1,3]]}]
}`

type fixture struct {
	router *gin.Engine
	runs   *handlers.RunHandler
	rt     *enginetest.Runtime
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	weatherDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(weatherDir, "w.epw"), []byte("LOCATION"), 0o644))

	catalogPath := filepath.Join(t.TempDir(), "variables.json")
	require.NoError(t, results.SaveCatalog(results.NewCatalog("eplusout.rdd", "2021-09-01T00:00:00Z", []results.Variable{
		{Name: "Zone Mean Air Temperature", Units: "C"},
		{Name: "Site Sky Temperature", Units: "C"},
	}), catalogPath))

	rt := &enginetest.Runtime{
		Variables: []string{"Zone Air Temperature|MAINZ"},
		Actuators: []string{"OtherEquipment|Power Level|TestOtherEquipment"},
		Steps: []enginetest.Step{
			{Ready: true, ZoneStep: 1, Temp: 25},
			{Ready: true, ZoneStep: 2, Temp: 19},
		},
		OutputCSV: "Date/Time," + zoneColumn + ",Environment:Site Sky Temperature [C](Hourly)\n" +
			" 01/01  01:00:00,18,-5\n" +
			" 01/01  02:00:00,,-7\n" +
			" 01/01  03:00:00,20,-9\n",
	}
	log := logging.Discard()
	metrics := middleware.NewMetrics()
	modelsHandler := handlers.NewModelHandler(filepath.Join("..", "..", "examples", "models"), log)
	runs := handlers.NewRunHandler(simulation.New(rt).Run, handlers.RunOptions{
		RunsDir:    t.TempDir(),
		WeatherDir: weatherDir,
		Models:     modelsHandler,
		Cache:      results.NewCache(0),
		Metrics:    metrics,
		Logger:     log,
	})
	router := NewRouter(Deps{
		Runs:      runs,
		Models:    modelsHandler,
		Variables: handlers.NewVariableHandler(catalogPath),
		Metrics:   metrics,
		Logger:    log,
	})
	return &fixture{router: router, runs: runs, rt: rt}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRunLifecycle(t *testing.T) {
	// --- Arrange ---
	f := newFixture(t)

	// --- Act ---
	w := f.do(t, http.MethodPost, "/api/v1/runs?wait=true", models.RunRequest{
		Preset:      "greenhouse",
		WeatherFile: "w.epw",
		Log:         true,
	})

	// --- Assert ---
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode[models.RunResponse](t, w)
	assert.Equal(t, models.StatusSucceeded, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, 2, run.Result.Steps)
	assert.NotNil(t, run.FinishedAt)
	assert.FileExists(t, filepath.Join(filepath.Dir(run.Result.OutputDir), "model.idf"))
	assert.FileExists(t, run.Result.LogPath)
	assert.Equal(t, []float64{1300, 0}, f.rt.Sessions()[0].Actuated)

	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, run.ID, decode[models.RunResponse](t, w).ID)

	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID+"/summary?rank=mean", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sum := decode[models.SummaryResponse](t, w)
	assert.Equal(t, 3, sum.Rows)
	require.Len(t, sum.Columns, 2)
	assert.Equal(t, zoneColumn, sum.Columns[0].Column)
	require.NotNil(t, sum.Columns[0].Mean)
	assert.Equal(t, 19.0, *sum.Columns[0].Mean)
	assert.Equal(t, 2, sum.Columns[0].Count)

	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID+"/series?column="+url.QueryEscape(zoneColumn)+"&from=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	series := decode[models.SeriesResponse](t, w)
	assert.Equal(t, "Zone Mean Air Temperature", series.Label)
	assert.Equal(t, []string{"01/01  02:00:00", "01/01  03:00:00"}, series.Index)
	require.Len(t, series.Values, 2)
	assert.Nil(t, series.Values[0])
	assert.Equal(t, 20.0, *series.Values[1])
	assert.Equal(t, 19.0, *series.Mean)

	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID+"/series?column=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COLUMN_NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)

	w = f.do(t, http.MethodGet, "/metrics", nil)
	assert.Contains(t, w.Body.String(), `simulation_runs_total{status="succeeded"} 1`)
}

func TestRunInBackground(t *testing.T) {
	f := newFixture(t)
	raw := json.RawMessage(boxModel)

	w := f.do(t, http.MethodPost, "/api/v1/runs", models.RunRequest{Model: raw, WeatherFile: "w.epw"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	run := decode[models.RunResponse](t, w)
	assert.NotEmpty(t, run.ID)

	f.runs.Wait()
	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID, nil)
	assert.Equal(t, models.StatusSucceeded, decode[models.RunResponse](t, w).Status)
	// Without logging there is no controller.
	assert.Empty(t, f.rt.Sessions()[0].Requested)
}

func TestRunControllerFailure(t *testing.T) {
	f := newFixture(t)
	f.rt.Actuators = nil

	w := f.do(t, http.MethodPost, "/api/v1/runs?wait=true", models.RunRequest{
		ModelName:   "greenhouse.yaml",
		WeatherFile: "w.epw",
		Log:         true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode[models.RunResponse](t, w)
	assert.Equal(t, models.StatusFailed, run.Status)
	require.NotNil(t, run.Error)
	assert.Equal(t, "CONTROL_INIT_ERROR", run.Error.Code)

	w = f.do(t, http.MethodGet, "/api/v1/runs/"+run.ID+"/summary", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRunRequestErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"bad json", "{", http.StatusBadRequest, "INVALID_REQUEST"},
		{"no weather", models.RunRequest{Preset: "greenhouse"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"no model", models.RunRequest{WeatherFile: "w.epw"}, http.StatusBadRequest, "INVALID_MODEL"},
		{"two models", models.RunRequest{Preset: "greenhouse", ModelName: "greenhouse", WeatherFile: "w.epw"}, http.StatusBadRequest, "INVALID_MODEL"},
		{"unknown model", models.RunRequest{ModelName: "barn", WeatherFile: "w.epw"}, http.StatusNotFound, "MODEL_NOT_FOUND"},
		{"weather escape", models.RunRequest{Preset: "greenhouse", WeatherFile: "../w.epw"}, http.StatusBadRequest, "WEATHER_NOT_FOUND"},
		{"missing weather", models.RunRequest{Preset: "greenhouse", WeatherFile: "x.epw"}, http.StatusBadRequest, "WEATHER_NOT_FOUND"},
		{"bad strategy", `{"preset":"greenhouse","weather_file":"w.epw","log":true,"control":{"strategy":{"name":"oracle"}}}`, http.StatusBadRequest, "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/v1/runs", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[models.ErrorResponse](t, w).Error.Code)
		})
	}
	assert.Empty(t, f.rt.Sessions())

	w := f.do(t, http.MethodGet, "/api/v1/runs/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderIDF(t *testing.T) {
	f := newFixture(t)
	raw, err := os.ReadFile(filepath.Join("..", "..", "examples", "models", "greenhouse.yaml"))
	require.NoError(t, err)
	m, err := model.Greenhouse(model.DefaultGreenhouseParams())
	require.NoError(t, err)
	want, err := m.Text()
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/api/v1/idf?format=yaml", string(raw))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, want, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	w = f.do(t, http.MethodPost, "/api/v1/idf?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/idf", `{"zones":[{"name":"A"}],"surfaces":[{"name":"S","type":"Wall","construction":"NOPE","zone":"A","vertices":[[0,0,0],[1,0,0],[1,1,0]]}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "UNRESOLVED_REFERENCES", decode[models.ErrorResponse](t, w).Error.Code)

	w = f.do(t, http.MethodPost, "/api/v1/idf", `{"unknown_field":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModels(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Models []models.ModelInfo `json:"models"`
		Count  int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "greenhouse.hcl", body.Models[0].File)
	assert.Equal(t, []string{"MAINZ"}, body.Models[1].Zones)
	assert.Equal(t, 5, body.Models[1].Surfaces)

	w = f.do(t, http.MethodGet, "/api/v1/models/greenhouse.yaml/idf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/models/barn/idf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVariablesAndStrategies(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/variables?q=zone", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vars struct {
		Variables []results.Variable `json:"variables"`
		Count     int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vars))
	assert.Equal(t, 1, vars.Count)
	assert.Equal(t, "Zone Mean Air Temperature", vars.Variables[0].Name)

	w = f.do(t, http.MethodGet, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"threshold"`)
	assert.Contains(t, w.Body.String(), `"schedule"`)

	w = f.do(t, http.MethodGet, "/api/v1/strategies/Schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"on_start"`)

	w = f.do(t, http.MethodGet, "/api/v1/strategies/oracle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "STRATEGY_NOT_FOUND")
}

func TestMissingCatalogIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Deps{Variables: handlers.NewVariableHandler(filepath.Join(t.TempDir(), "none.json")), Logger: logging.Discard()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/variables", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"variables":[],"count":0}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/runs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	f := newFixture(t)
	f.router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := f.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, middleware.SplitOrigins(" a, ,b "))
	assert.Nil(t, middleware.SplitOrigins(""))
}

func TestStaticFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>app</html>"), 0o644))
	r := NewRouter(Deps{StaticDir: static, Logger: logging.Discard()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
