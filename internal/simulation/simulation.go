// Package simulation runs one EnergyPlus simulation end to end: output
// folder, engine session, controller callback and run log.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/telemetry"
)

// OutputCSV is the per-variable result table EnergyPlus writes to the output
// folder.
const OutputCSV = "eplusout.csv"

// RunConfig says what to run and where to put the results.
type RunConfig struct {
	// RunID tags telemetry records. A random one is used when empty.
	RunID       string `yaml:"run_id" json:"run_id,omitempty"`
	WeatherFile string `yaml:"weather_file" json:"weather_file"`
	// IDFFile gets a .idf suffix when it has none.
	IDFFile string `yaml:"idf_file" json:"idf_file"`
	// OutputDir defaults to IDFFile without its extension.
	OutputDir string `yaml:"output_dir" json:"output_dir,omitempty"`
	// Log runs the zone controller and writes apilog.csv.
	Log           bool `yaml:"log" json:"log"`
	ExpandObjects bool `yaml:"expand_objects" json:"expand_objects"`
}

// Normalize fills in derived fields and checks the required ones.
func (c RunConfig) Normalize() (RunConfig, error) {
	if c.WeatherFile == "" {
		return c, errors.New("weather file is required")
	}
	if c.IDFFile == "" {
		return c, errors.New("idf file is required")
	}
	if !strings.EqualFold(filepath.Ext(c.IDFFile), ".idf") {
		c.IDFFile += ".idf"
	}
	if c.OutputDir == "" {
		c.OutputDir = strings.TrimSuffix(c.IDFFile, filepath.Ext(c.IDFFile))
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	return c, nil
}

func (c RunConfig) args() engine.Args {
	return engine.Args{
		OutputDir:     c.OutputDir,
		WeatherFile:   c.WeatherFile,
		IDFFile:       c.IDFFile,
		ExpandObjects: c.ExpandObjects,
	}
}

// Result describes a finished run.
type Result struct {
	RunID     string        `json:"run_id"`
	OutputDir string        `json:"output_dir"`
	CSVPath   string        `json:"csv_path"`
	LogPath   string        `json:"log_path,omitempty"`
	Steps     int           `json:"steps"`
	Duration  time.Duration `json:"duration_ns"`
}

// Runner owns the engine runtime and the optional remote telemetry sinks.
type Runner struct {
	Runtime engine.Runtime
	Kafka   telemetry.KafkaConfig
	MQTT    telemetry.MQTTConfig
}

func New(rt engine.Runtime) *Runner { return &Runner{Runtime: rt} }

// Run executes one simulation and blocks until the engine returns. When
// cfg.Log is set the controller built from settings runs at the end of every
// zone time step. A controller failure is reported after the engine returns
// and takes precedence over the engine's own error.
func (r *Runner) Run(ctx context.Context, cfg RunConfig, settings control.Settings) (res *Result, err error) {
	if r.Runtime == nil {
		return nil, errors.New("runtime is nil")
	}
	// Runs last, after the deferred closes below have had their say.
	defer func() {
		if err != nil {
			res = nil
		}
	}()
	cfg, err = cfg.Normalize()
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).With(
		slog.String("run_id", cfg.RunID),
		slog.String("runtime", r.Runtime.Name()),
	)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	sess, err := r.Runtime.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer closeInto(&err, sess.Close, "close session")

	res = &Result{
		RunID:     cfg.RunID,
		OutputDir: cfg.OutputDir,
		CSVPath:   filepath.Join(cfg.OutputDir, OutputCSV),
	}

	var ctl *control.Controller
	if cfg.Log {
		res.LogPath = filepath.Join(cfg.OutputDir, telemetry.LogFile)
		var sink telemetry.Sink
		sink, err = r.openSinks(res.LogPath, cfg.RunID, log)
		if err != nil {
			return nil, err
		}
		defer closeInto(&err, sink.Close, "close run log")

		ctl, err = control.New(settings, sink)
		if err != nil {
			return nil, err
		}
		if err := sess.RequestVariable(control.ZoneTemperature, settings.Zone); err != nil {
			return nil, fmt.Errorf("request variable: %w", err)
		}
		if err := sess.OnEndOfZoneTimeStep(ctl.Callback()); err != nil {
			return nil, fmt.Errorf("register callback: %w", err)
		}
	}

	log.Info("simulation starting",
		"idf", cfg.IDFFile,
		"weather", cfg.WeatherFile,
		"output_dir", cfg.OutputDir,
		"log", cfg.Log,
	)
	start := time.Now()
	runErr := sess.Run(ctx, cfg.args())
	res.Duration = time.Since(start)

	if ctl != nil {
		res.Steps = ctl.Steps()
		if cerr := ctl.Err(); cerr != nil {
			log.Error("controller failed", "error", cerr, "steps", res.Steps)
			return nil, cerr
		}
	}
	if runErr != nil {
		log.Error("simulation failed", "error", runErr)
		return nil, fmt.Errorf("run %s: %w", cfg.IDFFile, runErr)
	}
	log.Info("simulation finished", "steps", res.Steps, "duration", res.Duration)
	return res, nil
}

func (r *Runner) openSinks(logPath, runID string, log *slog.Logger) (telemetry.Sink, error) {
	csvSink, err := telemetry.CreateCSV(logPath)
	if err != nil {
		return nil, err
	}
	sinks := telemetry.Multi{csvSink}
	if r.Kafka.Enabled() {
		sinks = append(sinks, telemetry.NewKafkaSink(r.Kafka, runID, log))
	}
	if r.MQTT.Enabled() {
		m, err := telemetry.NewMQTTSink(r.MQTT, runID)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, m)
	}
	return sinks, nil
}

// closeInto runs closeFn and keeps its error unless *err is already set.
// Run drops its result whenever this sets *err.
func closeInto(err *error, closeFn func() error, what string) {
	if cerr := closeFn(); cerr != nil && *err == nil {
		*err = fmt.Errorf("%s: %w", what, cerr)
	}
}
