// Package config loads the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/engine/capi"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/plot"
	"greenhouse-eplus/internal/simulation"
	"greenhouse-eplus/internal/strategy"
	"greenhouse-eplus/internal/telemetry"
)

// Runtime names.
const (
	RuntimeExec = "exec"
	RuntimeCAPI = "capi"
)

// PresetGreenhouse builds the greenhouse model without a model file.
const PresetGreenhouse = "greenhouse"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: a building model (YAML, JSON or HCL) rendered to run.idf_file
	// before the run. Without model_file or preset the IDF must exist.
	ModelFile string `yaml:"model_file"`
	Preset    string `yaml:"preset"`

	Run    simulation.RunConfig `yaml:"run"`
	Engine EngineConfig         `yaml:"engine"`

	// Optional: load controller settings from a separate YAML. If both
	// ControlFile and Control are provided, Control overrides ControlFile.
	ControlFile string           `yaml:"control_file"`
	Control     control.Settings `yaml:"control"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
	Plot      plot.Options    `yaml:"plot"`
}

type EngineConfig struct {
	Runtime string `yaml:"runtime"` // exec or capi
	// Dir is the EnergyPlus install directory; empty means EPLUS_DIR or the
	// platform default.
	Dir string `yaml:"dir"`
}

type TelemetryConfig struct {
	Kafka telemetry.KafkaConfig `yaml:"kafka"`
	MQTT  telemetry.MQTTConfig  `yaml:"mqtt"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it or fill in
// defaults. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Config{Plot: plot.DefaultOptions()}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	c.ModelFile = resolve(dir, c.ModelFile)
	c.Run.WeatherFile = resolve(dir, c.Run.WeatherFile)

	// If control_file is set, load it and merge in any explicit overrides from c.Control.
	if c.ControlFile != "" {
		c.ControlFile = resolve(dir, c.ControlFile)
		loaded, err := loadControlFile(c.ControlFile)
		if err != nil {
			return nil, err
		}
		c.Control = MergeControl(loaded, c.Control)
	}
	return &c, nil
}

// resolve prefers interpreting relative paths as relative to the config file
// directory, but falls back to the provided path (relative to cwd) if that
// doesn't exist.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills unset controller and engine settings.
func (c *Config) ApplyDefaults() {
	c.Control = MergeControl(control.DefaultSettings(), c.Control)
	if c.Engine.Runtime == "" {
		if c.Run.Log {
			c.Engine.Runtime = RuntimeCAPI
		} else {
			c.Engine.Runtime = RuntimeExec
		}
	}
	if c.Engine.Dir == "" {
		c.Engine.Dir = engine.InstallDir()
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.ModelFile != "" && c.Preset != "" {
		return errors.New("model_file and preset are mutually exclusive")
	}
	if c.Preset != "" && c.Preset != PresetGreenhouse {
		return fmt.Errorf("unknown preset %q", c.Preset)
	}
	if c.Run.WeatherFile == "" {
		return errors.New("run.weather_file is required")
	}
	if c.Run.IDFFile == "" {
		return errors.New("run.idf_file is required")
	}
	switch c.Engine.Runtime {
	case RuntimeExec:
		if c.Run.Log {
			return errors.New("run.log needs the capi runtime; the exec runtime cannot run the controller")
		}
	case RuntimeCAPI:
	default:
		return fmt.Errorf("engine.runtime must be %q or %q, got %q", RuntimeExec, RuntimeCAPI, c.Engine.Runtime)
	}
	if c.Run.Log {
		if c.Control.Zone == "" {
			return errors.New("control.zone is required")
		}
		if _, err := strategy.Build(c.Control.Strategy.Name, c.Control.Strategy.Params); err != nil {
			return fmt.Errorf("control.strategy invalid: %w", err)
		}
	}
	if c.Plot.ToHour != 0 && c.Plot.ToHour <= c.Plot.FromHour {
		return fmt.Errorf("plot hour window [%d, %d) is empty", c.Plot.FromHour, c.Plot.ToHour)
	}
	return nil
}

// BuildModel returns the model to render, or nil when the run uses an
// existing IDF.
func (c *Config) BuildModel() (*model.Model, error) {
	switch {
	case c.ModelFile != "":
		return model.LoadFile(c.ModelFile)
	case c.Preset == PresetGreenhouse:
		return model.Greenhouse(model.DefaultGreenhouseParams())
	default:
		return nil, nil
	}
}

// NewRuntime builds the configured engine runtime.
func (e EngineConfig) NewRuntime(stdout, stderr io.Writer, log *slog.Logger) (engine.Runtime, error) {
	switch e.Runtime {
	case RuntimeExec, "":
		return &engine.Exec{Dir: e.Dir, Stdout: stdout, Stderr: stderr, Logger: log}, nil
	case RuntimeCAPI:
		rt, err := capi.New()
		if err != nil {
			return nil, err
		}
		return rt, nil
	default:
		return nil, fmt.Errorf("unknown engine runtime %q", e.Runtime)
	}
}

// Runner wires the runtime and telemetry settings into a simulation runner.
func (c *Config) Runner(stdout, stderr io.Writer, log *slog.Logger) (*simulation.Runner, error) {
	rt, err := c.Engine.NewRuntime(stdout, stderr, log)
	if err != nil {
		return nil, err
	}
	r := simulation.New(rt)
	r.Kafka = c.Telemetry.Kafka
	r.MQTT = c.Telemetry.MQTT
	return r, nil
}

type controlFileWrapper struct {
	Control control.Settings `yaml:"control"`
}

func loadControlFile(path string) (control.Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return control.Settings{}, err
	}
	var w controlFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return control.Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return w.Control, nil
}

// MergeControl overlays non-zero fields from override onto base. A strategy
// name in override replaces the base strategy; otherwise its params are
// merged key by key.
func MergeControl(base, override control.Settings) control.Settings {
	out := base
	if override.Zone != "" {
		out.Zone = override.Zone
	}
	if override.Actuator.ComponentType != "" {
		out.Actuator.ComponentType = override.Actuator.ComponentType
	}
	if override.Actuator.ControlType != "" {
		out.Actuator.ControlType = override.Actuator.ControlType
	}
	if override.Actuator.Key != "" {
		out.Actuator.Key = override.Actuator.Key
	}
	if override.ForecastHour != 0 {
		out.ForecastHour = override.ForecastHour
	}
	if override.ForecastStep != 0 {
		out.ForecastStep = override.ForecastStep
	}
	if override.Strategy.Name != "" && override.Strategy.Name != base.Strategy.Name {
		out.Strategy = override.Strategy
		return out
	}
	if len(override.Strategy.Params) > 0 {
		params := make(map[string]any, len(base.Strategy.Params)+len(override.Strategy.Params))
		for k, v := range base.Strategy.Params {
			params[k] = v
		}
		for k, v := range override.Strategy.Params {
			params[k] = v
		}
		out.Strategy.Params = params
	}
	return out
}
