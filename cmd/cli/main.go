package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"greenhouse-eplus/internal/analysis"
	"greenhouse-eplus/internal/config"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/plot"
	"greenhouse-eplus/internal/results"
)

// ExitError carries the process exit status of a failed command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// stderr receives logs and engine output.
var stderr io.Writer = os.Stderr

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(stdout io.Writer, args []string) error {
	if len(args) < 1 {
		usage(stdout)
		return &ExitError{Code: 2, Message: "missing command"}
	}
	switch args[0] {
	case "idf":
		return cmdIDF(stdout, args[1:])
	case "run":
		return cmdRun(stdout, args[1:])
	case "plot":
		return cmdPlot(stdout, args[1:])
	case "summary":
		return cmdSummary(stdout, args[1:])
	case "variables":
		return cmdVariables(stdout, args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return usageError("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage:
  cli idf --preset greenhouse --out greenhouse.idf
  cli idf --model examples/models/greenhouse.hcl
  cli run --config examples/configs/greenhouse.yaml
  cli plot --dir runs/greenhouse --greenhouse-labels --key greenhouse
  cli summary --dir runs/greenhouse
  cli variables --dir runs/greenhouse

notes:
  - run renders the configured model to run.idf_file before starting EnergyPlus
  - with run.log the zone controller writes apilog.csv next to eplusout.csv
`)
}

// newFlagSet adds the logging flags every command shares.
func newFlagSet(name string, out io.Writer) (*pflag.FlagSet, *string, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	level := fs.String("log-level", "info", "Log level: debug, info, warn or error")
	format := fs.String("log-format", "text", "Log format: text or json")
	return fs, level, format
}

func parse(fs *pflag.FlagSet, name string, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, usageError("%s: %v", name, err)
	}
	return false, nil
}

func newLogger(level, format string) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "text", "json":
	default:
		return nil, usageError("invalid log-format %q: must be 'text' or 'json'", format)
	}
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return nil, usageError("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
	return logging.New(level, format, stderr), nil
}

func cmdIDF(stdout io.Writer, args []string) error {
	fs, level, format := newFlagSet("idf", stdout)
	modelPath := fs.String("model", "", "Building model file (.yaml, .json or .hcl)")
	preset := fs.String("preset", "", "Built-in model: greenhouse")
	outPath := fs.StringP("out", "o", "", "Output IDF path (default: stdout)")
	if done, err := parse(fs, "idf", args); done || err != nil {
		return err
	}
	if _, err := newLogger(*level, *format); err != nil {
		return err
	}
	if (*modelPath == "") == (*preset == "") {
		return usageError("idf: exactly one of --model or --preset is required")
	}

	cfg := &config.Config{ModelFile: *modelPath, Preset: *preset}
	if *preset != "" && *preset != config.PresetGreenhouse {
		return usageError("idf: unknown preset %q", *preset)
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	if problems := m.CheckReferences(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(stderr, p.String())
		}
		return fmt.Errorf("model has %d unresolved references", len(problems))
	}

	if *outPath == "" {
		return m.Render(stdout)
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := m.WriteFile(*outPath); err != nil {
		return err
	}
	n, err := m.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d objects to %s\n", n, *outPath)
	return nil
}

func cmdRun(stdout io.Writer, args []string) error {
	fs, level, format := newFlagSet("run", stdout)
	cfgPath := fs.StringP("config", "c", "", "Path to YAML run config")
	weather := fs.String("weather", "", "Override run.weather_file")
	idfPath := fs.String("idf", "", "Override run.idf_file")
	outDir := fs.String("out", "", "Override run.output_dir")
	noPlot := fs.Bool("no-plot", false, "Skip the plot after the run")
	if done, err := parse(fs, "run", args); done || err != nil {
		return err
	}
	log, err := newLogger(*level, *format)
	if err != nil {
		return err
	}
	if *cfgPath == "" {
		return usageError("run: --config is required")
	}

	cfg, err := config.LoadUnchecked(*cfgPath)
	if err != nil {
		return err
	}
	if *weather != "" {
		cfg.Run.WeatherFile = *weather
	}
	if *idfPath != "" {
		cfg.Run.IDFFile = *idfPath
	}
	if *outDir != "" {
		cfg.Run.OutputDir = *outDir
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	runCfg, err := cfg.Run.Normalize()
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	if m != nil {
		if err := os.MkdirAll(filepath.Dir(runCfg.IDFFile), 0o755); err != nil {
			return err
		}
		if err := m.WriteFile(runCfg.IDFFile); err != nil {
			return err
		}
		log.Info("model rendered", "idf", runCfg.IDFFile)
	}

	runner, err := cfg.Runner(stderr, stderr, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	res, err := runner.Run(ctx, runCfg, cfg.Control)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Run %s finished in %s\n", res.RunID, res.Duration.Round(time.Millisecond))
	fmt.Fprintf(stdout, "Results: %s\n", res.CSVPath)
	if res.LogPath != "" {
		fmt.Fprintf(stdout, "Controller log: %s (%d steps)\n", res.LogPath, res.Steps)
	}
	if *noPlot {
		return nil
	}

	opts := cfg.Plot
	if opts.Dir == "" {
		opts.Dir = res.OutputDir
	}
	if len(opts.Labels) == 0 && cfg.Preset == config.PresetGreenhouse {
		opts.Labels = model.GreenhouseLabels(cfg.Control.Zone)
	}
	return plotResults(stdout, res.OutputDir, opts, true)
}

func cmdPlot(stdout io.Writer, args []string) error {
	fs, level, format := newFlagSet("plot", stdout)
	dir := fs.String("dir", "", "EnergyPlus output folder")
	columns := fs.StringSlice("column", nil, "Column to plot (repeatable; default all)")
	labels := fs.StringToString("label", nil, "Legend label per column, column=label")
	ghLabels := fs.Bool("greenhouse-labels", false, "Use the greenhouse labels (Todb, Ti, ...)")
	zone := fs.String("zone", "MAINZ", "Zone for --greenhouse-labels")
	from := fs.Int("from", 0, "First hour")
	to := fs.Int("to", 8000, "Last hour, exclusive (0 = end)")
	key := fs.String("key", "eplusout", "Image name without extension")
	averagesOnly := fs.Bool("averages-only", false, "Print the averages without drawing")
	if done, err := parse(fs, "plot", args); done || err != nil {
		return err
	}
	if _, err := newLogger(*level, *format); err != nil {
		return err
	}
	if *dir == "" {
		return usageError("plot: --dir is required")
	}

	opts := plot.DefaultOptions()
	opts.Columns = *columns
	opts.FromHour, opts.ToHour = *from, *to
	opts.Key = *key
	opts.Dir = *dir
	opts.Labels = map[string]string{}
	if *ghLabels {
		for k, v := range model.GreenhouseLabels(*zone) {
			opts.Labels[k] = v
		}
	}
	for k, v := range *labels {
		opts.Labels[k] = v
	}
	return plotResults(stdout, *dir, opts, !*averagesOnly)
}

func plotResults(stdout io.Writer, outputDir string, opts plot.Options, draw bool) error {
	t, err := results.Load(outputDir)
	if err != nil {
		return err
	}
	series, err := plot.Prepare(t, opts)
	if err != nil {
		return err
	}
	if err := plot.WriteAverages(stdout, series); err != nil {
		return err
	}
	if !draw {
		return nil
	}
	path, err := plot.Render(series, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Plot: %s\n", path)
	return nil
}

func cmdSummary(stdout io.Writer, args []string) error {
	fs, level, format := newFlagSet("summary", stdout)
	dir := fs.String("dir", "", "EnergyPlus output folder")
	columns := fs.StringSlice("column", nil, "Column to summarize (repeatable; default all)")
	if done, err := parse(fs, "summary", args); done || err != nil {
		return err
	}
	if _, err := newLogger(*level, *format); err != nil {
		return err
	}
	if *dir == "" {
		return usageError("summary: --dir is required")
	}
	t, err := results.Load(*dir)
	if err != nil {
		return err
	}
	ranked, err := analysis.RankByMean(t, *columns...)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%-4s %-8s %-9s %-9s %-9s %-9s %-9s %s\n", "rank", "count", "mean", "min", "max", "p05", "p95", "column")
	for i, s := range ranked {
		fmt.Fprintf(stdout, "%-4d %-8d %-9.2f %-9.2f %-9.2f %-9.2f %-9.2f %s\n",
			i+1, s.Count, s.Mean, s.Min, s.Max, s.P05, s.P95, s.Column)
	}
	return nil
}

func cmdVariables(stdout io.Writer, args []string) error {
	fs, level, format := newFlagSet("variables", stdout)
	dir := fs.String("dir", "", "EnergyPlus output folder holding eplusout.rdd")
	catalog := fs.String("catalog", "", "Read a saved variable catalog instead")
	query := fs.StringP("query", "q", "", "Case-insensitive name filter")
	if done, err := parse(fs, "variables", args); done || err != nil {
		return err
	}
	if _, err := newLogger(*level, *format); err != nil {
		return err
	}

	var vars []results.Variable
	switch {
	case *dir != "" && *catalog != "":
		return usageError("variables: --dir and --catalog are mutually exclusive")
	case *dir != "":
		v, err := results.LoadVariableDictionary(*dir)
		if err != nil {
			return err
		}
		vars = v
	default:
		path := *catalog
		if path == "" {
			path = results.DefaultCatalogPath()
		}
		c, err := results.LoadCatalog(path)
		if err != nil {
			return err
		}
		vars = c.Variables
	}

	q := strings.ToLower(*query)
	n := 0
	for _, v := range vars {
		if q != "" && !strings.Contains(strings.ToLower(v.Name), q) {
			continue
		}
		n++
		units := v.Units
		if units == "" {
			units = "-"
		}
		fmt.Fprintf(stdout, "%-5s %-8s %-10s %s\n", v.TimeStep, v.ReportType, units, v.Name)
	}
	fmt.Fprintf(stdout, "%d variables\n", n)
	return nil
}
