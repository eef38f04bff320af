package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/pflag"

	"greenhouse-eplus/internal/config"
	"greenhouse-eplus/internal/control"
	"greenhouse-eplus/internal/engine"
	"greenhouse-eplus/internal/logging"
	"greenhouse-eplus/internal/model"
	"greenhouse-eplus/internal/plot"
	"greenhouse-eplus/internal/results"
	"greenhouse-eplus/internal/simulation"
)

// Demo:
// - Build the greenhouse preset and write it as an IDF
// - Run it in-process with the threshold heater controller attached
// - Plot the greenhouse temperatures and print their averages
func main() {
	weather := pflag.StringP("weather", "w", "examples/weather/USA_CO_Golden-NREL.724666_TMY3.epw", "EnergyPlus weather file")
	out := pflag.StringP("out", "o", "runs/greenhouse", "Output folder (the IDF is written next to it)")
	eplusDir := pflag.String("eplus-dir", engine.InstallDir(), "EnergyPlus install folder")
	runtime := pflag.String("runtime", config.RuntimeCAPI, "Engine runtime: capi or exec")
	logLevel := pflag.String("log-level", "info", "Log level")
	pflag.Parse()

	if err := demo(*weather, *out, *eplusDir, *runtime, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func demo(weather, out, eplusDir, runtime, level string) error {
	log := logging.New(level, "text", os.Stderr)

	params := model.DefaultGreenhouseParams()
	m, err := model.Greenhouse(params)
	if err != nil {
		return err
	}
	idfPath := filepath.Clean(out) + ".idf"
	if err := os.MkdirAll(filepath.Dir(idfPath), 0o755); err != nil {
		return err
	}
	if err := m.WriteFile(idfPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", idfPath)

	rt, err := config.EngineConfig{Runtime: runtime, Dir: eplusDir}.NewRuntime(os.Stdout, os.Stderr, log)
	if err != nil {
		return err
	}
	settings := control.DefaultSettings()
	settings.Zone = params.Zone

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	res, err := simulation.New(rt).Run(ctx, simulation.RunConfig{
		WeatherFile: weather,
		IDFFile:     idfPath,
		OutputDir:   out,
		Log:         runtime == config.RuntimeCAPI,
	}, settings)
	if err != nil {
		return err
	}
	fmt.Printf("Run %s: %d controller steps in %s\n", res.RunID, res.Steps, res.Duration)

	t, err := results.Load(res.OutputDir)
	if err != nil {
		return err
	}
	opts := plot.DefaultOptions()
	opts.Labels = model.GreenhouseLabels(params.Zone)
	for col := range opts.Labels {
		if t.Has(col) {
			opts.Columns = append(opts.Columns, col)
		}
	}
	sort.Strings(opts.Columns)
	opts.Dir = res.OutputDir
	opts.Key = "greenhouse"
	series, err := plot.Prepare(t, opts)
	if err != nil {
		return err
	}
	if err := plot.WriteAverages(os.Stdout, series); err != nil {
		return err
	}
	path, err := plot.Render(series, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Plot: %s\n", path)
	return nil
}
