package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"greenhouse-eplus/internal/results"
)

func main() {
	var (
		dir        = pflag.String("dir", "", "EnergyPlus output folder containing eplusout.rdd")
		rddPath    = pflag.String("rdd", "", "Path to an .rdd file (overrides --dir)")
		outputPath = pflag.StringP("output", "o", "", "Output file path (default: ./data/variables.json)")
		merge      = pflag.Bool("merge", true, "Keep variables already in the output catalog")
	)
	pflag.Parse()

	if *dir == "" && *rddPath == "" {
		log.Fatal("one of --dir or --rdd is required")
	}
	if *outputPath == "" {
		*outputPath = results.DefaultCatalogPath()
	}

	source := *rddPath
	var (
		vars []results.Variable
		err  error
	)
	if *rddPath != "" {
		vars, err = readRDD(*rddPath)
	} else {
		source = *dir
		vars, err = results.LoadVariableDictionary(*dir)
	}
	if err != nil {
		log.Fatalf("Failed to read variable dictionary: %v", err)
	}
	fmt.Printf("Read %d variables from %s\n", len(vars), source)

	// Keep variables only a previous model reported.
	if *merge {
		if existing, err := results.LoadCatalog(*outputPath); err == nil {
			fmt.Printf("Loaded %d existing variables from %s\n", len(existing.Variables), *outputPath)
			vars = append(vars, existing.Variables...)
		}
	}

	catalog := results.NewCatalog(source, time.Now().Format(time.RFC3339), vars)
	if err := results.SaveCatalog(catalog, *outputPath); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}
	fmt.Printf("Saved %d variables to %s\n", len(catalog.Variables), *outputPath)
}

func readRDD(path string) ([]results.Variable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return results.ReadVariableDictionary(f)
}
