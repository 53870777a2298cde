// Command sensoragg runs the batch sensor aggregation pipelines: it cleans
// and time-buckets raw device readings against the device metadata
// registry, and does the same for the fixed set of FMI weather stations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urbansense/sensoragg/internal/app"
	"github.com/urbansense/sensoragg/internal/constants"
	"github.com/urbansense/sensoragg/internal/log"
	"github.com/urbansense/sensoragg/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to config file (default: ./config.yaml)")
	cadence := flag.String("cadence", "", "Override the configured aggregation cadence (e.g. \"15 minutes\", \"1 hour\", \"1 day\")")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sensoragg %s\n", constants.Version)
		os.Exit(0)
	}

	// Load configuration
	filename, _ := filepath.Abs(*cfgFile)
	cfg, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		fmt.Printf("Error reading config file. Did you pass the -config flag? Run with -h for help: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override file configuration
	if *cadence != "" {
		cfg.Cadence = *cadence
	}
	if *debug {
		cfg.Debug = true
	}

	// Set up logging
	if err := log.Init(cfg.Debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Infof("sensoragg %s starting", constants.Version)

	// Create and run the application
	application := app.New(config.NewStaticProvider(cfg), log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("run failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
}
