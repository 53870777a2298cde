// Package app wires configuration, observability, and the two aggregation
// pipelines into a single batch run.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urbansense/sensoragg/internal/pipeline"
	"github.com/urbansense/sensoragg/internal/resample"
	"github.com/urbansense/sensoragg/internal/stations"
	"github.com/urbansense/sensoragg/internal/storage"
	"github.com/urbansense/sensoragg/pkg/config"
	"go.uber.org/zap"
)

// DefaultCadence is used when the configuration does not name one.
const DefaultCadence = "1 hour"

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run executes the configured pipelines once and returns when both have
// completed. A fatal error from either pipeline aborts the run without
// writing its output artifact.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cadenceStr := cfg.Cadence
	if cadenceStr == "" {
		cadenceStr = DefaultCadence
	}
	cadence, err := resample.ParseCadence(cadenceStr)
	if err != nil {
		return err
	}

	// Tag everything this run logs with a run id.
	logger := a.logger.With("run_id", uuid.New().String())
	obs := pipeline.NewLogObserver(logger)

	sinks, err := storage.NewManager(ctx, &cfg.Sinks)
	if err != nil {
		return err
	}
	defer sinks.Close()

	if len(cfg.Devices.RawPaths) > 0 {
		logger.Infow("running device pipeline", "cadence", cadence.String())
		err := pipeline.Run(ctx, pipeline.Params{
			RawPaths:     cfg.Devices.RawPaths,
			MetadataPath: cfg.Devices.MetadataPath,
			OutputPath:   cfg.Devices.OutputPath,
			Cadence:      cadence,
		}, sinks, obs)
		if err != nil {
			return err
		}
	}

	if len(cfg.Stations.InputPaths) > 0 {
		logger.Infow("running station pipeline", "cadence", cadence.String())
		err := stations.Run(stations.Params{
			InputPaths: cfg.Stations.InputPaths,
			OutputPath: cfg.Stations.OutputPath,
			Cadence:    cadence,
		}, obs)
		if err != nil {
			return err
		}
	}

	logger.Info("run complete")
	return nil
}
