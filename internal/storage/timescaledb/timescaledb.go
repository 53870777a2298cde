// Package timescaledb implements a TimescaleDB sink for aggregated
// readings, stored as a hypertable keyed on bucket time.
package timescaledb

import (
	"context"
	"fmt"
	"time"

	"github.com/urbansense/sensoragg/internal/log"
	"github.com/urbansense/sensoragg/internal/types"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS aggregated_readings (
	time TIMESTAMPTZ NOT NULL,
	dev_id TEXT NOT NULL,
	temperature FLOAT4,
	humidity FLOAT4
)`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb`

const createHypertableSQL = `
SELECT create_hypertable('aggregated_readings', 'time', if_not_exists => TRUE)`

// Sink writes aggregated readings into TimescaleDB.
type Sink struct {
	db *gorm.DB
}

// New connects to TimescaleDB and prepares the hypertable.
func New(ctx context.Context, connectionString string) (*Sink, error) {
	// Route gorm's logging through zap
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
		},
	)

	log.Info("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to create a TimescaleDB connection: %w", err)
	}

	if err := db.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create readings table: %w", err)
	}

	if err := db.WithContext(ctx).Exec(createExtensionSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create TimescaleDB extension: %w", err)
	}

	if err := db.WithContext(ctx).Exec(createHypertableSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create hypertable: %w", err)
	}

	log.Info("TimescaleDB connection successful")
	return &Sink{db: db}, nil
}

// Store writes the aggregated readings in batches.
func (s *Sink) Store(ctx context.Context, readings []types.AggregatedReading) error {
	err := s.db.WithContext(ctx).CreateInBatches(readings, 1000).Error
	if err != nil {
		return fmt.Errorf("could not store aggregated readings: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Sink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
