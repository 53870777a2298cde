// Package sqlite implements a SQLite file sink for aggregated readings,
// giving the dashboard collaborator a queryable copy of the aggregate.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urbansense/sensoragg/internal/log"
	"github.com/urbansense/sensoragg/internal/types"
	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS aggregated_readings (
	time TIMESTAMP NOT NULL,
	dev_id TEXT NOT NULL,
	temperature REAL,
	humidity REAL
)`

const insertSQL = `
INSERT INTO aggregated_readings (time, dev_id, temperature, humidity)
VALUES (?, ?, ?, ?)`

// Sink writes aggregated readings into a SQLite database file.
type Sink struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// readings table exists.
func New(ctx context.Context, dbPath string) (*Sink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create readings table: %w", err)
	}

	log.Infof("SQLite sink ready at %s", dbPath)
	return &Sink{db: db}, nil
}

// Store inserts the aggregated readings in a single transaction.
func (s *Sink) Store(ctx context.Context, readings []types.AggregatedReading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.ExecContext(ctx, r.BucketEnd, r.DeviceID,
			nullable(r.Temperature), nullable(r.Humidity))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	return s.db.Close()
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
