package storage

import (
	"context"
	"fmt"

	"github.com/urbansense/sensoragg/internal/log"
	"github.com/urbansense/sensoragg/internal/storage/sqlite"
	"github.com/urbansense/sensoragg/internal/storage/timescaledb"
	"github.com/urbansense/sensoragg/internal/types"
	"github.com/urbansense/sensoragg/pkg/config"
)

// Manager holds the active storage sinks. Sinks are optional: when none is
// configured the manager is a no-op and the parquet artifact is the only
// output.
type Manager struct {
	sinks []Sink
}

// NewManager creates a Manager populated with every sink found in the
// configuration.
func NewManager(ctx context.Context, c *config.SinksData) (*Manager, error) {
	m := &Manager{}

	if c.SQLite != nil && c.SQLite.Path != "" {
		sink, err := sqlite.New(ctx, c.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("could not add SQLite storage sink: %w", err)
		}
		m.sinks = append(m.sinks, sink)
	}

	if c.TimescaleDB != nil && c.TimescaleDB.ConnectionString != "" {
		sink, err := timescaledb.New(ctx, c.TimescaleDB.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("could not add TimescaleDB storage sink: %w", err)
		}
		m.sinks = append(m.sinks, sink)
	}

	return m, nil
}

// Store fans the aggregated readings out to every active sink.
func (m *Manager) Store(ctx context.Context, readings []types.AggregatedReading) error {
	for _, sink := range m.sinks {
		if err := sink.Store(ctx, readings); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all active sinks.
func (m *Manager) Close() {
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			log.Warnf("error closing storage sink: %v", err)
		}
	}
}
