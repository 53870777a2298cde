// Package storage defines interfaces and implementations for optional
// aggregated-data storage sinks, written alongside the parquet artifact.
package storage

import (
	"context"

	"github.com/urbansense/sensoragg/internal/types"
)

// Sink is a storage backend receiving the aggregated device series.
type Sink interface {
	Store(ctx context.Context, readings []types.AggregatedReading) error
	Close() error
}
