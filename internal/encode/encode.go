// Package encode persists aggregated device readings in a compact columnar
// form: metric columns downcast to float32 and the device id column
// restricted to the closed, sorted category set of devices known to the
// metadata registry.
package encode

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urbansense/sensoragg/internal/dataset"
	"github.com/urbansense/sensoragg/internal/types"
)

// Observer receives writer events. The pipeline's observer implements it.
type Observer interface {
	MemoryOptimized(beforeBytes, afterBytes int)
	ArtifactWritten(path string, rows int)
}

type aggRow struct {
	Time        time.Time `parquet:"time"`
	DeviceID    string    `parquet:"dev-id,dict"`
	Temperature *float32  `parquet:"temperature,optional"`
	Humidity    *float32  `parquet:"humidity,optional"`
}

// WriteAggregated persists aggregated readings to path. Every device id
// must belong to the category set; an unknown id means the upstream filter
// was bypassed and fails the write. Sensor measurement precision is far
// coarser than the ~1e-6 relative error the float32 downcast introduces.
func WriteAggregated(path string, readings []types.AggregatedReading, categories []string, obs Observer) error {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
	}

	rows := make([]aggRow, len(readings))
	for i, r := range readings {
		if _, ok := known[r.DeviceID]; !ok {
			return fmt.Errorf("device %q not in the metadata category set", r.DeviceID)
		}
		rows[i] = aggRow{
			Time:        r.BucketEnd,
			DeviceID:    r.DeviceID,
			Temperature: downcast(r.Temperature),
			Humidity:    downcast(r.Humidity),
		}
	}

	obs.MemoryOptimized(memoryFootprint(readings, false), memoryFootprint(readings, true))

	if err := dataset.Write(path, rows); err != nil {
		return err
	}
	obs.ArtifactWritten(path, len(rows))
	return nil
}

// DerivedPath inserts the cadence token between the base name and extension
// of path: data.parquet with token "1h" becomes data_1h.parquet.
func DerivedPath(path, token string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "_" + token + ext
}

func downcast(v *float64) *float32 {
	if v == nil {
		return nil
	}
	f := float32(*v)
	return &f
}

// memoryFootprint estimates the in-memory size of the aggregated series
// before and after optimization, for the observability report. Compact form
// assumes float32 metrics and a two-byte category index per device id.
func memoryFootprint(readings []types.AggregatedReading, compact bool) int {
	total := 0
	for _, r := range readings {
		total += 8 // timestamp
		if compact {
			total += 2 + 2*4
		} else {
			total += len(r.DeviceID) + 2*8
		}
	}
	return total
}
