// Package pipeline implements the device aggregation pipeline: raw sensor
// readings are cross-referenced against the metadata registry, trimmed of
// pre-installation noise, resampled onto fixed time buckets per device, and
// persisted in compact columnar form.
package pipeline

import (
	"context"

	"github.com/urbansense/sensoragg/internal/dataset"
	"github.com/urbansense/sensoragg/internal/encode"
	"github.com/urbansense/sensoragg/internal/metadata"
	"github.com/urbansense/sensoragg/internal/resample"
	"github.com/urbansense/sensoragg/internal/storage"
	"github.com/urbansense/sensoragg/internal/types"
)

const (
	metricTemperature = "temperature"
	metricHumidity    = "humidity"
)

var deviceMetrics = []string{metricTemperature, metricHumidity}

// Params are the inputs of one device pipeline run.
type Params struct {
	RawPaths     []string
	MetadataPath string
	OutputPath   string
	Cadence      resample.Cadence
}

// Run executes the device pipeline once. Fatal errors (missing columns,
// zero device overlap) abort before any output is written; an empty
// aggregation result is a warning and produces no artifact.
func Run(ctx context.Context, p Params, sinks *storage.Manager, obs Observer) error {
	reg, err := metadata.Load(p.MetadataPath, obs)
	if err != nil {
		return err
	}

	readings, err := dataset.ReadSensorReadings(p.RawPaths)
	if err != nil {
		return err
	}

	filtered, err := FilterKnownDevices(readings, reg, obs)
	if err != nil {
		return err
	}
	windowed := FilterPreInstallation(filtered, reg, obs)

	buckets := resample.Aggregate(toPoints(windowed), deviceMetrics, p.Cadence)
	obs.Aggregated("devices", len(buckets), p.Cadence.String())
	if len(buckets) == 0 {
		obs.EmptyAggregation("devices")
		return nil
	}

	aggregated := toAggregated(buckets)
	outputPath := encode.DerivedPath(p.OutputPath, p.Cadence.Token())
	if err := encode.WriteAggregated(outputPath, aggregated, reg.SortedIDs(), obs); err != nil {
		return err
	}

	if sinks != nil {
		if err := sinks.Store(ctx, aggregated); err != nil {
			return err
		}
	}
	return nil
}

func toPoints(readings []types.SensorReading) []resample.Point {
	points := make([]resample.Point, len(readings))
	for i, r := range readings {
		values := make(map[string]float64, 2)
		if r.Temperature != nil {
			values[metricTemperature] = *r.Temperature
		}
		if r.Humidity != nil {
			values[metricHumidity] = *r.Humidity
		}
		points[i] = resample.Point{Key: r.DeviceID, Time: r.Time, Values: values}
	}
	return points
}

func toAggregated(buckets []resample.Bucket) []types.AggregatedReading {
	out := make([]types.AggregatedReading, len(buckets))
	for i, b := range buckets {
		r := types.AggregatedReading{BucketEnd: b.End, DeviceID: b.Key}
		if v, ok := b.Means[metricTemperature]; ok {
			r.Temperature = types.Float64(v)
		}
		if v, ok := b.Means[metricHumidity]; ok {
			r.Humidity = types.Float64(v)
		}
		out[i] = r
	}
	return out
}
