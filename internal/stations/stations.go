// Package stations implements the weather station pipeline: FMI station
// observations are concatenated, trimmed to a fixed epoch, restricted to a
// closed allow-list of stations, persisted raw, and then aggregated per
// station with the same resampler as the device pipeline.
package stations

import (
	"time"

	"github.com/urbansense/sensoragg/internal/dataset"
	"github.com/urbansense/sensoragg/internal/encode"
	"github.com/urbansense/sensoragg/internal/pipeline"
	"github.com/urbansense/sensoragg/internal/resample"
	"github.com/urbansense/sensoragg/internal/types"
)

// AllowedStations is the closed set of stations admitted into the pipeline.
// Observations from any other station are dropped silently.
var AllowedStations = []string{
	"Helsinki Kaisaniemi",
	"Helsinki Kumpula",
	"Helsinki Malmi lentokenttä",
	"Helsinki Harmaja",
	"Vantaa Helsinki-Vantaan lentoasema",
}

// Epoch is the data-quality cutoff: observations before it are dropped
// regardless of station.
var Epoch = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

const (
	metricTemperature   = "temperature"
	metricHumidity      = "humidity"
	metricCloudAmount   = "cloud_amount"
	metricPrecipitation = "precipitation"
)

var stationMetrics = []string{metricTemperature, metricHumidity, metricCloudAmount, metricPrecipitation}

// Params are the inputs of one station pipeline run.
type Params struct {
	InputPaths []string
	OutputPath string
	Cadence    resample.Cadence
}

// Run executes the station pipeline once. It persists the filtered raw
// observations to the configured output path and the aggregated series to a
// second path derived by inserting the cadence token into the filename.
func Run(p Params, obs pipeline.Observer) error {
	readings, err := dataset.ReadStationReadings(p.InputPaths)
	if err != nil {
		return err
	}

	filtered := Filter(readings, obs)
	if err := dataset.WriteStationReadings(p.OutputPath, filtered); err != nil {
		return err
	}
	obs.ArtifactWritten(p.OutputPath, len(filtered))

	buckets := resample.Aggregate(toPoints(filtered), stationMetrics, p.Cadence)
	obs.Aggregated("stations", len(buckets), p.Cadence.String())
	if len(buckets) == 0 {
		obs.EmptyAggregation("stations")
		return nil
	}

	aggregated := toAggregated(buckets, firstFMISIDs(filtered))
	aggregatedPath := encode.DerivedPath(p.OutputPath, p.Cadence.Token())
	return encode.WriteAggregatedStations(aggregatedPath, aggregated, AllowedStations, obs)
}

// Filter drops observations before the epoch and from stations outside the
// allow-list.
func Filter(readings []types.StationReading, obs pipeline.Observer) []types.StationReading {
	afterEpoch := make([]types.StationReading, 0, len(readings))
	for _, r := range readings {
		if !r.Time.Before(Epoch) {
			afterEpoch = append(afterEpoch, r)
		}
	}
	obs.RowsFiltered("station epoch", len(readings), len(afterEpoch))

	allowed := make(map[string]struct{}, len(AllowedStations))
	for _, s := range AllowedStations {
		allowed[s] = struct{}{}
	}

	kept := make([]types.StationReading, 0, len(afterEpoch))
	for _, r := range afterEpoch {
		if _, ok := allowed[r.Station]; ok {
			kept = append(kept, r)
		}
	}
	obs.RowsFiltered("station allow-list", len(afterEpoch), len(kept))

	return kept
}

// firstFMISIDs maps each station to the first FMISID observed for it. The
// identifier is constant within a station and is not re-validated.
func firstFMISIDs(readings []types.StationReading) map[string]int64 {
	ids := make(map[string]int64)
	for _, r := range readings {
		if _, ok := ids[r.Station]; !ok {
			ids[r.Station] = r.FMISID
		}
	}
	return ids
}

func toPoints(readings []types.StationReading) []resample.Point {
	points := make([]resample.Point, len(readings))
	for i, r := range readings {
		values := make(map[string]float64, 4)
		if r.Temperature != nil {
			values[metricTemperature] = *r.Temperature
		}
		if r.Humidity != nil {
			values[metricHumidity] = *r.Humidity
		}
		if r.CloudAmount != nil {
			values[metricCloudAmount] = *r.CloudAmount
		}
		if r.Precipitation != nil {
			values[metricPrecipitation] = *r.Precipitation
		}
		points[i] = resample.Point{Key: r.Station, Time: r.Time, Values: values}
	}
	return points
}

func toAggregated(buckets []resample.Bucket, fmisids map[string]int64) []types.AggregatedStationReading {
	out := make([]types.AggregatedStationReading, len(buckets))
	for i, b := range buckets {
		r := types.AggregatedStationReading{
			BucketEnd: b.End,
			Station:   b.Key,
			FMISID:    fmisids[b.Key],
		}
		if v, ok := b.Means[metricTemperature]; ok {
			r.Temperature = types.Float64(v)
		}
		if v, ok := b.Means[metricHumidity]; ok {
			r.Humidity = types.Float64(v)
		}
		if v, ok := b.Means[metricCloudAmount]; ok {
			r.CloudAmount = types.Float64(v)
		}
		if v, ok := b.Means[metricPrecipitation]; ok {
			r.Precipitation = types.Float64(v)
		}
		out[i] = r
	}
	return out
}
