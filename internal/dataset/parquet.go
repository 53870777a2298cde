// Package dataset reads and writes the columnar (parquet) artifacts
// consumed and produced by the pipelines. Required columns are validated
// against the file schema once, at the ingestion boundary, so the rest of
// the pipeline works with typed records.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/urbansense/sensoragg/internal/types"
)

type sensorRow struct {
	Time        time.Time `parquet:"time"`
	DeviceID    string    `parquet:"dev-id"`
	Temperature *float64  `parquet:"temperature,optional"`
	Humidity    *float64  `parquet:"humidity,optional"`
}

type stationRow struct {
	Time          time.Time `parquet:"time"`
	Station       string    `parquet:"Station"`
	FMISID        int64     `parquet:"fmisid"`
	Temperature   *float64  `parquet:"temperature,optional"`
	Humidity      *float64  `parquet:"humidity,optional"`
	CloudAmount   *float64  `parquet:"cloud_amount,optional"`
	Precipitation *float64  `parquet:"precipitation,optional"`
}

// ReadSensorReadings reads raw device readings from one or more parquet
// files and concatenates them in input order. Each file must carry a time
// index and a device id column.
func ReadSensorReadings(paths []string) ([]types.SensorReading, error) {
	var out []types.SensorReading
	for _, path := range paths {
		if err := requireColumns(path, "time", "dev-id"); err != nil {
			return nil, err
		}
		rows, err := parquet.ReadFile[sensorRow](path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, r := range rows {
			out = append(out, types.SensorReading{
				Time:        r.Time.UTC(),
				DeviceID:    r.DeviceID,
				Temperature: r.Temperature,
				Humidity:    r.Humidity,
			})
		}
	}
	return out, nil
}

// ReadStationReadings reads raw weather station observations from one or
// more parquet files and concatenates them in input order.
func ReadStationReadings(paths []string) ([]types.StationReading, error) {
	var out []types.StationReading
	for _, path := range paths {
		if err := requireColumns(path, "time", "Station", "fmisid"); err != nil {
			return nil, err
		}
		rows, err := parquet.ReadFile[stationRow](path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, r := range rows {
			out = append(out, types.StationReading{
				Time:          r.Time.UTC(),
				Station:       r.Station,
				FMISID:        r.FMISID,
				Temperature:   r.Temperature,
				Humidity:      r.Humidity,
				CloudAmount:   r.CloudAmount,
				Precipitation: r.Precipitation,
			})
		}
	}
	return out, nil
}

// WriteStationReadings persists filtered but unaggregated station
// observations.
func WriteStationReadings(path string, readings []types.StationReading) error {
	rows := make([]stationRow, len(readings))
	for i, r := range readings {
		rows[i] = stationRow{
			Time:          r.Time,
			Station:       r.Station,
			FMISID:        r.FMISID,
			Temperature:   r.Temperature,
			Humidity:      r.Humidity,
			CloudAmount:   r.CloudAmount,
			Precipitation: r.Precipitation,
		}
	}
	return Write(path, rows)
}

// Write persists rows to a parquet file at path, creating parent
// directories as needed.
func Write[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("closing parquet writer for %s: %w", path, err)
	}
	return f.Close()
}

// requireColumns validates that the parquet file at path carries every
// named leaf column, returning a SchemaError on the first one missing.
func requireColumns(path string, names ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return fmt.Errorf("opening parquet file %s: %w", path, err)
	}

	present := make(map[string]struct{})
	for _, col := range pf.Schema().Columns() {
		present[strings.Join(col, ".")] = struct{}{}
	}
	for _, name := range names {
		if _, ok := present[name]; !ok {
			return &types.SchemaError{Input: path, Column: name}
		}
	}
	return nil
}
