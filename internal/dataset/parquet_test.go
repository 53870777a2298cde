package dataset

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/urbansense/sensoragg/internal/types"
)

func TestStationReadingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "fmi.parquet")
	in := []types.StationReading{
		{
			Time:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Station:     "Helsinki Kaisaniemi",
			FMISID:      100971,
			Temperature: types.Float64(18.2),
			CloudAmount: types.Float64(3),
		},
		{
			Time:          time.Date(2024, 6, 1, 12, 10, 0, 0, time.UTC),
			Station:       "Helsinki Harmaja",
			FMISID:        100996,
			Humidity:      types.Float64(72),
			Precipitation: types.Float64(0.4),
		},
	}

	if err := WriteStationReadings(path, in); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadStationReadings([]string{path})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("read %d readings, want %d", len(got), len(in))
	}

	first := got[0]
	if first.Station != "Helsinki Kaisaniemi" || first.FMISID != 100971 {
		t.Errorf("first reading identity = %q/%d", first.Station, first.FMISID)
	}
	if !first.Time.Equal(in[0].Time) {
		t.Errorf("first reading time = %v, want %v", first.Time, in[0].Time)
	}
	if first.Temperature == nil || *first.Temperature != 18.2 {
		t.Errorf("first reading temperature = %v", first.Temperature)
	}
	if first.Humidity != nil {
		t.Errorf("first reading humidity should be null, got %v", *first.Humidity)
	}
	if got[1].Precipitation == nil || *got[1].Precipitation != 0.4 {
		t.Errorf("second reading precipitation = %v", got[1].Precipitation)
	}
}

func TestReadSensorReadingsConcatenatesFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.parquet")
	b := filepath.Join(dir, "b.parquet")

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := Write(a, []sensorRow{{Time: at, DeviceID: "A", Temperature: types.Float64(1)}}); err != nil {
		t.Fatal(err)
	}
	if err := Write(b, []sensorRow{{Time: at.Add(time.Minute), DeviceID: "B", Humidity: types.Float64(50)}}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSensorReadings([]string{a, b})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d readings, want 2", len(got))
	}
	if got[0].DeviceID != "A" || got[1].DeviceID != "B" {
		t.Errorf("concatenation order wrong: %q then %q", got[0].DeviceID, got[1].DeviceID)
	}
}

func TestReadSensorReadingsMissingDeviceColumn(t *testing.T) {
	// A file without the device id column must fail with a SchemaError
	// naming the column.
	type badRow struct {
		Time        time.Time `parquet:"time"`
		Temperature *float64  `parquet:"temperature,optional"`
	}

	path := filepath.Join(t.TempDir(), "bad.parquet")
	rows := []badRow{{Time: time.Now().UTC(), Temperature: types.Float64(1)}}
	if err := Write(path, rows); err != nil {
		t.Fatal(err)
	}

	_, err := ReadSensorReadings([]string{path})
	var schemaErr *types.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "dev-id" {
		t.Errorf("SchemaError column = %q, want dev-id", schemaErr.Column)
	}
}
