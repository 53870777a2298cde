package encode

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/urbansense/sensoragg/internal/types"
)

type captureObserver struct {
	memoryBefore int
	memoryAfter  int
	artifacts    map[string]int
}

func (o *captureObserver) MemoryOptimized(before, after int) {
	o.memoryBefore = before
	o.memoryAfter = after
}

func (o *captureObserver) ArtifactWritten(path string, rows int) {
	if o.artifacts == nil {
		o.artifacts = make(map[string]int)
	}
	o.artifacts[path] = rows
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path     string
		token    string
		expected string
	}{
		{"data/interim/data.parquet", "1h", "data/interim/data_1h.parquet"},
		{"data.parquet", "15m", "data_15m.parquet"},
		{"out/fmi.parquet", "1d", "out/fmi_1d.parquet"},
		{"noext", "1h", "noext_1h"},
	}

	for _, tt := range tests {
		if got := DerivedPath(tt.path, tt.token); got != tt.expected {
			t.Errorf("DerivedPath(%q, %q) = %q, want %q", tt.path, tt.token, got, tt.expected)
		}
	}
}

func TestDowncastRoundTrip(t *testing.T) {
	// Realistic sensor magnitudes must survive the float32 downcast
	// within 1e-5 absolute tolerance.
	values := []float64{-40.0, -17.3, 0.0, 4.95, 23.8, 60.0, 38.5, 98.5, 100.0}
	for _, v := range values {
		p := downcast(types.Float64(v))
		if p == nil {
			t.Fatalf("downcast(%v) returned nil", v)
		}
		if diff := math.Abs(float64(*p) - v); diff > 1e-5 {
			t.Errorf("downcast(%v) round-trip error %g exceeds 1e-5", v, diff)
		}
	}
	if downcast(nil) != nil {
		t.Errorf("downcast(nil) should stay nil")
	}
}

func TestWriteAggregatedRejectsUnknownDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	readings := []types.AggregatedReading{
		{
			BucketEnd:   time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			DeviceID:    "ROGUE",
			Temperature: types.Float64(1),
		},
	}

	err := WriteAggregated(path, readings, []string{"A", "B"}, &captureObserver{})
	if err == nil {
		t.Fatalf("expected error for device outside the category set")
	}
}

func TestWriteAggregatedReportsMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	readings := []types.AggregatedReading{
		{
			BucketEnd:   time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			DeviceID:    "24E124136E106684",
			Temperature: types.Float64(23.8),
			Humidity:    types.Float64(38.5),
		},
	}

	obs := &captureObserver{}
	if err := WriteAggregated(path, readings, []string{"24E124136E106684"}, obs); err != nil {
		t.Fatalf("WriteAggregated failed: %v", err)
	}

	if obs.memoryAfter >= obs.memoryBefore {
		t.Errorf("compact footprint %d not smaller than original %d", obs.memoryAfter, obs.memoryBefore)
	}
	if rows := obs.artifacts[path]; rows != 1 {
		t.Errorf("artifact rows = %d, want 1", rows)
	}
}
