package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/urbansense/sensoragg/internal/metadata"
	"github.com/urbansense/sensoragg/internal/pipeline"
	"github.com/urbansense/sensoragg/internal/types"
)

func feature(id string, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{24.94, 60.17})
	if id != "" {
		f.Properties["id"] = id
	}
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

func TestFromFeaturesCutoffs(t *testing.T) {
	tests := []struct {
		name       string
		props      map[string]interface{}
		wantCutoff string // RFC3339, empty means no cutoff
	}{
		{
			name:       "primary date field",
			props:      map[string]interface{}{"Date_installed": "2024-01-02"},
			wantCutoff: "2024-01-03T00:00:00Z",
		},
		{
			name:       "secondary date field",
			props:      map[string]interface{}{"Asennettu_pvm": "2024-03-10"},
			wantCutoff: "2024-03-11T00:00:00Z",
		},
		{
			name: "primary wins over secondary",
			props: map[string]interface{}{
				"Date_installed": "2024-01-02",
				"Asennettu_pvm":  "2024-06-01",
			},
			wantCutoff: "2024-01-03T00:00:00Z",
		},
		{
			name:       "finnish date layout",
			props:      map[string]interface{}{"Asennettu_pvm": "15.5.2024"},
			wantCutoff: "2024-05-16T00:00:00Z",
		},
		{
			name:       "no date",
			props:      nil,
			wantCutoff: "",
		},
		{
			name:       "unparseable date means no cutoff",
			props:      map[string]interface{}{"Date_installed": "sometime last spring"},
			wantCutoff: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := geojson.NewFeatureCollection()
			fc.Append(feature("DEV-1", tt.props))

			obs := pipeline.NewCaptureObserver()
			reg, err := metadata.FromFeatures(fc, obs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reg.Contains("DEV-1") {
				t.Fatalf("device missing from registry")
			}

			cutoff, ok := reg.Cutoff("DEV-1")
			if tt.wantCutoff == "" {
				if ok {
					t.Fatalf("expected no cutoff, got %v", cutoff)
				}
				return
			}
			want, _ := time.Parse(time.RFC3339, tt.wantCutoff)
			if !ok || !cutoff.Equal(want) {
				t.Errorf("cutoff = %v (ok=%v), want %v", cutoff, ok, want)
			}
		})
	}
}

func TestFromFeaturesParseFailureIsLocalized(t *testing.T) {
	// One device's bad date must not disturb another device's cutoff.
	fc := geojson.NewFeatureCollection()
	fc.Append(feature("GOOD", map[string]interface{}{"Date_installed": "2024-01-02"}))
	fc.Append(feature("BAD", map[string]interface{}{"Date_installed": "not a date"}))

	obs := pipeline.NewCaptureObserver()
	reg, err := metadata.FromFeatures(fc, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := reg.Cutoff("GOOD"); !ok {
		t.Errorf("good device lost its cutoff")
	}
	if _, ok := reg.Cutoff("BAD"); ok {
		t.Errorf("bad device should have no cutoff")
	}
	if len(obs.ParseFailures) != 1 || obs.ParseFailures[0] != "BAD" {
		t.Errorf("parse failure not reported: %v", obs.ParseFailures)
	}
}

func TestFromFeaturesMissingID(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(feature("", map[string]interface{}{"Date_installed": "2024-01-02"}))

	_, err := metadata.FromFeatures(fc, pipeline.NewCaptureObserver())
	var schemaErr *types.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "id" {
		t.Errorf("SchemaError column = %q, want %q", schemaErr.Column, "id")
	}
}

func TestLoadFromFile(t *testing.T) {
	raw := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [24.94, 60.17]},
				"properties": {"id": "24E124136E106684", "Date_installed": "2024-05-15"}
			}
		]
	}`

	path := filepath.Join(t.TempDir(), "meta.geojson")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := metadata.Load(path, pipeline.NewCaptureObserver())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry size = %d, want 1", reg.Len())
	}
	cutoff, ok := reg.Cutoff("24E124136E106684")
	want := time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)
	if !ok || !cutoff.Equal(want) {
		t.Errorf("cutoff = %v (ok=%v), want %v", cutoff, ok, want)
	}

	ids := reg.SortedIDs()
	if len(ids) != 1 || ids[0] != "24E124136E106684" {
		t.Errorf("SortedIDs = %v", ids)
	}
}
