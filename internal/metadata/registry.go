// Package metadata loads the device metadata registry from a GeoJSON
// feature collection and derives per-device data-validity cutoffs from
// installation dates.
package metadata

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/urbansense/sensoragg/internal/types"
)

// Installation dates appear under one of two alternate property names,
// checked in this order.
var installDateProperties = []string{"Date_installed", "Asennettu_pvm"}

// Installation dates come from hand-maintained spreadsheets, so several
// date layouts show up in the wild.
var installDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2.1.2006",
	"02.01.2006",
}

// Observer receives registry load events. The pipeline's observer
// implements it.
type Observer interface {
	CutoffDerived(deviceID string, installDate, cutoff time.Time)
	CutoffMissing(deviceID string)
	CutoffUnparseable(deviceID string, raw string, err error)
}

// Registry is the set of known devices and their optional cutoffs. A device
// with no parseable installation date has no cutoff and its readings pass
// the window filter unfiltered.
type Registry struct {
	ids     map[string]struct{}
	cutoffs map[string]time.Time
}

// Load reads a GeoJSON feature collection from path and builds the registry.
func Load(path string, obs Observer) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", path, err)
	}

	return FromFeatures(fc, obs)
}

// FromFeatures builds the registry from an already-parsed feature
// collection. Every feature must carry an "id" property; a feature without
// one fails the whole load with a SchemaError.
func FromFeatures(fc *geojson.FeatureCollection, obs Observer) (*Registry, error) {
	r := &Registry{
		ids:     make(map[string]struct{}),
		cutoffs: make(map[string]time.Time),
	}

	for _, feature := range fc.Features {
		id, ok := feature.Properties["id"].(string)
		if !ok || id == "" {
			return nil, &types.SchemaError{Input: "metadata", Column: "id"}
		}
		r.ids[id] = struct{}{}

		raw := installDateValue(feature.Properties)
		if raw == "" {
			obs.CutoffMissing(id)
			continue
		}

		installed, err := parseInstallDate(raw)
		if err != nil {
			// Localized failure: this device proceeds with no cutoff.
			obs.CutoffUnparseable(id, raw, err)
			continue
		}

		// Data is kept from the day after installation onwards.
		cutoff := installed.AddDate(0, 0, 1)
		r.cutoffs[id] = cutoff
		obs.CutoffDerived(id, installed, cutoff)
	}

	return r, nil
}

// Contains reports whether the device is known to the registry.
func (r *Registry) Contains(deviceID string) bool {
	_, ok := r.ids[deviceID]
	return ok
}

// Cutoff returns the device's cutoff instant, if it has one.
func (r *Registry) Cutoff(deviceID string) (time.Time, bool) {
	c, ok := r.cutoffs[deviceID]
	return c, ok
}

// Len returns the number of known devices.
func (r *Registry) Len() int {
	return len(r.ids)
}

// SortedIDs returns the known device ids in ascending order. The compact
// writer uses this as the closed category set for the device id column.
func (r *Registry) SortedIDs() []string {
	ids := make([]string, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func installDateValue(props geojson.Properties) string {
	for _, key := range installDateProperties {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// parseInstallDate parses an installation date and normalizes it to UTC,
// matching the timezone of the raw reading timestamps.
func parseInstallDate(raw string) (time.Time, error) {
	for _, layout := range installDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
