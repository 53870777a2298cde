package pipeline

import (
	"sort"

	"github.com/urbansense/sensoragg/internal/metadata"
	"github.com/urbansense/sensoragg/internal/types"
)

// FilterKnownDevices restricts raw readings to devices present in the
// registry. The retained fraction is reported through the observer. Zero
// overlap between raw and metadata device ids aborts the run.
func FilterKnownDevices(readings []types.SensorReading, reg *metadata.Registry, obs Observer) ([]types.SensorReading, error) {
	rawDevices := make(map[string]struct{})
	kept := make([]types.SensorReading, 0, len(readings))
	for _, r := range readings {
		rawDevices[r.DeviceID] = struct{}{}
		if reg.Contains(r.DeviceID) {
			kept = append(kept, r)
		}
	}

	obs.RowsFiltered("device", len(readings), len(kept))

	if len(kept) == 0 {
		return nil, &types.NoMatchingDevicesError{
			RawDevices:   len(rawDevices),
			KnownDevices: reg.Len(),
		}
	}
	return kept, nil
}

// FilterPreInstallation removes each device's readings recorded before that
// device's cutoff. Devices without a cutoff pass through unfiltered. The
// filter is evaluated per device in a single pass: one device's cutoff
// never affects another device's rows.
func FilterPreInstallation(readings []types.SensorReading, reg *metadata.Registry, obs Observer) []types.SensorReading {
	kept := make([]types.SensorReading, 0, len(readings))
	removed := make(map[string]int)
	remaining := make(map[string]int)

	for _, r := range readings {
		cutoff, ok := reg.Cutoff(r.DeviceID)
		if ok && r.Time.Before(cutoff) {
			removed[r.DeviceID]++
			continue
		}
		if ok {
			remaining[r.DeviceID]++
		}
		kept = append(kept, r)
	}

	// Report per-device removal counts in a stable order.
	devices := make([]string, 0, len(removed))
	for id := range removed {
		devices = append(devices, id)
	}
	sort.Strings(devices)
	for _, id := range devices {
		obs.PreInstallRemoved(id, removed[id], remaining[id])
	}
	obs.RowsFiltered("installation window", len(readings), len(kept))

	return kept
}
