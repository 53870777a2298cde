// Package resample implements fixed-cadence, right-edge-labeled time
// bucketing with mean aggregation, applied independently per entity
// (device or weather station).
package resample

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cadence is a fixed time-bucket width, e.g. 15 minutes or 1 hour.
type Cadence struct {
	Count int
	Unit  time.Duration
}

// ParseCadence parses a cadence string. Accepted forms are a count followed
// by a unit, either spelled out ("15 minutes", "1 hour", "1 day") or
// compact ("15m", "1h", "1d").
func ParseCadence(s string) (Cadence, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return Cadence{}, fmt.Errorf("empty cadence")
	}

	// Split the leading digits from the unit.
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 {
		return Cadence{}, fmt.Errorf("cadence %q: missing count", s)
	}
	count, err := strconv.Atoi(trimmed[:i])
	if err != nil || count <= 0 {
		return Cadence{}, fmt.Errorf("cadence %q: invalid count", s)
	}

	var unit time.Duration
	switch strings.TrimSpace(trimmed[i:]) {
	case "m", "min", "minute", "minutes":
		unit = time.Minute
	case "h", "hour", "hours":
		unit = time.Hour
	case "d", "day", "days":
		unit = 24 * time.Hour
	default:
		return Cadence{}, fmt.Errorf("cadence %q: unknown unit", s)
	}

	return Cadence{Count: count, Unit: unit}, nil
}

// Duration returns the bucket width.
func (c Cadence) Duration() time.Duration {
	return time.Duration(c.Count) * c.Unit
}

// Token returns the compact form of the cadence ("15m", "1h", "1d"), used
// when deriving aggregated output filenames.
func (c Cadence) Token() string {
	var suffix string
	switch c.Unit {
	case time.Minute:
		suffix = "m"
	case time.Hour:
		suffix = "h"
	default:
		suffix = "d"
	}
	return strconv.Itoa(c.Count) + suffix
}

func (c Cadence) String() string {
	return c.Token()
}

// BucketEnd returns the right edge of the bucket containing t: the next
// cadence boundary at or after t. A reading exactly on a boundary belongs
// to the bucket ending there, so a bucket labeled 13:00 with a one hour
// cadence covers (12:00, 13:00].
func (c Cadence) BucketEnd(t time.Time) time.Time {
	end := t.Truncate(c.Duration())
	if end.Before(t) {
		end = end.Add(c.Duration())
	}
	return end
}
