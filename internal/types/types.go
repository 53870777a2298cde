// Package types defines the core data model shared by the device and
// station pipelines.
package types

import "time"

// SensorReading is a single raw reading reported by a street-level sensor.
// Metric fields are pointers so that a missing measurement can be told apart
// from a measured zero.
type SensorReading struct {
	Time        time.Time
	DeviceID    string
	Temperature *float64
	Humidity    *float64
}

// AggregatedReading is one time bucket of a single device's readings. The
// bucket is labeled at its right edge: a reading at 12:15 with a one hour
// cadence lands in the bucket ending 13:00. Gorm tags are used by the
// optional TimescaleDB sink.
type AggregatedReading struct {
	BucketEnd   time.Time `gorm:"column:time"`
	DeviceID    string    `gorm:"column:dev_id"`
	Temperature *float64  `gorm:"column:temperature"`
	Humidity    *float64  `gorm:"column:humidity"`
}

// TableName customizes the table used by the TimescaleDB sink.
func (AggregatedReading) TableName() string {
	return "aggregated_readings"
}

// StationReading is a single raw observation from an FMI weather station.
// FMISID is the station's numeric identifier and is constant within a
// station's series.
type StationReading struct {
	Time          time.Time
	Station       string
	FMISID        int64
	Temperature   *float64
	Humidity      *float64
	CloudAmount   *float64
	Precipitation *float64
}

// AggregatedStationReading is one time bucket of a single station's
// observations, labeled at the bucket's right edge.
type AggregatedStationReading struct {
	BucketEnd     time.Time
	Station       string
	FMISID        int64
	Temperature   *float64
	Humidity      *float64
	CloudAmount   *float64
	Precipitation *float64
}

// Float64 returns a pointer to v. Convenience for building readings.
func Float64(v float64) *float64 {
	return &v
}
