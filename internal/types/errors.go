package types

import "fmt"

// SchemaError indicates that a required column or property is absent from
// an input. It is fatal: the run aborts and no output is written.
type SchemaError struct {
	Input  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input %s: required column %q not found", e.Input, e.Column)
}

// NoMatchingDevicesError indicates that no raw reading belongs to any device
// known to the metadata registry. It is fatal: the run aborts and no output
// is written.
type NoMatchingDevicesError struct {
	RawDevices   int
	KnownDevices int
}

func (e *NoMatchingDevicesError) Error() string {
	return fmt.Sprintf("no overlap between %d raw device ids and %d metadata device ids", e.RawDevices, e.KnownDevices)
}
