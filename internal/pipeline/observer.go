package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// Observer receives structured progress events from the pipelines. Core
// transform functions report through an Observer and never print; the
// default implementation logs through zap.
type Observer interface {
	// Registry events
	CutoffDerived(deviceID string, installDate, cutoff time.Time)
	CutoffMissing(deviceID string)
	CutoffUnparseable(deviceID string, raw string, err error)

	// Filter events
	RowsFiltered(stage string, before, after int)
	PreInstallRemoved(deviceID string, removed, kept int)

	// Aggregation and writer events
	Aggregated(stage string, rows int, cadence string)
	EmptyAggregation(stage string)
	MemoryOptimized(beforeBytes, afterBytes int)
	ArtifactWritten(path string, rows int)
}

// LogObserver logs pipeline events through a zap sugared logger.
type LogObserver struct {
	log *zap.SugaredLogger
}

// NewLogObserver creates an observer that logs through the given logger.
func NewLogObserver(log *zap.SugaredLogger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) CutoffDerived(deviceID string, installDate, cutoff time.Time) {
	o.log.Infow("derived installation cutoff",
		"device", deviceID,
		"installed", installDate.Format("2006-01-02"),
		"cutoff", cutoff.Format(time.RFC3339))
}

func (o *LogObserver) CutoffMissing(deviceID string) {
	o.log.Warnw("no installation date for device", "device", deviceID)
}

func (o *LogObserver) CutoffUnparseable(deviceID string, raw string, err error) {
	o.log.Warnw("unparseable installation date, device proceeds unfiltered",
		"device", deviceID, "value", raw, "error", err)
}

func (o *LogObserver) RowsFiltered(stage string, before, after int) {
	retained := 100.0
	if before > 0 {
		retained = float64(after) / float64(before) * 100
	}
	o.log.Infow("filtered rows", "stage", stage, "before", before, "after", after,
		"retained_pct", retained)
}

func (o *LogObserver) PreInstallRemoved(deviceID string, removed, kept int) {
	o.log.Infow("removed pre-installation readings",
		"device", deviceID, "removed", removed, "kept", kept)
}

func (o *LogObserver) Aggregated(stage string, rows int, cadence string) {
	o.log.Infow("aggregation complete", "stage", stage, "rows", rows, "cadence", cadence)
}

func (o *LogObserver) EmptyAggregation(stage string) {
	o.log.Warnw("aggregation produced no rows, nothing to write", "stage", stage)
}

func (o *LogObserver) MemoryOptimized(beforeBytes, afterBytes int) {
	saved := beforeBytes - afterBytes
	pct := 0.0
	if beforeBytes > 0 {
		pct = float64(saved) / float64(beforeBytes) * 100
	}
	o.log.Infow("memory optimization", "before_bytes", beforeBytes,
		"after_bytes", afterBytes, "saved_pct", pct)
}

func (o *LogObserver) ArtifactWritten(path string, rows int) {
	o.log.Infow("artifact written", "path", path, "rows", rows)
}

// CaptureObserver records events for inspection in tests.
type CaptureObserver struct {
	Cutoffs         map[string]time.Time
	MissingCutoffs  []string
	ParseFailures   []string
	FilterStages    map[string][2]int
	RemovedByDevice map[string]int
	AggregatedRows  int
	EmptyStages     []string
	MemoryBefore    int
	MemoryAfter     int
	Artifacts       map[string]int
}

// NewCaptureObserver creates an empty capture observer.
func NewCaptureObserver() *CaptureObserver {
	return &CaptureObserver{
		Cutoffs:         make(map[string]time.Time),
		FilterStages:    make(map[string][2]int),
		RemovedByDevice: make(map[string]int),
		Artifacts:       make(map[string]int),
	}
}

func (o *CaptureObserver) CutoffDerived(deviceID string, installDate, cutoff time.Time) {
	o.Cutoffs[deviceID] = cutoff
}

func (o *CaptureObserver) CutoffMissing(deviceID string) {
	o.MissingCutoffs = append(o.MissingCutoffs, deviceID)
}

func (o *CaptureObserver) CutoffUnparseable(deviceID string, raw string, err error) {
	o.ParseFailures = append(o.ParseFailures, deviceID)
}

func (o *CaptureObserver) RowsFiltered(stage string, before, after int) {
	o.FilterStages[stage] = [2]int{before, after}
}

func (o *CaptureObserver) PreInstallRemoved(deviceID string, removed, kept int) {
	o.RemovedByDevice[deviceID] = removed
}

func (o *CaptureObserver) Aggregated(stage string, rows int, cadence string) {
	o.AggregatedRows = rows
}

func (o *CaptureObserver) EmptyAggregation(stage string) {
	o.EmptyStages = append(o.EmptyStages, stage)
}

func (o *CaptureObserver) MemoryOptimized(beforeBytes, afterBytes int) {
	o.MemoryBefore = beforeBytes
	o.MemoryAfter = afterBytes
}

func (o *CaptureObserver) ArtifactWritten(path string, rows int) {
	o.Artifacts[path] = rows
}
