package ports

import (
	"time"

	"netdesign/domain/core/aggregates"
	"netdesign/domain/core/valueobjects"
)

// DocumentSource gives the history service the design currently being
// edited. This is a port in hexagonal architecture - the history does not
// know who owns the live design.
type DocumentSource interface {
	// CurrentDesign returns the live, editable design
	CurrentDesign() *aggregates.Design

	// HistorySuspended reports whether edits must not be recorded,
	// e.g. while a simulation is running
	HistorySuspended() bool
}

// PresentationSource resolves presentation metadata against the layers of
// the live design
type PresentationSource interface {
	// VisualizationOrder returns the canvas rank of a layer
	VisualizationOrder(layer valueobjects.LayerHandle) int

	// IsLayerVisible reports whether a layer is drawn
	IsLayerVisible(layer valueobjects.LayerHandle) bool
}

// HistoryMetrics records what the history service does
type HistoryMetrics interface {
	SnapshotCommitted(capture time.Duration)
	CommitSkipped(reason string)
	SnapshotsEvicted(n int)
	BranchDiscarded(snapshots int)
	Navigation(direction string, moved bool)
	TimelineState(length, cursor int)
}
