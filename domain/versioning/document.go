// Package versioning keeps a bounded, branch-pruning undo/redo timeline of
// document snapshots. Every snapshot carries the presentation metadata (layer
// visualization order and visibility) that was in effect when it was taken.
//
// A Timeline is not safe for concurrent use. It is meant to be driven by the
// single owner of the live document.
package versioning

import "netdesign/domain/core/valueobjects"

// Document is anything the timeline can version. Clone must return a fully
// detached copy with its own layer handles, listed by Layers in the same
// positional order as the original's.
type Document[D any] interface {
	Clone() (D, error)
	Layers() []valueobjects.LayerHandle
}

// PresentationSource resolves presentation metadata against the layers of
// the live document.
type PresentationSource interface {
	VisualizationOrder(layer valueobjects.LayerHandle) int
	IsLayerVisible(layer valueobjects.LayerHandle) bool
}

// freezer is implemented by documents that can be made read-only. Stored
// clones are frozen so that a returned snapshot cannot be edited in place.
type freezer interface {
	Freeze()
}
