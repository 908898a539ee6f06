package versioning

import (
	"fmt"
	"time"

	"netdesign/domain/core/valueobjects"
	"netdesign/domain/presentation"
	pkgerrors "netdesign/pkg/errors"
)

// SnapshotFactory builds snapshots from a live document
type SnapshotFactory[D Document[D]] struct {
	now func() time.Time
}

// NewSnapshotFactory creates a factory stamping snapshots with clock.
// A nil clock means time.Now.
func NewSnapshotFactory[D Document[D]](clock func() time.Time) *SnapshotFactory[D] {
	if clock == nil {
		clock = time.Now
	}
	return &SnapshotFactory[D]{now: clock}
}

// Capture clones doc and records, for every layer of the clone, the order
// and visibility that src reports for the corresponding layer of doc.
// Nothing is returned on failure.
func (f *SnapshotFactory[D]) Capture(doc D, src PresentationSource) (*Snapshot[D], error) {
	return f.capture(doc, doc.Layers(), src)
}

// captureFrom clones dest's document but reads the presentation from src
// through the live layers. When the layer counts differ the presentation
// stored in dest is carried over instead.
func (f *SnapshotFactory[D]) captureFrom(dest *Snapshot[D], live []valueobjects.LayerHandle, src PresentationSource) (*Snapshot[D], error) {
	if len(live) == dest.LayerCount() {
		return f.capture(dest.document, live, src)
	}

	r, err := dest.Checkout()
	if err != nil {
		return nil, err
	}
	freeze(r.Document)
	return &Snapshot[D]{
		document:   r.Document,
		order:      r.Order,
		visibility: r.Visibility,
		capturedAt: f.now(),
	}, nil
}

// capture clones content; layer i of the clone takes its presentation from
// source layer i.
func (f *SnapshotFactory[D]) capture(content D, source []valueobjects.LayerHandle, src PresentationSource) (*Snapshot[D], error) {
	clone, err := content.Clone()
	if err != nil {
		return nil, err
	}

	layers := clone.Layers()
	if len(layers) != len(source) {
		return nil, pkgerrors.NewInternalError(
			fmt.Sprintf("clone has %d layers, source has %d", len(layers), len(source)))
	}

	ranks := make(map[valueobjects.LayerHandle]int, len(layers))
	flags := make(map[valueobjects.LayerHandle]bool, len(layers))
	for i, layer := range layers {
		ranks[layer] = src.VisualizationOrder(source[i])
		flags[layer] = src.IsLayerVisible(source[i])
	}

	order, err := presentation.NewLayerOrder(ranks)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "capture visualization order")
	}

	freeze(clone)
	return &Snapshot[D]{
		document:   clone,
		order:      order,
		visibility: presentation.NewVisibility(flags),
		capturedAt: f.now(),
	}, nil
}

func freeze(doc any) {
	if fz, ok := doc.(freezer); ok {
		fz.Freeze()
	}
}
