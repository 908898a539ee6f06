package versioning

import (
	"time"

	"netdesign/domain/presentation"
	pkgerrors "netdesign/pkg/errors"
)

// Snapshot is one immutable entry of a timeline: a document clone owned by
// the timeline plus the order and visibility keyed by that clone's layers.
type Snapshot[D Document[D]] struct {
	document   D
	order      presentation.LayerOrder
	visibility presentation.Visibility
	capturedAt time.Time
	fromBackup bool
}

// Document returns the stored clone. It must be treated as read-only;
// documents that support freezing reject edits.
func (s *Snapshot[D]) Document() D {
	return s.document
}

// Order returns the visualization order of the snapshot's layers
func (s *Snapshot[D]) Order() presentation.LayerOrder {
	return s.order
}

// Visibility returns the visibility flags of the snapshot's layers
func (s *Snapshot[D]) Visibility() presentation.Visibility {
	return s.visibility
}

// Parts returns the (document, order, visibility) triple
func (s *Snapshot[D]) Parts() (D, presentation.LayerOrder, presentation.Visibility) {
	return s.document, s.order, s.visibility
}

// CapturedAt returns when the snapshot was taken
func (s *Snapshot[D]) CapturedAt() time.Time {
	return s.capturedAt
}

// FromBackup reports whether the snapshot entered the timeline as the
// restored pre-edit state of a discarded branch.
func (s *Snapshot[D]) FromBackup() bool {
	return s.fromBackup
}

// LayerCount returns the number of layers in the stored document
func (s *Snapshot[D]) LayerCount() int {
	return s.order.Len()
}

// Restoration is an editable copy of a snapshot, ready to become the live
// state of an editor.
type Restoration[D Document[D]] struct {
	Document   D
	Order      presentation.LayerOrder
	Visibility presentation.Visibility
}

// Checkout clones the stored document and re-keys the presentation onto the
// clone's layers. The result shares nothing with the snapshot.
func (s *Snapshot[D]) Checkout() (Restoration[D], error) {
	clone, err := s.document.Clone()
	if err != nil {
		return Restoration[D]{}, err
	}

	from, to := s.document.Layers(), clone.Layers()
	order, err := s.order.Rekey(from, to)
	if err != nil {
		return Restoration[D]{}, pkgerrors.Wrap(err, "checkout visualization order")
	}
	visibility, err := s.visibility.Rekey(from, to)
	if err != nil {
		return Restoration[D]{}, pkgerrors.Wrap(err, "checkout layer visibility")
	}

	return Restoration[D]{Document: clone, Order: order, Visibility: visibility}, nil
}
