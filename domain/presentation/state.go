package presentation

import (
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// VisualizationState is the mutable, live presentation of the design being
// edited. Ranks include hidden layers: hiding a layer never renumbers the
// others.
//
// It is not safe for concurrent use; it belongs to the editor that owns the
// live design.
type VisualizationState struct {
	order   []valueobjects.LayerHandle
	visible map[valueobjects.LayerHandle]bool
}

// NewVisualizationState shows every layer, ordered by layer index.
func NewVisualizationState(layers []valueobjects.LayerHandle) *VisualizationState {
	s := &VisualizationState{visible: make(map[valueobjects.LayerHandle]bool, len(layers))}
	s.Sync(layers)
	return s
}

// VisualizationOrder returns the rank of a layer, or -1 if the layer is
// unknown.
func (s *VisualizationState) VisualizationOrder(h valueobjects.LayerHandle) int {
	for rank, layer := range s.order {
		if layer == h {
			return rank
		}
	}
	return -1
}

// IsLayerVisible reports whether a layer is drawn. Unknown layers are not.
func (s *VisualizationState) IsLayerVisible(h valueobjects.LayerHandle) bool {
	return s.visible[h]
}

// SetVisible shows or hides a layer
func (s *VisualizationState) SetVisible(h valueobjects.LayerHandle, visible bool) error {
	if _, ok := s.visible[h]; !ok {
		return pkgerrors.NewNotFoundError(h.String())
	}
	s.visible[h] = visible
	return nil
}

// MoveToRank moves a layer to the given rank, shifting the layers in between.
func (s *VisualizationState) MoveToRank(h valueobjects.LayerHandle, rank int) error {
	from := s.VisualizationOrder(h)
	if from < 0 {
		return pkgerrors.NewNotFoundError(h.String())
	}
	if rank < 0 || rank >= len(s.order) {
		return pkgerrors.NewValidationError("rank out of range")
	}

	s.order = append(s.order[:from], s.order[from+1:]...)
	s.order = append(s.order[:rank], append([]valueobjects.LayerHandle{h}, s.order[rank:]...)...)
	return nil
}

// Sync reconciles the state with the layers of the live design: known
// layers keep their relative order and visibility, new layers are appended
// visible, layers that disappeared are dropped.
func (s *VisualizationState) Sync(layers []valueobjects.LayerHandle) {
	present := make(map[valueobjects.LayerHandle]bool, len(layers))
	for _, h := range layers {
		present[h] = true
	}

	order := make([]valueobjects.LayerHandle, 0, len(layers))
	for _, h := range s.order {
		if present[h] {
			order = append(order, h)
		}
	}
	for h := range s.visible {
		if !present[h] {
			delete(s.visible, h)
		}
	}
	for _, h := range sortedByIndex(layers) {
		if _, known := s.visible[h]; !known {
			order = append(order, h)
			s.visible[h] = true
		}
	}
	s.order = order
}

// Remap moves the state onto new handles for the same layers, keeping each
// layer's rank and visibility. Layers missing from moved are dropped.
func (s *VisualizationState) Remap(moved map[valueobjects.LayerHandle]valueobjects.LayerHandle) {
	order := make([]valueobjects.LayerHandle, 0, len(s.order))
	visible := make(map[valueobjects.LayerHandle]bool, len(s.order))
	for _, h := range s.order {
		target, ok := moved[h]
		if !ok {
			continue
		}
		order = append(order, target)
		visible[target] = s.visible[h]
	}
	s.order = order
	s.visible = visible
}

// Adopt replaces the state with a restored order and visibility. Both must
// cover the same layers.
func (s *VisualizationState) Adopt(order LayerOrder, visibility Visibility) error {
	if !visibility.Covers(order.Layers()) {
		return pkgerrors.NewValidationError("order and visibility cover different layers")
	}
	s.order = order.Layers()
	s.visible = visibility.Flags()
	return nil
}

// Order returns the current order as an immutable LayerOrder
func (s *VisualizationState) Order() LayerOrder {
	ranks := make(map[valueobjects.LayerHandle]int, len(s.order))
	for rank, h := range s.order {
		ranks[h] = rank
	}
	// s.order is a permutation by construction
	o, _ := NewLayerOrder(ranks)
	return o
}

// Visibility returns the current flags as an immutable Visibility
func (s *VisualizationState) Visibility() Visibility {
	return NewVisibility(s.visible)
}
