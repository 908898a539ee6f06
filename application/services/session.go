package services

import (
	"netdesign/domain/core/aggregates"
	"netdesign/domain/core/valueobjects"
	"netdesign/domain/presentation"
	pkgerrors "netdesign/pkg/errors"
)

// Session owns the live design together with its presentation state and
// the simulation flag. It is the DocumentSource and PresentationSource the
// history service reads from.
type Session struct {
	design     *aggregates.Design
	view       *presentation.VisualizationState
	simulating bool

	// layers maps the handles the view is keyed by to their stable IDs,
	// as of the last time the view and the design were in step
	layers map[valueobjects.LayerHandle]valueobjects.LayerID
}

// NewSession starts a session on design with every layer visible
func NewSession(design *aggregates.Design) *Session {
	s := &Session{
		design: design,
		view:   presentation.NewVisualizationState(design.Layers()),
	}
	s.remember()
	return s
}

// CurrentDesign returns the live design
func (s *Session) CurrentDesign() *aggregates.Design {
	return s.design
}

// View returns the live presentation state
func (s *Session) View() *presentation.VisualizationState {
	return s.view
}

// HistorySuspended is true while a simulation runs
func (s *Session) HistorySuspended() bool {
	return s.simulating
}

// Simulating reports whether a simulation is running
func (s *Session) Simulating() bool {
	return s.simulating
}

// SetSimulation turns simulation mode on or off
func (s *Session) SetSimulation(on bool) {
	s.simulating = on
}

func (s *Session) VisualizationOrder(layer valueobjects.LayerHandle) int {
	return s.view.VisualizationOrder(layer)
}

func (s *Session) IsLayerVisible(layer valueobjects.LayerHandle) bool {
	return s.view.IsLayerVisible(layer)
}

// Sync brings the presentation in line with the design's layers. Handles
// are positional, so the view is first moved onto the handles the layers
// have now, matched by LayerID: removing a layer drops its presentation
// instead of passing it on to the layer that took its index.
func (s *Session) Sync() {
	moved := make(map[valueobjects.LayerHandle]valueobjects.LayerHandle, len(s.layers))
	for h, id := range s.layers {
		if now, err := s.design.LayerHandleOf(id); err == nil {
			moved[h] = now
		}
	}
	s.view.Remap(moved)
	s.view.Sync(s.design.Layers())
	s.remember()
}

func (s *Session) remember() {
	s.layers = make(map[valueobjects.LayerHandle]valueobjects.LayerID, s.design.LayerCount())
	for _, h := range s.design.Layers() {
		if layer, err := s.design.Layer(h); err == nil {
			s.layers[h] = layer.ID
		}
	}
}

// Load replaces the live design and resets the presentation
func (s *Session) Load(design *aggregates.Design) error {
	if design == nil {
		return pkgerrors.NewValidationError("design is required")
	}
	if design.Frozen() {
		return pkgerrors.NewFrozenError("load design")
	}
	s.design = design
	s.view = presentation.NewVisualizationState(design.Layers())
	s.remember()
	return nil
}

// Apply makes a restored snapshot the live state
func (s *Session) Apply(r DesignRestoration) error {
	if err := s.check(r); err != nil {
		return err
	}

	view := presentation.NewVisualizationState(nil)
	if err := view.Adopt(r.Order, r.Visibility); err != nil {
		return err
	}
	s.design = r.Document
	s.view = view
	s.remember()
	return nil
}

// check reports whether Apply would accept r
func (s *Session) check(r DesignRestoration) error {
	if r.Document == nil {
		return pkgerrors.NewValidationError("restoration has no design")
	}
	layers := r.Document.Layers()
	if !r.Order.Covers(layers) {
		return pkgerrors.NewInvariantError("restored order does not match the restored design")
	}
	if !r.Visibility.Covers(layers) {
		return pkgerrors.NewInvariantError("restored visibility does not match the restored design")
	}
	return nil
}
