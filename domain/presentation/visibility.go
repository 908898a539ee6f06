package presentation

import (
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// Visibility is an immutable layer->visible mapping.
type Visibility struct {
	visible map[valueobjects.LayerHandle]bool
}

// NewVisibility copies flags into a Visibility
func NewVisibility(flags map[valueobjects.LayerHandle]bool) Visibility {
	v := Visibility{visible: make(map[valueobjects.LayerHandle]bool, len(flags))}
	for h, on := range flags {
		v.visible[h] = on
	}
	return v
}

// Len returns the number of layers covered
func (v Visibility) Len() int {
	return len(v.visible)
}

// IsVisible returns the flag of a layer; ok is false for unknown layers
func (v Visibility) IsVisible(h valueobjects.LayerHandle) (visible, ok bool) {
	visible, ok = v.visible[h]
	return visible, ok
}

// Flags returns a copy of the mapping
func (v Visibility) Flags() map[valueobjects.LayerHandle]bool {
	out := make(map[valueobjects.LayerHandle]bool, len(v.visible))
	for h, on := range v.visible {
		out[h] = on
	}
	return out
}

// Covers reports whether the mapping has exactly the given layers as keys.
func (v Visibility) Covers(layers []valueobjects.LayerHandle) bool {
	if len(layers) != len(v.visible) {
		return false
	}
	for _, h := range layers {
		if _, ok := v.visible[h]; !ok {
			return false
		}
	}
	return true
}

// Rekey maps the flags onto another document instance, positionally.
func (v Visibility) Rekey(from, to []valueobjects.LayerHandle) (Visibility, error) {
	mapping, err := positional(from, to)
	if err != nil {
		return Visibility{}, err
	}
	out := Visibility{visible: make(map[valueobjects.LayerHandle]bool, len(v.visible))}
	for h, on := range v.visible {
		target, ok := mapping[h]
		if !ok {
			return Visibility{}, pkgerrors.NewValidationError(h.String() + " is not among the source layers")
		}
		out.visible[target] = on
	}
	return out, nil
}
