// Package presentation holds the per-layer display metadata that travels
// with every history snapshot: the canvas visualization order and the layer
// visibility flags.
package presentation

import (
	"fmt"
	"sort"

	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// LayerOrder is an immutable bijection between layer handles and canvas
// ranks 0..L-1. It keeps the forward map and the inverse permutation array
// side by side.
type LayerOrder struct {
	rank   map[valueobjects.LayerHandle]int
	layers []valueobjects.LayerHandle
}

// NewLayerOrder validates that ranks form a permutation of 0..len(ranks)-1
// and builds the bijection.
func NewLayerOrder(ranks map[valueobjects.LayerHandle]int) (LayerOrder, error) {
	o := LayerOrder{
		rank:   make(map[valueobjects.LayerHandle]int, len(ranks)),
		layers: make([]valueobjects.LayerHandle, len(ranks)),
	}
	seen := make([]bool, len(ranks))
	for h, r := range ranks {
		if r < 0 || r >= len(ranks) {
			return LayerOrder{}, pkgerrors.NewValidationError(
				fmt.Sprintf("visualization order %d of %s is outside 0..%d", r, h, len(ranks)-1))
		}
		if seen[r] {
			return LayerOrder{}, pkgerrors.NewValidationError(
				fmt.Sprintf("visualization order %d is assigned to more than one layer", r))
		}
		seen[r] = true
		o.rank[h] = r
		o.layers[r] = h
	}
	return o, nil
}

// Len returns the number of layers in the order
func (o LayerOrder) Len() int {
	return len(o.layers)
}

// Rank returns the visualization order of a layer
func (o LayerOrder) Rank(h valueobjects.LayerHandle) (int, bool) {
	r, ok := o.rank[h]
	return r, ok
}

// LayerAt returns the layer drawn at the given rank
func (o LayerOrder) LayerAt(rank int) (valueobjects.LayerHandle, bool) {
	if rank < 0 || rank >= len(o.layers) {
		return valueobjects.LayerHandle{}, false
	}
	return o.layers[rank], true
}

// Layers returns the layers sorted by rank
func (o LayerOrder) Layers() []valueobjects.LayerHandle {
	out := make([]valueobjects.LayerHandle, len(o.layers))
	copy(out, o.layers)
	return out
}

// Ranks returns a copy of the layer->rank mapping
func (o LayerOrder) Ranks() map[valueobjects.LayerHandle]int {
	out := make(map[valueobjects.LayerHandle]int, len(o.rank))
	for h, r := range o.rank {
		out[h] = r
	}
	return out
}

// Rekey maps the order onto another document instance. from and to list the
// layers of the two instances in index order and must have equal length;
// layers correspond positionally.
func (o LayerOrder) Rekey(from, to []valueobjects.LayerHandle) (LayerOrder, error) {
	mapping, err := positional(from, to)
	if err != nil {
		return LayerOrder{}, err
	}
	ranks := make(map[valueobjects.LayerHandle]int, len(o.rank))
	for h, r := range o.rank {
		target, ok := mapping[h]
		if !ok {
			return LayerOrder{}, pkgerrors.NewValidationError(h.String() + " is not among the source layers")
		}
		ranks[target] = r
	}
	return NewLayerOrder(ranks)
}

// Covers reports whether the order has exactly the given layers as keys.
func (o LayerOrder) Covers(layers []valueobjects.LayerHandle) bool {
	if len(layers) != len(o.rank) {
		return false
	}
	for _, h := range layers {
		if _, ok := o.rank[h]; !ok {
			return false
		}
	}
	return true
}

func positional(from, to []valueobjects.LayerHandle) (map[valueobjects.LayerHandle]valueobjects.LayerHandle, error) {
	if len(from) != len(to) {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("layer count mismatch: %d source layers, %d target layers", len(from), len(to)))
	}
	m := make(map[valueobjects.LayerHandle]valueobjects.LayerHandle, len(from))
	for i := range from {
		m[from[i]] = to[i]
	}
	return m, nil
}

func sortedByIndex(layers []valueobjects.LayerHandle) []valueobjects.LayerHandle {
	out := make([]valueobjects.LayerHandle, len(layers))
	copy(out, layers)
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}
