package aggregates

import (
	"fmt"
	"maps"

	"netdesign/domain/core/entities"
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// Clone returns a fully detached copy of the design. The copy shares no
// mutable state with d, gets its own instance (and therefore its own layer
// handles) and is never frozen. A design whose invariants do not hold
// cannot be cloned.
func (d *Design) Clone() (*Design, error) {
	if err := d.Validate(); err != nil {
		return nil, pkgerrors.NewInvariantError("cannot clone design in an invalid state").WithCause(err)
	}

	c := &Design{
		instance:    valueobjects.NextInstanceID(),
		id:          d.id,
		name:        d.name,
		description: d.description,
		limits:      d.limits,

		layers:  cloneAll(d.layers, entities.Layer.Clone),
		nodes:   cloneAll(d.nodes, entities.Node.Clone),
		links:   cloneAll(d.links, entities.Link.Clone),
		demands: cloneAll(d.demands, entities.Demand.Clone),

		layerIdx:  maps.Clone(d.layerIdx),
		nodeIdx:   maps.Clone(d.nodeIdx),
		linkIdx:   maps.Clone(d.linkIdx),
		demandIdx: maps.Clone(d.demandIdx),

		attributes: d.attributes.Clone(),
		tags:       d.tags.Clone(),

		version:   d.version,
		createdAt: d.createdAt,
		updatedAt: d.updatedAt,
	}
	return c, nil
}

// Validate ensures design invariants
func (d *Design) Validate() error {
	if len(d.layers) == 0 {
		return pkgerrors.NewInvariantError("design has no layers")
	}
	if err := checkIndex("layer", len(d.layers), d.layerIdx, func(i int) any { return d.layers[i].ID }); err != nil {
		return err
	}
	if err := checkIndex("node", len(d.nodes), d.nodeIdx, func(i int) any { return d.nodes[i].ID }); err != nil {
		return err
	}
	if err := checkIndex("link", len(d.links), d.linkIdx, func(i int) any { return d.links[i].ID }); err != nil {
		return err
	}
	if err := checkIndex("demand", len(d.demands), d.demandIdx, func(i int) any { return d.demands[i].ID }); err != nil {
		return err
	}

	for _, n := range d.nodes {
		if err := d.checkNode(n); err != nil {
			return pkgerrors.NewInvariantError("invalid node " + n.ID.String()).WithCause(err)
		}
	}
	for _, l := range d.links {
		if err := d.checkLink(l); err != nil {
			return pkgerrors.NewInvariantError("invalid link " + l.ID.String()).WithCause(err)
		}
	}
	for _, dm := range d.demands {
		if err := d.checkDemand(dm); err != nil {
			return pkgerrors.NewInvariantError("invalid demand " + dm.ID.String()).WithCause(err)
		}
	}
	return nil
}

// checkIndex verifies that an id->position index and its slice agree.
func checkIndex[K comparable](kind string, n int, idx map[K]int, idAt func(int) any) error {
	if len(idx) != n {
		return pkgerrors.NewInvariantError(fmt.Sprintf("%s index has %d entries for %d elements", kind, len(idx), n))
	}
	for id, i := range idx {
		if i < 0 || i >= n || idAt(i) != any(id) {
			return pkgerrors.NewInvariantError(fmt.Sprintf("%s index entry %v points at the wrong element", kind, id))
		}
	}
	return nil
}
