package aggregates

import (
	"fmt"
	"strings"

	"netdesign/domain/core/entities"
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// Layers returns the handles of all layers, in index order. Handles are
// positional: removing a layer shifts the handles of the layers after it.
func (d *Design) Layers() []valueobjects.LayerHandle {
	handles := make([]valueobjects.LayerHandle, len(d.layers))
	for i := range d.layers {
		handles[i] = valueobjects.NewLayerHandle(d.instance, i)
	}
	return handles
}

// LayerCount returns the number of layers
func (d *Design) LayerCount() int {
	return len(d.layers)
}

// Owns reports whether h was produced by this design instance and still
// points at one of its layers.
func (d *Design) Owns(h valueobjects.LayerHandle) bool {
	_, err := d.layerIndex(h)
	return err == nil
}

// LayerAt returns the handle of the layer at the given index
func (d *Design) LayerAt(index int) (valueobjects.LayerHandle, error) {
	if index < 0 || index >= len(d.layers) {
		return valueobjects.LayerHandle{}, pkgerrors.NewNotFoundError(fmt.Sprintf("layer at index %d", index))
	}
	return valueobjects.NewLayerHandle(d.instance, index), nil
}

// LayerHandleOf resolves a stable LayerID to this instance's handle
func (d *Design) LayerHandleOf(id valueobjects.LayerID) (valueobjects.LayerHandle, error) {
	i, ok := d.layerIdx[id]
	if !ok {
		return valueobjects.LayerHandle{}, pkgerrors.NewNotFoundError("layer " + id.String())
	}
	return valueobjects.NewLayerHandle(d.instance, i), nil
}

// LayerByName returns the handle of the first layer with the given name
func (d *Design) LayerByName(name string) (valueobjects.LayerHandle, error) {
	for i, l := range d.layers {
		if l.Name == name {
			return valueobjects.NewLayerHandle(d.instance, i), nil
		}
	}
	return valueobjects.LayerHandle{}, pkgerrors.NewNotFoundError("layer " + name)
}

// Layer returns a copy of the layer behind h
func (d *Design) Layer(h valueobjects.LayerHandle) (entities.Layer, error) {
	i, err := d.layerIndex(h)
	if err != nil {
		return entities.Layer{}, err
	}
	return d.layers[i].Clone(), nil
}

// AddLayer appends a new layer and returns its handle
func (d *Design) AddLayer(name, description string) (valueobjects.LayerHandle, error) {
	if err := d.ensureMutable("add layer"); err != nil {
		return valueobjects.LayerHandle{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return valueobjects.LayerHandle{}, pkgerrors.NewValidationError("layer name is required")
	}
	if !withinLimit(len(d.layers), d.limits.MaxLayers) {
		return valueobjects.LayerHandle{}, pkgerrors.NewValidationError("maximum layers reached").
			WithDetail("limit", d.limits.MaxLayers)
	}
	if err := d.checkLayerName(name, valueobjects.LayerID{}); err != nil {
		return valueobjects.LayerHandle{}, err
	}

	i := d.appendLayer(entities.Layer{
		ID:                 valueobjects.NewLayerID(),
		Name:               name,
		Description:        description,
		DemandTrafficUnits: "Gbps",
		LinkCapacityUnits:  "Gbps",
	})
	d.touch()
	return valueobjects.NewLayerHandle(d.instance, i), nil
}

// UpdateLayer applies fn to a copy of the layer and stores the result if it
// is still valid. The layer ID cannot change.
func (d *Design) UpdateLayer(h valueobjects.LayerHandle, fn func(*entities.Layer) error) error {
	if err := d.ensureMutable("update layer"); err != nil {
		return err
	}
	i, err := d.layerIndex(h)
	if err != nil {
		return err
	}

	updated := d.layers[i].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if updated.ID != d.layers[i].ID {
		return pkgerrors.NewValidationError("layer ID cannot change")
	}
	if strings.TrimSpace(updated.Name) == "" {
		return pkgerrors.NewValidationError("layer name is required")
	}
	if err := d.checkLayerName(updated.Name, updated.ID); err != nil {
		return err
	}

	d.layers[i] = updated
	d.touch()
	return nil
}

// RemoveLayer removes a layer together with all of its links and demands.
// The last remaining layer cannot be removed.
func (d *Design) RemoveLayer(h valueobjects.LayerHandle) error {
	if err := d.ensureMutable("remove layer"); err != nil {
		return err
	}
	i, err := d.layerIndex(h)
	if err != nil {
		return err
	}
	if len(d.layers) == 1 {
		return pkgerrors.NewValidationError("a design needs at least one layer")
	}

	layerID := d.layers[i].ID
	d.links, _ = removeWhere(d.links, func(l entities.Link) bool { return l.Layer == layerID })
	d.demands, _ = removeWhere(d.demands, func(dm entities.Demand) bool { return dm.Layer == layerID })
	d.layers, _ = removeWhere(d.layers, func(l entities.Layer) bool { return l.ID == layerID })

	d.rebuildIndexes()
	d.touch()
	return nil
}

// checkLayerName rejects a name already used by a layer other than self
func (d *Design) checkLayerName(name string, self valueobjects.LayerID) error {
	for _, l := range d.layers {
		if l.Name == name && l.ID != self {
			return pkgerrors.NewConflictError("layer " + name + " already exists").WithDetail("name", name)
		}
	}
	return nil
}

func (d *Design) appendLayer(layer entities.Layer) int {
	d.layers = append(d.layers, layer)
	i := len(d.layers) - 1
	d.layerIdx[layer.ID] = i
	return i
}

func (d *Design) layerIndex(h valueobjects.LayerHandle) (int, error) {
	if h.Instance() != d.instance {
		return -1, pkgerrors.NewValidationError("layer handle belongs to another design instance")
	}
	if h.Index() < 0 || h.Index() >= len(d.layers) {
		return -1, pkgerrors.NewNotFoundError(h.String())
	}
	return h.Index(), nil
}

func (d *Design) rebuildIndexes() {
	d.layerIdx = reindex(d.layers, func(l entities.Layer) valueobjects.LayerID { return l.ID })
	d.nodeIdx = reindex(d.nodes, func(n entities.Node) valueobjects.NodeID { return n.ID })
	d.linkIdx = reindex(d.links, func(l entities.Link) valueobjects.LinkID { return l.ID })
	d.demandIdx = reindex(d.demands, func(dm entities.Demand) valueobjects.DemandID { return dm.ID })
}
