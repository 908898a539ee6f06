package aggregates

import (
	"math"
	"strings"

	"netdesign/domain/core/entities"
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// Nodes

// AddNode adds a node at the given position
func (d *Design) AddNode(name string, position valueobjects.Position) (valueobjects.NodeID, error) {
	if err := d.ensureMutable("add node"); err != nil {
		return valueobjects.NodeID{}, err
	}
	if !withinLimit(len(d.nodes), d.limits.MaxNodes) {
		return valueobjects.NodeID{}, pkgerrors.NewValidationError("maximum nodes reached").
			WithDetail("limit", d.limits.MaxNodes)
	}

	node := entities.Node{
		ID:       valueobjects.NewNodeID(),
		Name:     strings.TrimSpace(name),
		Position: position,
		Up:       true,
	}
	if err := d.checkNode(node); err != nil {
		return valueobjects.NodeID{}, err
	}
	if err := d.checkNodeName(node.Name, node.ID); err != nil {
		return valueobjects.NodeID{}, err
	}

	d.nodes = append(d.nodes, node)
	d.nodeIdx[node.ID] = len(d.nodes) - 1
	d.touch()
	return node.ID, nil
}

// Node returns a copy of a node
func (d *Design) Node(id valueobjects.NodeID) (entities.Node, error) {
	i, ok := d.nodeIdx[id]
	if !ok {
		return entities.Node{}, pkgerrors.NewNotFoundError("node " + id.String())
	}
	return d.nodes[i].Clone(), nil
}

// NodeByName returns the ID of the first node with the given name
func (d *Design) NodeByName(name string) (valueobjects.NodeID, error) {
	for _, n := range d.nodes {
		if n.Name == name {
			return n.ID, nil
		}
	}
	return valueobjects.NodeID{}, pkgerrors.NewNotFoundError("node " + name)
}

// Nodes returns copies of all nodes in insertion order
func (d *Design) Nodes() []entities.Node {
	return cloneAll(d.nodes, entities.Node.Clone)
}

// NodeCount returns the number of nodes
func (d *Design) NodeCount() int {
	return len(d.nodes)
}

// UpdateNode applies fn to a copy of the node and stores it if still valid
func (d *Design) UpdateNode(id valueobjects.NodeID, fn func(*entities.Node) error) error {
	if err := d.ensureMutable("update node"); err != nil {
		return err
	}
	i, ok := d.nodeIdx[id]
	if !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}

	updated := d.nodes[i].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if updated.ID != id {
		return pkgerrors.NewValidationError("node ID cannot change")
	}
	if err := d.checkNode(updated); err != nil {
		return err
	}
	if err := d.checkNodeName(updated.Name, id); err != nil {
		return err
	}

	d.nodes[i] = updated
	d.touch()
	return nil
}

// RemoveNode removes a node and every link and demand attached to it
func (d *Design) RemoveNode(id valueobjects.NodeID) error {
	if err := d.ensureMutable("remove node"); err != nil {
		return err
	}
	if _, ok := d.nodeIdx[id]; !ok {
		return pkgerrors.NewNotFoundError("node " + id.String())
	}

	d.links, _ = removeWhere(d.links, func(l entities.Link) bool { return l.Touches(id) })
	d.demands, _ = removeWhere(d.demands, func(dm entities.Demand) bool { return dm.Touches(id) })
	d.nodes, _ = removeWhere(d.nodes, func(n entities.Node) bool { return n.ID == id })

	d.rebuildIndexes()
	d.touch()
	return nil
}

// Links

// AddLink adds a unidirectional link in the given layer
func (d *Design) AddLink(layer valueobjects.LayerHandle, origin, destination valueobjects.NodeID, capacity, lengthKm float64) (valueobjects.LinkID, error) {
	if err := d.ensureMutable("add link"); err != nil {
		return valueobjects.LinkID{}, err
	}
	li, err := d.layerIndex(layer)
	if err != nil {
		return valueobjects.LinkID{}, err
	}
	if !withinLimit(len(d.links), d.limits.MaxLinks) {
		return valueobjects.LinkID{}, pkgerrors.NewValidationError("maximum links reached").
			WithDetail("limit", d.limits.MaxLinks)
	}

	link := entities.Link{
		ID:          valueobjects.NewLinkID(),
		Layer:       d.layers[li].ID,
		Origin:      origin,
		Destination: destination,
		Capacity:    capacity,
		LengthKm:    lengthKm,
		Up:          true,
	}
	if err := d.checkLink(link); err != nil {
		return valueobjects.LinkID{}, err
	}

	d.links = append(d.links, link)
	d.linkIdx[link.ID] = len(d.links) - 1
	d.touch()
	return link.ID, nil
}

// Link returns a copy of a link
func (d *Design) Link(id valueobjects.LinkID) (entities.Link, error) {
	i, ok := d.linkIdx[id]
	if !ok {
		return entities.Link{}, pkgerrors.NewNotFoundError("link " + id.String())
	}
	return d.links[i].Clone(), nil
}

// Links returns copies of all links in insertion order
func (d *Design) Links() []entities.Link {
	return cloneAll(d.links, entities.Link.Clone)
}

// LinkCount returns the number of links across all layers
func (d *Design) LinkCount() int {
	return len(d.links)
}

// UpdateLink applies fn to a copy of the link and stores it if still valid
func (d *Design) UpdateLink(id valueobjects.LinkID, fn func(*entities.Link) error) error {
	if err := d.ensureMutable("update link"); err != nil {
		return err
	}
	i, ok := d.linkIdx[id]
	if !ok {
		return pkgerrors.NewNotFoundError("link " + id.String())
	}

	updated := d.links[i].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if updated.ID != id {
		return pkgerrors.NewValidationError("link ID cannot change")
	}
	if err := d.checkLink(updated); err != nil {
		return err
	}

	d.links[i] = updated
	d.touch()
	return nil
}

// RemoveLink removes a link
func (d *Design) RemoveLink(id valueobjects.LinkID) error {
	if err := d.ensureMutable("remove link"); err != nil {
		return err
	}
	if _, ok := d.linkIdx[id]; !ok {
		return pkgerrors.NewNotFoundError("link " + id.String())
	}

	d.links, _ = removeWhere(d.links, func(l entities.Link) bool { return l.ID == id })
	d.linkIdx = reindex(d.links, func(l entities.Link) valueobjects.LinkID { return l.ID })
	d.touch()
	return nil
}

// Demands

// AddDemand adds an offered traffic demand in the given layer
func (d *Design) AddDemand(layer valueobjects.LayerHandle, ingress, egress valueobjects.NodeID, offeredTraffic float64) (valueobjects.DemandID, error) {
	if err := d.ensureMutable("add demand"); err != nil {
		return valueobjects.DemandID{}, err
	}
	li, err := d.layerIndex(layer)
	if err != nil {
		return valueobjects.DemandID{}, err
	}
	if !withinLimit(len(d.demands), d.limits.MaxDemands) {
		return valueobjects.DemandID{}, pkgerrors.NewValidationError("maximum demands reached").
			WithDetail("limit", d.limits.MaxDemands)
	}

	demand := entities.Demand{
		ID:             valueobjects.NewDemandID(),
		Layer:          d.layers[li].ID,
		Ingress:        ingress,
		Egress:         egress,
		OfferedTraffic: offeredTraffic,
	}
	if err := d.checkDemand(demand); err != nil {
		return valueobjects.DemandID{}, err
	}

	d.demands = append(d.demands, demand)
	d.demandIdx[demand.ID] = len(d.demands) - 1
	d.touch()
	return demand.ID, nil
}

// Demand returns a copy of a demand
func (d *Design) Demand(id valueobjects.DemandID) (entities.Demand, error) {
	i, ok := d.demandIdx[id]
	if !ok {
		return entities.Demand{}, pkgerrors.NewNotFoundError("demand " + id.String())
	}
	return d.demands[i].Clone(), nil
}

// Demands returns copies of all demands in insertion order
func (d *Design) Demands() []entities.Demand {
	return cloneAll(d.demands, entities.Demand.Clone)
}

// DemandCount returns the number of demands across all layers
func (d *Design) DemandCount() int {
	return len(d.demands)
}

// UpdateDemand applies fn to a copy of the demand and stores it if still valid
func (d *Design) UpdateDemand(id valueobjects.DemandID, fn func(*entities.Demand) error) error {
	if err := d.ensureMutable("update demand"); err != nil {
		return err
	}
	i, ok := d.demandIdx[id]
	if !ok {
		return pkgerrors.NewNotFoundError("demand " + id.String())
	}

	updated := d.demands[i].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if updated.ID != id {
		return pkgerrors.NewValidationError("demand ID cannot change")
	}
	if err := d.checkDemand(updated); err != nil {
		return err
	}

	d.demands[i] = updated
	d.touch()
	return nil
}

// RemoveDemand removes a demand
func (d *Design) RemoveDemand(id valueobjects.DemandID) error {
	if err := d.ensureMutable("remove demand"); err != nil {
		return err
	}
	if _, ok := d.demandIdx[id]; !ok {
		return pkgerrors.NewNotFoundError("demand " + id.String())
	}

	d.demands, _ = removeWhere(d.demands, func(dm entities.Demand) bool { return dm.ID == id })
	d.demandIdx = reindex(d.demands, func(dm entities.Demand) valueobjects.DemandID { return dm.ID })
	d.touch()
	return nil
}

// TotalOfferedTraffic sums the offered traffic of the demands in a layer
func (d *Design) TotalOfferedTraffic(layer valueobjects.LayerHandle) (float64, error) {
	li, err := d.layerIndex(layer)
	if err != nil {
		return 0, err
	}
	layerID := d.layers[li].ID
	total := 0.0
	for _, dm := range d.demands {
		if dm.Layer == layerID {
			total += dm.OfferedTraffic
		}
	}
	return total, nil
}

// Element checks shared by add, update and Validate

func (d *Design) checkNode(n entities.Node) error {
	if n.Name == "" {
		return pkgerrors.NewValidationError("node name is required")
	}
	if math.IsNaN(n.Position.X) || math.IsNaN(n.Position.Y) ||
		math.IsInf(n.Position.X, 0) || math.IsInf(n.Position.Y, 0) {
		return pkgerrors.NewValidationError("node position must be finite")
	}
	return nil
}

// checkNodeName rejects a name already used by a node other than self
func (d *Design) checkNodeName(name string, self valueobjects.NodeID) error {
	for _, n := range d.nodes {
		if n.Name == name && n.ID != self {
			return pkgerrors.NewConflictError("node " + name + " already exists").WithDetail("name", name)
		}
	}
	return nil
}

func (d *Design) checkLink(l entities.Link) error {
	if _, ok := d.layerIdx[l.Layer]; !ok {
		return pkgerrors.NewNotFoundError("layer " + l.Layer.String())
	}
	if err := d.checkEndpoints(l.Origin, l.Destination); err != nil {
		return err
	}
	if !isNonNegative(l.Capacity) {
		return pkgerrors.NewValidationError("link capacity must be a non-negative number")
	}
	if !isNonNegative(l.LengthKm) {
		return pkgerrors.NewValidationError("link length must be a non-negative number")
	}
	return nil
}

func (d *Design) checkDemand(dm entities.Demand) error {
	if _, ok := d.layerIdx[dm.Layer]; !ok {
		return pkgerrors.NewNotFoundError("layer " + dm.Layer.String())
	}
	if err := d.checkEndpoints(dm.Ingress, dm.Egress); err != nil {
		return err
	}
	if !isNonNegative(dm.OfferedTraffic) {
		return pkgerrors.NewValidationError("offered traffic must be a non-negative number")
	}
	return nil
}

func (d *Design) checkEndpoints(a, b valueobjects.NodeID) error {
	if _, ok := d.nodeIdx[a]; !ok {
		return pkgerrors.NewNotFoundError("node " + a.String())
	}
	if _, ok := d.nodeIdx[b]; !ok {
		return pkgerrors.NewNotFoundError("node " + b.String())
	}
	if a == b && !d.limits.AllowSelfLoops {
		return pkgerrors.NewValidationError("cannot connect node to itself")
	}
	return nil
}

func isNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
