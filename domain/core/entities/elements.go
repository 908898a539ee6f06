package entities

import (
	"netdesign/domain/core/valueobjects"
)

// Layer is one technology layer of a multilayer network design (for
// instance IP over WDM). Links and demands always belong to exactly one
// layer; nodes are shared by all layers.
type Layer struct {
	ID                 valueobjects.LayerID
	Name               string
	Description        string
	DemandTrafficUnits string
	LinkCapacityUnits  string
	Attributes         Attributes
	Tags               Tags
}

// Node is a network location.
type Node struct {
	ID         valueobjects.NodeID
	Name       string
	Position   valueobjects.Position
	Up         bool
	Attributes Attributes
	Tags       Tags
}

// Link is a unidirectional transmission link between two nodes in a layer.
type Link struct {
	ID          valueobjects.LinkID
	Layer       valueobjects.LayerID
	Origin      valueobjects.NodeID
	Destination valueobjects.NodeID
	Capacity    float64
	LengthKm    float64
	Up          bool
	Attributes  Attributes
	Tags        Tags
}

// Demand is an offered unicast traffic volume between two nodes in a layer.
type Demand struct {
	ID             valueobjects.DemandID
	Layer          valueobjects.LayerID
	Ingress        valueobjects.NodeID
	Egress         valueobjects.NodeID
	OfferedTraffic float64
	Attributes     Attributes
	Tags           Tags
}

// Clone returns a copy that shares no mutable state with l.
func (l Layer) Clone() Layer {
	l.Attributes = l.Attributes.Clone()
	l.Tags = l.Tags.Clone()
	return l
}

// Clone returns a copy that shares no mutable state with n.
func (n Node) Clone() Node {
	n.Attributes = n.Attributes.Clone()
	n.Tags = n.Tags.Clone()
	return n
}

// Clone returns a copy that shares no mutable state with l.
func (l Link) Clone() Link {
	l.Attributes = l.Attributes.Clone()
	l.Tags = l.Tags.Clone()
	return l
}

// Clone returns a copy that shares no mutable state with d.
func (d Demand) Clone() Demand {
	d.Attributes = d.Attributes.Clone()
	d.Tags = d.Tags.Clone()
	return d
}

// Touches reports whether the link starts or ends at node.
func (l Link) Touches(node valueobjects.NodeID) bool {
	return l.Origin == node || l.Destination == node
}

// Touches reports whether the demand enters or leaves at node.
func (d Demand) Touches(node valueobjects.NodeID) bool {
	return d.Ingress == node || d.Egress == node
}
