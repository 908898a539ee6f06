package valueobjects

import (
	"github.com/google/uuid"

	pkgerrors "netdesign/pkg/errors"
)

// DesignID identifies a network design across all of its clones.
type DesignID string

// NewDesignID creates a new random DesignID
func NewDesignID() DesignID {
	return DesignID(uuid.New().String())
}

// String returns the string representation
func (id DesignID) String() string {
	return string(id)
}

// LayerID is the stable identity of a layer. Unlike a LayerHandle it
// survives cloning.
type LayerID struct {
	value string
}

// NodeID is a value object representing a unique node identifier
type NodeID struct {
	value string
}

// LinkID identifies a link within a layer.
type LinkID struct {
	value string
}

// DemandID identifies a traffic demand within a layer.
type DemandID struct {
	value string
}

// NewLayerID creates a new random LayerID
func NewLayerID() LayerID { return LayerID{value: uuid.New().String()} }

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID { return NodeID{value: uuid.New().String()} }

// NewLinkID creates a new random LinkID
func NewLinkID() LinkID { return LinkID{value: uuid.New().String()} }

// NewDemandID creates a new random DemandID
func NewDemandID() DemandID { return DemandID{value: uuid.New().String()} }

// ParseNodeID creates a NodeID from an existing string
func ParseNodeID(id string) (NodeID, error) {
	v, err := parseUUID("node", id)
	return NodeID{value: v}, err
}

// ParseLinkID creates a LinkID from an existing string
func ParseLinkID(id string) (LinkID, error) {
	v, err := parseUUID("link", id)
	return LinkID{value: v}, err
}

// ParseDemandID creates a DemandID from an existing string
func ParseDemandID(id string) (DemandID, error) {
	v, err := parseUUID("demand", id)
	return DemandID{value: v}, err
}

// ParseLayerID creates a LayerID from an existing string
func ParseLayerID(id string) (LayerID, error) {
	v, err := parseUUID("layer", id)
	return LayerID{value: v}, err
}

func (id LayerID) String() string  { return id.value }
func (id NodeID) String() string   { return id.value }
func (id LinkID) String() string   { return id.value }
func (id DemandID) String() string { return id.value }

func (id LayerID) IsZero() bool  { return id.value == "" }
func (id NodeID) IsZero() bool   { return id.value == "" }
func (id LinkID) IsZero() bool   { return id.value == "" }
func (id DemandID) IsZero() bool { return id.value == "" }

// MarshalText implements encoding.TextMarshaler
func (id NodeID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

// MarshalText implements encoding.TextMarshaler
func (id LayerID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

// MarshalText implements encoding.TextMarshaler
func (id LinkID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

// MarshalText implements encoding.TextMarshaler
func (id DemandID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func parseUUID(kind, id string) (string, error) {
	if id == "" {
		return "", pkgerrors.NewValidationError(kind + " ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", pkgerrors.NewValidationError(kind + " ID must be a valid UUID").WithCause(err)
	}
	return id, nil
}
