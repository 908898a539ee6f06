package valueobjects

import (
	"fmt"
	"sync/atomic"
)

// InstanceID distinguishes document instances. Every design and every clone
// of it gets a fresh one, so handles from different instances never compare
// equal.
type InstanceID uint64

var instanceSeq atomic.Uint64

// NextInstanceID returns a process-unique InstanceID.
func NextInstanceID() InstanceID {
	return InstanceID(instanceSeq.Add(1))
}

// LayerHandle is an opaque reference to one layer of one document instance.
// The zero value refers to nothing.
type LayerHandle struct {
	instance InstanceID
	index    int
}

// NewLayerHandle builds the handle of the layer at index within instance.
func NewLayerHandle(instance InstanceID, index int) LayerHandle {
	return LayerHandle{instance: instance, index: index}
}

// Instance returns the document instance the handle belongs to.
func (h LayerHandle) Instance() InstanceID {
	return h.instance
}

// Index returns the positional index of the layer inside its document.
func (h LayerHandle) Index() int {
	return h.index
}

// IsZero reports whether h is the zero handle.
func (h LayerHandle) IsZero() bool {
	return h.instance == 0
}

func (h LayerHandle) String() string {
	return fmt.Sprintf("layer#%d@%d", h.index, h.instance)
}
