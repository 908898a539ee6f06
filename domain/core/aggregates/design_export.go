package aggregates

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"netdesign/domain/core/entities"
)

// DesignDocument is a deterministic, content-only view of a design. It
// leaves out instance identity, version and timestamps, so two designs with
// the same content export identically.
type DesignDocument struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Attributes  entities.Attributes `json:"attributes,omitempty"`
	Tags        entities.Tags       `json:"tags,omitempty"`
	Layers      []entities.Layer    `json:"layers"`
	Nodes       []entities.Node     `json:"nodes"`
	Links       []entities.Link     `json:"links"`
	Demands     []entities.Demand   `json:"demands"`
}

// Export returns the content of the design as a DesignDocument
func (d *Design) Export() DesignDocument {
	return DesignDocument{
		ID:          d.id.String(),
		Name:        d.name,
		Description: d.description,
		Attributes:  d.attributes.Clone(),
		Tags:        d.tags.Clone(),
		Layers:      cloneAll(d.layers, entities.Layer.Clone),
		Nodes:       d.Nodes(),
		Links:       d.Links(),
		Demands:     d.Demands(),
	}
}

// Checksum calculates a checksum over the exported content
func (d *Design) Checksum() (string, error) {
	// Marshal to JSON for consistent representation
	data, err := json.Marshal(d.Export())
	if err != nil {
		return "", fmt.Errorf("failed to marshal design for checksum: %w", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
