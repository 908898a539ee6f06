package aggregates

import (
	"strings"
	"time"

	"netdesign/domain/config"
	"netdesign/domain/core/entities"
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

// Design is the aggregate root for a multilayer network design.
//
// Elements live in flat slices (an arena) with id->position indexes, so a
// clone is a bulk copy of those slices rather than a pointer-graph walk.
// Links and demands reference nodes and layers by their stable IDs, which
// stay valid across clones. Layer handles, on the other hand, are bound to
// one instance: a clone hands out its own.
type Design struct {
	instance    valueobjects.InstanceID
	id          valueobjects.DesignID
	name        string
	description string
	limits      config.DomainConfig

	layers  []entities.Layer
	nodes   []entities.Node
	links   []entities.Link
	demands []entities.Demand

	layerIdx  map[valueobjects.LayerID]int
	nodeIdx   map[valueobjects.NodeID]int
	linkIdx   map[valueobjects.LinkID]int
	demandIdx map[valueobjects.DemandID]int

	attributes entities.Attributes
	tags       entities.Tags

	frozen    bool
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewDesign creates a new design with a single default layer
func NewDesign(name string) (*Design, error) {
	return NewDesignWithConfig(name, nil)
}

// NewDesignWithConfig creates a new design bound to the given domain limits.
// A nil config uses the defaults.
func NewDesignWithConfig(name string, cfg *config.DomainConfig) (*Design, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("design name is required")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	now := time.Now()
	d := &Design{
		instance:   valueobjects.NextInstanceID(),
		id:         valueobjects.NewDesignID(),
		name:       name,
		limits:     *cfg,
		layerIdx:   make(map[valueobjects.LayerID]int),
		nodeIdx:    make(map[valueobjects.NodeID]int),
		linkIdx:    make(map[valueobjects.LinkID]int),
		demandIdx:  make(map[valueobjects.DemandID]int),
		attributes: entities.Attributes{},
		createdAt:  now,
		updatedAt:  now,
		version:    1,
	}

	layerName := cfg.DefaultLayerName
	if layerName == "" {
		layerName = config.DefaultDomainConfig().DefaultLayerName
	}
	d.appendLayer(entities.Layer{
		ID:                 valueobjects.NewLayerID(),
		Name:               layerName,
		DemandTrafficUnits: "Gbps",
		LinkCapacityUnits:  "Gbps",
	})

	return d, nil
}

// ID returns the design's identifier, shared by all its clones
func (d *Design) ID() valueobjects.DesignID {
	return d.id
}

// Name returns the design's name
func (d *Design) Name() string {
	return d.name
}

// Description returns the design's description
func (d *Design) Description() string {
	return d.description
}

// Version counts the mutations applied since creation.
func (d *Design) Version() int {
	return d.version
}

// CreatedAt returns when the design was created
func (d *Design) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the design was last mutated
func (d *Design) UpdatedAt() time.Time {
	return d.updatedAt
}

// Limits returns the domain limits the design enforces.
func (d *Design) Limits() config.DomainConfig {
	return d.limits
}

// Frozen reports whether the design rejects mutation.
func (d *Design) Frozen() bool {
	return d.frozen
}

// Freeze makes the design read-only. Clones of a frozen design are mutable.
func (d *Design) Freeze() {
	d.frozen = true
}

// Rename changes the design's name
func (d *Design) Rename(name string) error {
	if err := d.ensureMutable("rename design"); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("design name is required")
	}
	d.name = name
	d.touch()
	return nil
}

// SetDescription changes the design's description
func (d *Design) SetDescription(description string) error {
	if err := d.ensureMutable("set description"); err != nil {
		return err
	}
	d.description = description
	d.touch()
	return nil
}

// Attributes returns a copy of the design-level attributes
func (d *Design) Attributes() entities.Attributes {
	return d.attributes.Clone()
}

// Attribute returns a single design-level attribute
func (d *Design) Attribute(key string) (string, bool) {
	v, ok := d.attributes[key]
	return v, ok
}

// SetAttribute sets a design-level attribute
func (d *Design) SetAttribute(key, value string) error {
	if err := d.ensureMutable("set attribute"); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return pkgerrors.NewValidationError("attribute key is required")
	}
	if d.attributes == nil {
		d.attributes = entities.Attributes{}
	}
	d.attributes[key] = value
	d.touch()
	return nil
}

// RemoveAttribute deletes a design-level attribute
func (d *Design) RemoveAttribute(key string) error {
	if err := d.ensureMutable("remove attribute"); err != nil {
		return err
	}
	delete(d.attributes, key)
	d.touch()
	return nil
}

// Tags returns a copy of the design-level tags
func (d *Design) Tags() entities.Tags {
	return d.tags.Clone()
}

// AddTag tags the design
func (d *Design) AddTag(tag string) error {
	if err := d.ensureMutable("add tag"); err != nil {
		return err
	}
	d.tags = d.tags.With(tag)
	d.touch()
	return nil
}

// RemoveTag untags the design
func (d *Design) RemoveTag(tag string) error {
	if err := d.ensureMutable("remove tag"); err != nil {
		return err
	}
	d.tags = d.tags.Without(tag)
	d.touch()
	return nil
}

// Private helper methods

func (d *Design) ensureMutable(operation string) error {
	if d.frozen {
		return pkgerrors.NewFrozenError(operation)
	}
	return nil
}

func (d *Design) touch() {
	d.version++
	d.updatedAt = time.Now()
}

func withinLimit(current, limit int) bool {
	return limit <= 0 || current < limit
}

// removeWhere filters items in place, keeping the ones drop rejects.
func removeWhere[T any](items []T, drop func(T) bool) ([]T, int) {
	kept := items[:0]
	removed := 0
	for _, item := range items {
		if drop(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	// release references held past the new length
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept, removed
}

func reindex[K comparable, T any](items []T, key func(T) K) map[K]int {
	idx := make(map[K]int, len(items))
	for i, item := range items {
		idx[key(item)] = i
	}
	return idx
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}
