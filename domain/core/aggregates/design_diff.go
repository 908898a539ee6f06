package aggregates

import (
	"reflect"

	"netdesign/domain/core/entities"
)

// DesignDiff represents the difference between two designs
type DesignDiff struct {
	Layers  ElementDiff `json:"layers"`
	Nodes   ElementDiff `json:"nodes"`
	Links   ElementDiff `json:"links"`
	Demands ElementDiff `json:"demands"`
	// DesignChanged is set when name, description, attributes or tags differ.
	DesignChanged bool `json:"design_changed"`
}

// ElementDiff represents changes in one element kind
type ElementDiff struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Updated int `json:"updated"`
}

// Empty reports whether nothing changed
func (e ElementDiff) Empty() bool {
	return e.Added == 0 && e.Removed == 0 && e.Updated == 0
}

// Empty reports whether the two designs have the same content
func (d DesignDiff) Empty() bool {
	return !d.DesignChanged && d.Layers.Empty() && d.Nodes.Empty() && d.Links.Empty() && d.Demands.Empty()
}

// Diff compares two designs element by element, matching on stable IDs.
// Either side may be nil.
func Diff(from, to *Design) DesignDiff {
	var a, b DesignDocument
	if from != nil {
		a = from.Export()
	}
	if to != nil {
		b = to.Export()
	}

	return DesignDiff{
		Layers:  diffElements(a.Layers, b.Layers, func(l entities.Layer) any { return l.ID }),
		Nodes:   diffElements(a.Nodes, b.Nodes, func(n entities.Node) any { return n.ID }),
		Links:   diffElements(a.Links, b.Links, func(l entities.Link) any { return l.ID }),
		Demands: diffElements(a.Demands, b.Demands, func(dm entities.Demand) any { return dm.ID }),
		DesignChanged: a.Name != b.Name || a.Description != b.Description ||
			!equalAttributes(a.Attributes, b.Attributes) || !reflect.DeepEqual(normalizeTags(a.Tags), normalizeTags(b.Tags)),
	}
}

func diffElements[T any](from, to []T, key func(T) any) ElementDiff {
	var diff ElementDiff
	before := make(map[any]T, len(from))
	for _, item := range from {
		before[key(item)] = item
	}

	for _, item := range to {
		old, ok := before[key(item)]
		if !ok {
			diff.Added++
			continue
		}
		if !reflect.DeepEqual(old, item) {
			diff.Updated++
		}
		delete(before, key(item))
	}
	diff.Removed = len(before)
	return diff
}

func equalAttributes(a, b entities.Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func normalizeTags(t entities.Tags) entities.Tags {
	if len(t) == 0 {
		return nil
	}
	return t
}
