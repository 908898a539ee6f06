package aggregates

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign/domain/config"
	"netdesign/domain/core/entities"
	"netdesign/domain/core/valueobjects"
	pkgerrors "netdesign/pkg/errors"
)

func TestNewDesign(t *testing.T) {
	tests := []struct {
		name    string
		dName   string
		wantErr bool
	}{
		{name: "valid design", dName: "Backbone"},
		{name: "trimmed name", dName: "  Metro  "},
		{name: "empty name", dName: "", wantErr: true},
		{name: "blank name", dName: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			design, err := NewDesign(tt.dName)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				assert.Nil(t, design)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, design.ID())
			assert.Equal(t, 1, design.LayerCount())
			assert.Equal(t, 0, design.NodeCount())
			assert.Equal(t, 1, design.Version())
			assert.False(t, design.Frozen())

			layer, err := design.Layer(design.Layers()[0])
			require.NoError(t, err)
			assert.Equal(t, "Layer 0", layer.Name)
		})
	}
}

func TestDesign_Layers(t *testing.T) {
	design := createTestDesign(t)

	wdm, err := design.AddLayer("WDM", "optical layer")
	require.NoError(t, err)
	assert.Equal(t, 1, wdm.Index())
	assert.True(t, design.Owns(wdm))

	byName, err := design.LayerByName("WDM")
	require.NoError(t, err)
	assert.Equal(t, wdm, byName)

	layer, err := design.Layer(wdm)
	require.NoError(t, err)
	viaID, err := design.LayerHandleOf(layer.ID)
	require.NoError(t, err)
	assert.Equal(t, wdm, viaID)

	_, err = design.AddLayer(" ", "")
	assert.True(t, pkgerrors.IsValidation(err))

	err = design.UpdateLayer(wdm, func(l *entities.Layer) error {
		l.LinkCapacityUnits = "lambdas"
		return nil
	})
	require.NoError(t, err)
	layer, _ = design.Layer(wdm)
	assert.Equal(t, "lambdas", layer.LinkCapacityUnits)

	err = design.UpdateLayer(wdm, func(l *entities.Layer) error {
		l.ID = valueobjects.NewLayerID()
		return nil
	})
	assert.True(t, pkgerrors.IsValidation(err))

	// handles from another design are rejected
	other := createTestDesign(t)
	_, err = design.Layer(other.Layers()[0])
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, design.Owns(other.Layers()[0]))

	_, err = design.LayerAt(5)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDesign_RemoveLayer(t *testing.T) {
	design := createTestDesign(t)
	ip := design.Layers()[0]
	wdm, err := design.AddLayer("WDM", "")
	require.NoError(t, err)

	a := addNode(t, design, "A")
	b := addNode(t, design, "B")
	_, err = design.AddLink(ip, a, b, 100, 10)
	require.NoError(t, err)
	_, err = design.AddLink(wdm, a, b, 40, 10)
	require.NoError(t, err)
	_, err = design.AddDemand(wdm, a, b, 10)
	require.NoError(t, err)

	require.NoError(t, design.RemoveLayer(wdm))
	assert.Equal(t, 1, design.LayerCount())
	assert.Equal(t, 1, design.LinkCount())
	assert.Equal(t, 0, design.DemandCount())
	require.NoError(t, design.Validate())

	err = design.RemoveLayer(ip)
	assert.True(t, pkgerrors.IsValidation(err), "last layer cannot be removed")
}

func TestDesign_DuplicateNamesConflict(t *testing.T) {
	design := createTestDesign(t)
	wdm, err := design.AddLayer("WDM", "")
	require.NoError(t, err)
	a := addNode(t, design, "Madrid")
	b := addNode(t, design, "Lisbon")

	_, err = design.AddLayer(" WDM ", "")
	assert.True(t, pkgerrors.IsConflict(err))
	_, err = design.AddNode("Madrid", valueobjects.Position{})
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 2, design.LayerCount())
	assert.Equal(t, 2, design.NodeCount())

	err = design.UpdateNode(b, func(n *entities.Node) error {
		n.Name = "Madrid"
		return nil
	})
	assert.True(t, pkgerrors.IsConflict(err))
	err = design.UpdateLayer(wdm, func(l *entities.Layer) error {
		l.Name = "Layer 0"
		return nil
	})
	assert.True(t, pkgerrors.IsConflict(err))

	// keeping its own name is not a conflict
	require.NoError(t, design.UpdateNode(a, func(n *entities.Node) error {
		n.Position = valueobjects.Position{X: 3, Y: 4}
		return nil
	}))
	require.NoError(t, design.UpdateLayer(wdm, func(l *entities.Layer) error {
		l.Description = "optical"
		return nil
	}))
}

func TestDesign_NodesLinksDemands(t *testing.T) {
	design := createTestDesign(t)
	layer := design.Layers()[0]

	a := addNode(t, design, "Madrid")
	b := addNode(t, design, "Barcelona")
	c := addNode(t, design, "Valencia")

	tests := []struct {
		name    string
		run     func() error
		checkFn func(error) bool
	}{
		{
			name: "link to unknown node",
			run: func() error {
				_, err := design.AddLink(layer, a, valueobjects.NewNodeID(), 10, 1)
				return err
			},
			checkFn: pkgerrors.IsNotFound,
		},
		{
			name: "self loop",
			run: func() error {
				_, err := design.AddLink(layer, a, a, 10, 1)
				return err
			},
			checkFn: pkgerrors.IsValidation,
		},
		{
			name: "negative capacity",
			run: func() error {
				_, err := design.AddLink(layer, a, b, -1, 1)
				return err
			},
			checkFn: pkgerrors.IsValidation,
		},
		{
			name: "negative traffic",
			run: func() error {
				_, err := design.AddDemand(layer, a, b, -5)
				return err
			},
			checkFn: pkgerrors.IsValidation,
		},
		{
			name: "unnamed node",
			run: func() error {
				_, err := design.AddNode("", valueobjects.Position{})
				return err
			},
			checkFn: pkgerrors.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "unexpected error: %v", err)
		})
	}

	ab, err := design.AddLink(layer, a, b, 100, 620)
	require.NoError(t, err)
	bc, err := design.AddLink(layer, b, c, 100, 350)
	require.NoError(t, err)
	_, err = design.AddDemand(layer, a, c, 25)
	require.NoError(t, err)
	d2, err := design.AddDemand(layer, b, c, 5)
	require.NoError(t, err)

	total, err := design.TotalOfferedTraffic(layer)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, total, 1e-9)

	require.NoError(t, design.UpdateLink(ab, func(l *entities.Link) error {
		l.Capacity = 400
		l.Up = false
		return nil
	}))
	link, err := design.Link(ab)
	require.NoError(t, err)
	assert.Equal(t, 400.0, link.Capacity)
	assert.False(t, link.Up)

	require.NoError(t, design.UpdateDemand(d2, func(dm *entities.Demand) error {
		dm.OfferedTraffic = 7
		return nil
	}))
	sentinel := errors.New("rejected")
	assert.ErrorIs(t, design.UpdateDemand(d2, func(*entities.Demand) error { return sentinel }), sentinel)

	// removing a node cascades to its links and demands
	require.NoError(t, design.RemoveNode(a))
	assert.Equal(t, 2, design.NodeCount())
	assert.Equal(t, 1, design.LinkCount())
	assert.Equal(t, 1, design.DemandCount())
	_, err = design.Link(bc)
	assert.NoError(t, err)
	_, err = design.Link(ab)
	assert.True(t, pkgerrors.IsNotFound(err))
	require.NoError(t, design.Validate())

	require.NoError(t, design.RemoveLink(bc))
	require.NoError(t, design.RemoveDemand(d2))
	assert.Equal(t, 0, design.LinkCount())
	assert.Equal(t, 0, design.DemandCount())
	assert.True(t, pkgerrors.IsNotFound(design.RemoveDemand(d2)))
}

func TestDesign_Limits(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxNodes = 2
	cfg.AllowSelfLoops = true

	design, err := NewDesignWithConfig("Small", cfg)
	require.NoError(t, err)

	a := addNode(t, design, "A")
	addNode(t, design, "B")
	_, err = design.AddNode("C", valueobjects.Position{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = design.AddLink(design.Layers()[0], a, a, 1, 0)
	assert.NoError(t, err, "self loops allowed by config")
}

func TestDesign_AttributesAndTags(t *testing.T) {
	design := createTestDesign(t)

	require.NoError(t, design.SetAttribute("owner", "planning"))
	require.NoError(t, design.AddTag("draft"))
	v, ok := design.Attribute("owner")
	assert.True(t, ok)
	assert.Equal(t, "planning", v)
	assert.True(t, design.Tags().Has("draft"))

	attrs := design.Attributes()
	attrs["owner"] = "someone else"
	v, _ = design.Attribute("owner")
	assert.Equal(t, "planning", v, "Attributes returns a copy")

	assert.True(t, pkgerrors.IsValidation(design.SetAttribute("", "x")))
	require.NoError(t, design.RemoveAttribute("owner"))
	require.NoError(t, design.RemoveTag("draft"))
	_, ok = design.Attribute("owner")
	assert.False(t, ok)
	assert.False(t, design.Tags().Has("draft"))
}

func TestDesign_Freeze(t *testing.T) {
	design := createTestDesign(t)
	a := addNode(t, design, "A")
	design.Freeze()

	_, err := design.AddNode("B", valueobjects.Position{})
	assert.True(t, pkgerrors.IsFrozen(err))
	assert.True(t, pkgerrors.IsFrozen(design.RemoveNode(a)))
	assert.True(t, pkgerrors.IsFrozen(design.SetAttribute("k", "v")))
	_, err = design.AddLayer("WDM", "")
	assert.True(t, pkgerrors.IsFrozen(err))
	assert.Equal(t, 1, design.NodeCount())

	clone, err := design.Clone()
	require.NoError(t, err)
	assert.False(t, clone.Frozen())
	_, err = clone.AddNode("B", valueobjects.Position{})
	assert.NoError(t, err)
}

func TestDesign_Clone(t *testing.T) {
	design := createTestDesign(t)
	layer := design.Layers()[0]
	a := addNode(t, design, "A")
	b := addNode(t, design, "B")
	link, err := design.AddLink(layer, a, b, 10, 1)
	require.NoError(t, err)
	require.NoError(t, design.UpdateNode(a, func(n *entities.Node) error {
		n.Attributes = entities.Attributes{"site": "north"}
		n.Tags = n.Tags.With("core")
		return nil
	}))

	clone, err := design.Clone()
	require.NoError(t, err)

	t.Run("same content", func(t *testing.T) {
		assert.Equal(t, design.ID(), clone.ID())
		assert.Equal(t, design.Export(), clone.Export())
		assert.True(t, Diff(design, clone).Empty())

		sumA, err := design.Checksum()
		require.NoError(t, err)
		sumB, err := clone.Checksum()
		require.NoError(t, err)
		assert.Equal(t, sumA, sumB)
	})

	t.Run("own layer handles", func(t *testing.T) {
		assert.NotEqual(t, design.Layers()[0], clone.Layers()[0])
		assert.Equal(t, design.Layers()[0].Index(), clone.Layers()[0].Index())
		assert.False(t, clone.Owns(layer))
	})

	t.Run("mutating the clone leaves the original alone", func(t *testing.T) {
		require.NoError(t, clone.UpdateNode(a, func(n *entities.Node) error {
			n.Attributes["site"] = "south"
			return nil
		}))
		require.NoError(t, clone.RemoveLink(link))
		_, err := clone.AddNode("C", valueobjects.Position{})
		require.NoError(t, err)

		node, err := design.Node(a)
		require.NoError(t, err)
		assert.Equal(t, "north", node.Attributes["site"])
		assert.Equal(t, 2, design.NodeCount())
		assert.Equal(t, 1, design.LinkCount())

		diff := Diff(design, clone)
		assert.Equal(t, ElementDiff{Added: 1, Updated: 1}, diff.Nodes)
		assert.Equal(t, ElementDiff{Removed: 1}, diff.Links)
	})

	t.Run("mutating the original leaves the clone alone", func(t *testing.T) {
		before := clone.Export()
		require.NoError(t, design.RemoveNode(b))
		require.NoError(t, design.AddTag("changed"))
		assert.Equal(t, before, clone.Export())
	})
}

func TestDesign_CloneFailsOnBrokenInvariant(t *testing.T) {
	design := createTestDesign(t)
	a := addNode(t, design, "A")
	b := addNode(t, design, "B")
	_, err := design.AddLink(design.Layers()[0], a, b, 10, 1)
	require.NoError(t, err)

	// corrupt the arena: the link now points at a node that does not exist
	design.links[0].Destination = valueobjects.NewNodeID()

	clone, err := design.Clone()
	assert.Nil(t, clone)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvariant(err))
}

func TestDesign_ValidateDetectsIndexDrift(t *testing.T) {
	design := createTestDesign(t)
	addNode(t, design, "A")
	addNode(t, design, "B")

	design.nodes[0], design.nodes[1] = design.nodes[1], design.nodes[0]
	assert.True(t, pkgerrors.IsInvariant(design.Validate()))
}

func TestDiff_NilSides(t *testing.T) {
	design := createTestDesign(t)
	addNode(t, design, "A")

	diff := Diff(nil, design)
	assert.Equal(t, 1, diff.Nodes.Added)
	assert.Equal(t, 1, diff.Layers.Added)
	assert.True(t, diff.DesignChanged)

	diff = Diff(design, nil)
	assert.Equal(t, 1, diff.Nodes.Removed)
}

// Helper functions

func createTestDesign(t *testing.T) *Design {
	t.Helper()
	design, err := NewDesign("Test Design")
	require.NoError(t, err)
	return design
}

func addNode(t *testing.T, d *Design, name string) valueobjects.NodeID {
	t.Helper()
	id, err := d.AddNode(name, valueobjects.Position{X: 1, Y: 2})
	require.NoError(t, err)
	return id
}
