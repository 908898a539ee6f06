package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netdesign/domain/core/valueobjects"
)

func TestTags(t *testing.T) {
	var tags Tags
	tags = tags.With("core").With("backbone").With("core").With("  ")

	assert.Equal(t, Tags{"backbone", "core"}, tags)
	assert.True(t, tags.Has("core"))
	assert.False(t, tags.Has("edge"))

	without := tags.Without("core")
	assert.Equal(t, Tags{"backbone"}, without)
	assert.Equal(t, Tags{"backbone", "core"}, tags, "receiver must not change")
}

func TestNodeClone_IsIndependent(t *testing.T) {
	n := Node{
		ID:         valueobjects.NewNodeID(),
		Name:       "Madrid",
		Attributes: Attributes{"pop": "yes"},
		Tags:       Tags{"core"},
	}

	c := n.Clone()
	c.Attributes["pop"] = "no"
	c.Tags[0] = "edge"

	assert.Equal(t, "yes", n.Attributes["pop"])
	assert.Equal(t, "core", n.Tags[0])
}

func TestLinkAndDemandTouches(t *testing.T) {
	a, b, c := valueobjects.NewNodeID(), valueobjects.NewNodeID(), valueobjects.NewNodeID()

	link := Link{Origin: a, Destination: b}
	assert.True(t, link.Touches(a))
	assert.True(t, link.Touches(b))
	assert.False(t, link.Touches(c))

	demand := Demand{Ingress: c, Egress: a}
	assert.True(t, demand.Touches(a))
	assert.False(t, demand.Touches(b))
}

func TestAttributesClone_Nil(t *testing.T) {
	var a Attributes
	assert.Nil(t, a.Clone())
}
