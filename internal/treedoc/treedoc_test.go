package treedoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDoc() Document {
	return Document{
		FormatTag: FormatTextual,
		Version:   "4",
		RootTag:   "save",
		Regions: []Region{
			{
				ID: "config",
				Nodes: []Node{
					{
						ID: "Root",
						Attributes: []Attribute{
							{ID: "Name", Type: "string", Value: "Test"},
							{ID: "UUID", Type: "guid", Value: "11111111-1111-1111-1111-111111111111"},
							{ID: "Version", Type: "int32", Value: "1"},
						},
					},
				},
			},
		},
	}
}

func TestEqual_Identical(t *testing.T) {
	a := sampleDoc()
	b := sampleDoc()
	assert.True(t, a.Equal(b))
}

func TestEqual_IgnoresInsignificantWhitespace(t *testing.T) {
	a := sampleDoc()
	b := sampleDoc()
	b.Regions[0].Nodes[0].Attributes[0].Value = "  Test  "
	assert.True(t, a.Equal(b))
}

func TestEqual_StrictOnAttributeOrder(t *testing.T) {
	a := sampleDoc()
	b := sampleDoc()
	attrs := b.Regions[0].Nodes[0].Attributes
	attrs[0], attrs[1] = attrs[1], attrs[0]
	assert.False(t, a.Equal(b))
}

func TestEqual_DifferentValue(t *testing.T) {
	a := sampleDoc()
	b := sampleDoc()
	b.Regions[0].Nodes[0].Attributes[0].Value = "Other"
	assert.False(t, a.Equal(b))
}

func TestNodeCount(t *testing.T) {
	d := sampleDoc()
	assert.Equal(t, 1, d.NodeCount())

	d.Regions[0].Nodes[0].Children = []Node{{ID: "Child"}}
	assert.Equal(t, 2, d.NodeCount())
}

func TestAttributeTypeCounts(t *testing.T) {
	d := sampleDoc()
	counts := d.AttributeTypeCounts()
	assert.Equal(t, 1, counts["string"])
	assert.Equal(t, 1, counts["guid"])
	assert.Equal(t, 1, counts["int32"])
}

func TestIsLocalized(t *testing.T) {
	assert.True(t, IsLocalized("TranslatedString"))
	assert.True(t, IsLocalized("TranslatedFSString"))
	assert.False(t, IsLocalized("string"))
	assert.False(t, IsLocalized("FixedString"))
}

func TestRegionByID(t *testing.T) {
	d := sampleDoc()
	r, ok := d.RegionByID("config")
	assert.True(t, ok)
	assert.Equal(t, "config", r.ID)

	_, ok = d.RegionByID("missing")
	assert.False(t, ok)
}
