package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girderlab/girder/internal/bridge"
)

// Test Plan for the classifier:
// - Layer keywords map to component types, case-insensitively
// - Rule order matters: "girder" wins over "beam" in combined layer names
// - Unconventional layer names degrade to TypeUnknown, never error
// - Custom type rules take precedence over the defaults
// - Material resolution prefers layer keywords over the color table
// - Color-index fallback applies only when no keyword matched
// - No match at all yields a nil material

func TestClassifyType_Keywords(t *testing.T) {
	t.Parallel()

	c := New()
	cases := map[string]bridge.ComponentType{
		"BEAMS":            bridge.TypeBeam,
		"bridge_columns":   bridge.TypeColumn,
		"PIER_2":           bridge.TypePier,
		"Deck-Slab":        bridge.TypeDeck,
		"EXPANSION_JOINT":  bridge.TypeExpansionJoint,
		"stay_cables":      bridge.TypeCable,
		"ARCH_RIBS":        bridge.TypeArch,
		"S-FOOTING-LEFT":   bridge.TypeFoundation,
		"GUARDRAIL_PARAPET": bridge.TypeRailing,
	}
	for layer, want := range cases {
		assert.Equal(t, want, c.ClassifyType(layer), "layer %q", layer)
	}
}

func TestClassifyType_GirderBeatsBeam(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Equal(t, bridge.TypeGirder, c.ClassifyType("MAIN_GIRDER_BEAMS"))
}

func TestClassifyType_UnknownDegradation(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Equal(t, bridge.TypeUnknown, c.ClassifyType("LAYER_0"))
	assert.Equal(t, bridge.TypeUnknown, c.ClassifyType(""))
	assert.Equal(t, bridge.TypeUnknown, c.ClassifyType("DIMENSIONS"))
}

func TestClassifyType_CustomRulesWin(t *testing.T) {
	t.Parallel()

	// A site convention that uses "beam" for girders.
	c := New(WithTypeRules([]TypeRule{
		{Keyword: "beam", Type: bridge.TypeGirder},
	}))
	assert.Equal(t, bridge.TypeGirder, c.ClassifyType("BEAMS"))
	// Default rules still apply below the custom ones.
	assert.Equal(t, bridge.TypePier, c.ClassifyType("PIERS"))
}

func TestClassifyMaterial_KeywordBeforeColor(t *testing.T) {
	t.Parallel()

	c := New()
	// Layer says concrete; color 1 would say steel. Keyword wins.
	m := c.ClassifyMaterial("CONCRETE_DECK", 1)
	require.NotNil(t, m)
	assert.Equal(t, "concrete", m.Name)
	assert.Equal(t, "C30/37", m.Grade)
}

func TestClassifyMaterial_ColorFallback(t *testing.T) {
	t.Parallel()

	c := New()
	m := c.ClassifyMaterial("BEAMS", 2)
	require.NotNil(t, m)
	assert.Equal(t, "steel", m.Name)
	assert.Equal(t, "S275", m.Grade)
}

func TestClassifyMaterial_NoMatch(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Nil(t, c.ClassifyMaterial("BEAMS", 256))
	assert.Nil(t, c.ClassifyMaterial("", 0))
}

func TestClassifyMaterial_CustomColorTable(t *testing.T) {
	t.Parallel()

	c := New(WithColorMaterials(map[int]bridge.Material{
		9: {Name: "aluminium", Grade: "6061"},
	}))

	m := c.ClassifyMaterial("BEAMS", 9)
	require.NotNil(t, m)
	assert.Equal(t, "aluminium", m.Name)

	// Default table entries survive the merge.
	m = c.ClassifyMaterial("BEAMS", 1)
	require.NotNil(t, m)
	assert.Equal(t, "steel", m.Name)
}

func TestClassifyMaterial_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := New()
	m1 := c.ClassifyMaterial("STEEL_GIRDER", 256)
	require.NotNil(t, m1)
	m1.Grade = "S460"

	m2 := c.ClassifyMaterial("STEEL_GIRDER", 256)
	require.NotNil(t, m2)
	assert.Equal(t, "S355", m2.Grade)
}
