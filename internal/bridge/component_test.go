package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the component model:
// - Clone is a deep copy: mutating the clone's geometry, material, maps, and
//   slices never reaches the original
// - CloneComponents preserves nil vs empty distinctions
// - Material.IsUnknown covers nil, sentinel, and real materials
// - The taxonomy accepts its own members and rejects strangers

func sample() BridgeComponent {
	return BridgeComponent{
		ID:       "A1",
		Type:     TypeGirder,
		Name:     "girder_A1",
		Layer:    "BEAMS",
		Material: &Material{Name: "steel", Grade: "S355", Properties: map[string]string{"fy": "355"}},
		Geometry: []GeometryInfo{{
			PrimitiveType: PrimitiveLine,
			Coordinates:   []Point{{X: 0}, {X: 10}},
			Length:        Float(10.0),
			Dimensions:    map[string]float64{"web_height": 0.9},
		}},
		Properties:      map[string]interface{}{"color": 1},
		Connections:     []string{"A2"},
		DesignStandards: []string{"EN 1993"},
	}
}

func TestClone_DeepCopy(t *testing.T) {
	t.Parallel()

	orig := sample()
	clone := orig.Clone()

	clone.Material.Grade = "S460"
	clone.Material.Properties["fy"] = "460"
	clone.Geometry[0].Coordinates[1].X = 99
	*clone.Geometry[0].Length = 99
	clone.Geometry[0].Dimensions["web_height"] = 99
	clone.Properties["color"] = 7
	clone.Connections[0] = "X"
	clone.DesignStandards[0] = "X"

	assert.Equal(t, "S355", orig.Material.Grade)
	assert.Equal(t, "355", orig.Material.Properties["fy"])
	assert.Equal(t, 10.0, orig.Geometry[0].Coordinates[1].X)
	assert.Equal(t, 10.0, *orig.Geometry[0].Length)
	assert.Equal(t, 0.9, orig.Geometry[0].Dimensions["web_height"])
	assert.Equal(t, 1, orig.Properties["color"])
	assert.Equal(t, "A2", orig.Connections[0])
	assert.Equal(t, "EN 1993", orig.DesignStandards[0])
}

func TestCloneComponents(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CloneComponents(nil))

	out := CloneComponents([]BridgeComponent{})
	require.NotNil(t, out)
	assert.Empty(t, out)

	in := []BridgeComponent{sample()}
	out = CloneComponents(in)
	require.Len(t, out, 1)
	out[0].Geometry[0].Coordinates[0].X = -1
	assert.Equal(t, 0.0, in[0].Geometry[0].Coordinates[0].X)
}

func TestMaterial_IsUnknown(t *testing.T) {
	t.Parallel()

	var nilMat *Material
	assert.True(t, nilMat.IsUnknown())
	assert.True(t, UnknownMaterial().IsUnknown())
	assert.False(t, (&Material{Name: "steel"}).IsUnknown())
}

func TestComponentType_IsValid(t *testing.T) {
	t.Parallel()

	for _, ct := range AllComponentTypes {
		assert.True(t, ct.IsValid(), "type %q", ct)
	}
	assert.True(t, TypeUnknown.IsValid())
	assert.False(t, ComponentType("gantry").IsValid())
	assert.False(t, ComponentType("").IsValid())
}
