package congraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girderlab/girder/internal/bridge"
)

// Test Plan for the connection graph:
// - Build indexes components by ID and resolves recorded connections
// - Connection IDs pointing outside the run are ignored
// - Neighbors returns sorted IDs; unknown IDs return nil
// - InferConnections links components whose endpoints coincide within
//   tolerance, symmetrically and without duplicates
// - Components beyond tolerance stay unlinked

func lineBetween(id string, a, b bridge.Point) bridge.BridgeComponent {
	return bridge.BridgeComponent{
		ID:   id,
		Type: bridge.TypeGirder,
		Geometry: []bridge.GeometryInfo{{
			PrimitiveType: bridge.PrimitiveLine,
			Coordinates:   []bridge.Point{a, b},
		}},
		Connections: []string{},
	}
}

func TestBuild_LookupAndNeighbors(t *testing.T) {
	t.Parallel()

	comps := []bridge.BridgeComponent{
		lineBetween("G1", bridge.Point{}, bridge.Point{X: 10}),
		lineBetween("C1", bridge.Point{X: 10}, bridge.Point{X: 10, Y: -8}),
		lineBetween("C2", bridge.Point{}, bridge.Point{Y: -8}),
	}
	comps[0].Connections = []string{"C1", "C2", "GHOST"}

	a := Build(comps)

	assert.Equal(t, 3, a.Size())

	got, ok := a.Lookup("G1")
	require.True(t, ok)
	assert.Equal(t, "G1", got.ID)

	_, ok = a.Lookup("GHOST")
	assert.False(t, ok)

	// GHOST is not part of the run, so the edge to it is dropped.
	assert.Equal(t, []string{"C1", "C2"}, a.Neighbors("G1"))
	assert.Nil(t, a.Neighbors("GHOST"))
}

func TestInferConnections_EndpointCoincidence(t *testing.T) {
	t.Parallel()

	comps := []bridge.BridgeComponent{
		lineBetween("G1", bridge.Point{}, bridge.Point{X: 10}),
		lineBetween("C1", bridge.Point{X: 10, Y: 0.0005}, bridge.Point{X: 10, Y: -8}),
		lineBetween("FAR", bridge.Point{X: 50}, bridge.Point{X: 60}),
	}

	added := InferConnections(comps, 1e-3)

	assert.Equal(t, 2, added) // one link, both directions
	assert.Equal(t, []string{"C1"}, comps[0].Connections)
	assert.Equal(t, []string{"G1"}, comps[1].Connections)
	assert.Empty(t, comps[2].Connections)
}

func TestInferConnections_BeyondTolerance(t *testing.T) {
	t.Parallel()

	comps := []bridge.BridgeComponent{
		lineBetween("G1", bridge.Point{}, bridge.Point{X: 10}),
		lineBetween("C1", bridge.Point{X: 10, Y: 0.01}, bridge.Point{X: 10, Y: -8}),
	}

	added := InferConnections(comps, 1e-3)

	assert.Zero(t, added)
	assert.Empty(t, comps[0].Connections)
	assert.Empty(t, comps[1].Connections)
}

func TestInferConnections_NoDuplicates(t *testing.T) {
	t.Parallel()

	// Both endpoints of each line touch the other line's endpoints; the
	// connection must still be recorded once per direction.
	comps := []bridge.BridgeComponent{
		lineBetween("A", bridge.Point{}, bridge.Point{X: 10}),
		lineBetween("B", bridge.Point{X: 10}, bridge.Point{}),
	}

	added := InferConnections(comps, 1e-3)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"B"}, comps[0].Connections)
	assert.Equal(t, []string{"A"}, comps[1].Connections)
}
