// Package congraph represents the component connection graph as an
// arena-style index: components are registered by ID and relations are plain
// ID references resolved by lookup. No component ever embeds a reference to
// another, so adding a connection-inference pass cannot introduce ownership
// cycles.
package congraph

import (
	"errors"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/girderlab/girder/internal/bridge"
)

// Arena is an in-memory connection graph over one run's components.
type Arena struct {
	g    graph.Graph[string, *bridge.BridgeComponent]
	byID map[string]*bridge.BridgeComponent
}

// Build indexes the components and adds an edge for every recorded
// connection ID. Connection IDs pointing at components that do not exist in
// the run are ignored.
func Build(components []bridge.BridgeComponent) *Arena {
	a := &Arena{
		g:    graph.New(func(c *bridge.BridgeComponent) string { return c.ID }, graph.Directed()),
		byID: make(map[string]*bridge.BridgeComponent, len(components)),
	}

	for i := range components {
		c := &components[i]
		if c.ID == "" {
			continue
		}
		if err := a.g.AddVertex(c); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			continue
		}
		a.byID[c.ID] = c
	}

	for i := range components {
		c := &components[i]
		for _, target := range c.Connections {
			if _, ok := a.byID[target]; !ok {
				continue
			}
			if err := a.g.AddEdge(c.ID, target); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				continue
			}
		}
	}
	return a
}

// Lookup resolves a component by ID.
func (a *Arena) Lookup(id string) (*bridge.BridgeComponent, bool) {
	c, ok := a.byID[id]
	return c, ok
}

// Neighbors returns the IDs directly connected to id, sorted for stable
// output.
func (a *Arena) Neighbors(id string) []string {
	adjacency, err := a.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	edges, ok := adjacency[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(edges))
	for target := range edges {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of indexed components.
func (a *Arena) Size() int {
	return len(a.byID)
}
