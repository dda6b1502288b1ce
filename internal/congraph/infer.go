package congraph

import (
	"math"
	"sort"

	"github.com/girderlab/girder/internal/bridge"
)

// DefaultTolerance is the endpoint-coincidence tolerance in meters used when
// inference is enabled without an explicit setting.
const DefaultTolerance = 1e-3

// InferConnections links components whose geometry endpoints coincide within
// tolerance, writing component IDs into both components' Connections lists.
// Returns the number of links added.
//
// This is an optional pass, disabled by default: the standard pipeline
// output leaves Connections empty.
func InferConnections(components []bridge.BridgeComponent, tolerance float64) int {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	type endpointSet struct {
		idx    int
		points []bridge.Point
	}

	sets := make([]endpointSet, 0, len(components))
	for i := range components {
		pts := endpoints(&components[i])
		if len(pts) > 0 && components[i].ID != "" {
			sets = append(sets, endpointSet{idx: i, points: pts})
		}
	}

	added := 0
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if !touch(sets[i].points, sets[j].points, tolerance) {
				continue
			}
			a := &components[sets[i].idx]
			b := &components[sets[j].idx]
			if appendUnique(&a.Connections, b.ID) {
				added++
			}
			if appendUnique(&b.Connections, a.ID) {
				added++
			}
		}
	}

	for i := range components {
		sort.Strings(components[i].Connections)
	}
	return added
}

// endpoints collects the path endpoints of each geometry entry.
func endpoints(c *bridge.BridgeComponent) []bridge.Point {
	var pts []bridge.Point
	for i := range c.Geometry {
		coords := c.Geometry[i].Coordinates
		switch c.Geometry[i].PrimitiveType {
		case bridge.PrimitiveLine, bridge.PrimitivePolyline, bridge.PrimitiveLWPolyline:
			if len(coords) >= 2 {
				pts = append(pts, coords[0], coords[len(coords)-1])
			}
		}
	}
	return pts
}

func touch(a, b []bridge.Point, tolerance float64) bool {
	for _, pa := range a {
		for _, pb := range b {
			dx := pa.X - pb.X
			dy := pa.Y - pb.Y
			dz := pa.Z - pb.Z
			if math.Sqrt(dx*dx+dy*dy+dz*dz) <= tolerance {
				return true
			}
		}
	}
	return false
}

func appendUnique(list *[]string, id string) bool {
	for _, v := range *list {
		if v == id {
			return false
		}
	}
	*list = append(*list, id)
	return true
}
