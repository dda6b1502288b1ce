package pipeline

import (
	"fmt"
	"math"

	"github.com/girderlab/girder/internal/bridge"
)

// recalcTolerance is the relative tolerance beyond which a previously stored
// length is considered to disagree with the recomputed value.
const recalcTolerance = 1e-6

// Calculator recomputes derived geometric properties from coordinates,
// post-normalization. Computation faults are entity-local: they are logged
// and the affected field is left unset, never propagated.
type Calculator struct {
	errlog *bridge.ErrorLog
}

// NewCalculator creates a calculator writing to the given error log.
func NewCalculator(errlog *bridge.ErrorLog) *Calculator {
	return &Calculator{errlog: errlog}
}

// Recompute updates the component's geometry entries in place. Called once
// per component after unit normalization.
func (c *Calculator) Recompute(comp *bridge.BridgeComponent) {
	for i := range comp.Geometry {
		g := &comp.Geometry[i]
		switch g.PrimitiveType {
		case bridge.PrimitiveLine:
			c.recomputeLine(comp.ID, g)
		case bridge.PrimitiveCircle:
			c.recomputeCircle(comp.ID, g)
		case bridge.PrimitivePolyline, bridge.PrimitiveLWPolyline:
			c.recomputePolyline(g)
		default:
			// Other primitive kinds keep whatever the extractor produced.
		}
	}
}

func (c *Calculator) recomputeLine(id string, g *bridge.GeometryInfo) {
	if len(g.Coordinates) < 2 {
		c.errlog.AddDetailed(bridge.ErrTypeGeometryCalculation,
			fmt.Sprintf("line on component %s has %d coordinate(s); length not computed", id, len(g.Coordinates)),
			id, nil)
		return
	}
	length := distance(g.Coordinates[0], g.Coordinates[1])
	if g.Length != nil && relativeDiff(*g.Length, length) > recalcTolerance {
		// Informational note, not an error: the recomputed value wins.
		c.errlog.AddDetailed(bridge.ErrTypeGeometryRecalc,
			fmt.Sprintf("line length on component %s recomputed from %g to %g", id, *g.Length, length),
			id, map[string]interface{}{"previous": *g.Length, "recomputed": length})
	}
	g.Length = bridge.Float(length)
}

func (c *Calculator) recomputeCircle(id string, g *bridge.GeometryInfo) {
	if g.Radius == nil {
		g.Area = bridge.Float(0.0)
		c.errlog.AddDetailed(bridge.ErrTypeMissingGeometryData,
			fmt.Sprintf("circle on component %s has no radius; area set to 0", id), id, nil)
		return
	}
	g.Area = bridge.Float(math.Pi * *g.Radius * *g.Radius)
}

func (c *Calculator) recomputePolyline(g *bridge.GeometryInfo) {
	// Length sums the open path only. The closing segment is never added,
	// even when the closed flag is set; verify against real drawings before
	// treating that as authoritative intent.
	total := 0.0
	for i := 1; i < len(g.Coordinates); i++ {
		total += distance(g.Coordinates[i-1], g.Coordinates[i])
	}
	g.Length = bridge.Float(total)
}

func distance(a, b bridge.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func relativeDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return diff / scale
}
