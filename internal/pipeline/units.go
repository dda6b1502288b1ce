package pipeline

import (
	"fmt"

	"github.com/girderlab/girder/internal/bridge"
)

// Drawing unit codes, per the exchange format's $INSUNITS enumeration.
const (
	UnitUnitless    = 0
	UnitInches      = 1
	UnitFeet        = 2
	UnitMiles       = 3
	UnitMillimeters = 4
	UnitCentimeters = 5
	UnitMeters      = 6
	UnitKilometers  = 7
	UnitMicroinches = 8
	UnitMils        = 9
	UnitYards       = 10
	UnitAngstroms   = 11
	UnitNanometers  = 12
	UnitMicrons     = 13
	UnitDecimeters  = 14
)

// unitFactors maps a unit code to its length factor into meters. Immutable;
// shared across concurrent runs without synchronization.
var unitFactors = map[int]float64{
	UnitInches:      0.0254,
	UnitFeet:        0.3048,
	UnitMiles:       1609.344,
	UnitMillimeters: 0.001,
	UnitCentimeters: 0.01,
	UnitMeters:      1.0,
	UnitKilometers:  1000.0,
	UnitMicroinches: 2.54e-8,
	UnitMils:        2.54e-5,
	UnitYards:       0.9144,
	UnitAngstroms:   1e-10,
	UnitNanometers:  1e-9,
	UnitMicrons:     1e-6,
	UnitDecimeters:  0.1,
}

var unitNames = map[int]string{
	UnitUnitless:    "unitless",
	UnitInches:      "inches",
	UnitFeet:        "feet",
	UnitMiles:       "miles",
	UnitMillimeters: "millimeters",
	UnitCentimeters: "centimeters",
	UnitMeters:      "meters",
	UnitKilometers:  "kilometers",
	UnitMicroinches: "microinches",
	UnitMils:        "mils",
	UnitYards:       "yards",
	UnitAngstroms:   "angstroms",
	UnitNanometers:  "nanometers",
	UnitMicrons:     "microns",
	UnitDecimeters:  "decimeters",
}

// UnitName returns the human name of a unit code, or "unknown".
func UnitName(code int) string {
	if name, ok := unitNames[code]; ok {
		return name
	}
	return "unknown"
}

// UnitCodeByName resolves a unit name (as used in configuration) to its
// code. Returns false for names outside the table.
func UnitCodeByName(name string) (int, bool) {
	for code, n := range unitNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// Conversion records the unit rewrite applied to a run, for audit.
type Conversion struct {
	SourceUnits   int     `json:"source_units"`
	SourceName    string  `json:"source_name"`
	TargetName    string  `json:"target_name"`
	Factor        float64 `json:"factor"`
}

// Normalizer rewrites every numeric geometric attribute from the drawing's
// native unit to meters with the correct dimensional power: coordinates,
// center, radius, length and named dimensions scale by f, area by f², and
// volume by f³.
type Normalizer struct {
	errlog *bridge.ErrorLog

	// UnitlessAssume is the unit code assumed for unitless drawings.
	// Defaults to meters; the "assume meters" behavior is policy, not a
	// physical fact, so it stays configurable.
	UnitlessAssume int
}

// NewNormalizer creates a normalizer writing to the given error log.
func NewNormalizer(errlog *bridge.ErrorLog) *Normalizer {
	return &Normalizer{errlog: errlog, UnitlessAssume: UnitMeters}
}

// Convert rewrites all components in place and returns the applied
// conversion. Unrecognized unit codes fall back to factor 1.0 with a logged
// error; this is never fatal.
func (n *Normalizer) Convert(components []bridge.BridgeComponent, sourceUnits int) Conversion {
	factor, resolved := n.resolveFactor(sourceUnits)
	conv := Conversion{
		SourceUnits: sourceUnits,
		SourceName:  UnitName(sourceUnits),
		TargetName:  unitNames[UnitMeters],
		Factor:      factor,
	}

	// Fast path: factor 1.0 is a no-op on the numbers; the unit metadata is
	// still stamped by the caller from the returned Conversion.
	if resolved && factor == 1.0 {
		return conv
	}

	for i := range components {
		for j := range components[i].Geometry {
			scaleGeometry(&components[i].Geometry[j], factor)
		}
	}
	return conv
}

func (n *Normalizer) resolveFactor(sourceUnits int) (factor float64, resolved bool) {
	if sourceUnits == UnitUnitless {
		assumed := n.UnitlessAssume
		if assumed == UnitUnitless {
			assumed = UnitMeters
		}
		n.errlog.Add(bridge.ErrTypeUnitWarning,
			fmt.Sprintf("drawing has no unit declaration; assuming %s", UnitName(assumed)))
		return unitFactors[assumed], true
	}
	if f, ok := unitFactors[sourceUnits]; ok {
		return f, true
	}
	n.errlog.Add(bridge.ErrTypeUnitError,
		fmt.Sprintf("unrecognized unit code %d; values left unscaled", sourceUnits))
	return 1.0, false
}

func scaleGeometry(g *bridge.GeometryInfo, f float64) {
	for i := range g.Coordinates {
		g.Coordinates[i].X *= f
		g.Coordinates[i].Y *= f
		g.Coordinates[i].Z *= f
	}
	if g.Center != nil {
		g.Center.X *= f
		g.Center.Y *= f
		g.Center.Z *= f
	}
	if g.Radius != nil {
		*g.Radius *= f
	}
	if g.Length != nil {
		*g.Length *= f
	}
	for k, v := range g.Dimensions {
		g.Dimensions[k] = v * f
	}
	// Dimensional power rule: area scales with the square of the factor,
	// volume with the cube.
	if g.Area != nil {
		*g.Area *= f * f
	}
	if g.Volume != nil {
		*g.Volume *= f * f * f
	}
}
