package pipeline

import (
	"fmt"

	"github.com/girderlab/girder/internal/bridge"
)

// Default reasonableness thresholds: sub-millimeter lengths and
// sub-mm² areas are implausible for real bridge components once in meters.
const (
	DefaultMinLength = 1e-3 // meters
	DefaultMinArea   = 1e-6 // square meters
)

// Validator flags degenerate or near-zero geometry. Findings are diagnostic
// only: the validator never mutates a component and never blocks the run.
type Validator struct {
	errlog *bridge.ErrorLog

	MinLength float64
	MinArea   float64
}

// NewValidator creates a validator with the default thresholds.
func NewValidator(errlog *bridge.ErrorLog) *Validator {
	return &Validator{
		errlog:    errlog,
		MinLength: DefaultMinLength,
		MinArea:   DefaultMinArea,
	}
}

// Validate inspects one component's populated numeric fields.
func (v *Validator) Validate(comp *bridge.BridgeComponent) {
	for i := range comp.Geometry {
		g := &comp.Geometry[i]
		if g.Length != nil && *g.Length >= 0 && *g.Length < v.MinLength {
			v.errlog.AddDetailed(bridge.ErrTypeReasonableness,
				fmt.Sprintf("component %s has implausibly small length %g m", comp.ID, *g.Length),
				comp.ID, map[string]interface{}{"length": *g.Length, "min_length": v.MinLength})
		}
		if g.Area != nil && *g.Area > 0 && *g.Area < v.MinArea {
			v.errlog.AddDetailed(bridge.ErrTypeReasonableness,
				fmt.Sprintf("component %s has implausibly small area %g m²", comp.ID, *g.Area),
				comp.ID, map[string]interface{}{"area": *g.Area, "min_area": v.MinArea})
		}
	}
}
