package pipeline

import (
	"fmt"

	"github.com/girderlab/girder/internal/bridge"
)

// Cleaner deduplicates components and repairs missing or invalid fields.
// Every repair is recorded in the shared error log; nothing here ever fails.
type Cleaner struct {
	errlog *bridge.ErrorLog
}

// NewCleaner creates a cleaner writing to the given error log.
func NewCleaner(errlog *bridge.ErrorLog) *Cleaner {
	return &Cleaner{errlog: errlog}
}

// Clean returns the cleaned component list.
//
// Dedup keeps the first occurrence of each component ID in original order;
// later duplicates are dropped and logged. Components with an empty ID
// cannot be deduplicated, so they are flagged but never dropped.
func (c *Cleaner) Clean(components []bridge.BridgeComponent) []bridge.BridgeComponent {
	seen := make(map[string]bool, len(components))
	out := make([]bridge.BridgeComponent, 0, len(components))

	for i := range components {
		comp := components[i]

		if comp.ID == "" {
			c.errlog.AddDetailed(bridge.ErrTypeDataWarning,
				fmt.Sprintf("component at index %d has no id and cannot be deduplicated", i), "", nil)
		} else if seen[comp.ID] {
			c.errlog.AddDetailed(bridge.ErrTypeDataCleaning,
				fmt.Sprintf("dropped duplicate component %s", comp.ID), comp.ID, nil)
			continue
		} else {
			seen[comp.ID] = true
		}

		c.repair(&comp)
		out = append(out, comp)
	}
	return out
}

func (c *Cleaner) repair(comp *bridge.BridgeComponent) {
	if comp.Material == nil {
		comp.Material = bridge.UnknownMaterial()
		c.errlog.AddDetailed(bridge.ErrTypeDataWarning,
			fmt.Sprintf("component %s has no material; defaulted to %q", comp.ID, bridge.UnknownMaterialName),
			comp.ID, nil)
	}

	if !comp.Type.IsValid() || comp.Type == "" {
		c.errlog.AddDetailed(bridge.ErrTypeDataWarning,
			fmt.Sprintf("component %s has invalid type %q; coerced to unknown", comp.ID, comp.Type),
			comp.ID, map[string]interface{}{"original_type": string(comp.Type)})
		comp.Type = bridge.TypeUnknown
	}

	// Geometry entries without a primitive type are dropped from the
	// component's list, not the whole component.
	kept := comp.Geometry[:0]
	for _, g := range comp.Geometry {
		if g.PrimitiveType == "" {
			c.errlog.AddDetailed(bridge.ErrTypeDataWarning,
				fmt.Sprintf("component %s has a geometry entry without a primitive type; entry dropped", comp.ID),
				comp.ID, nil)
			continue
		}
		kept = append(kept, g)
	}
	comp.Geometry = kept
}
