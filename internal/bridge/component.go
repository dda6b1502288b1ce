package bridge

// BridgeComponent is the domain-level structural element one drawing entity
// is interpreted as representing. The component ID comes from the entity's
// stable handle and is the dedup key.
//
// Components are created during parse/classify and then mutated in place by
// every later pipeline stage; they are never deleted except by dedup.
// Connections hold component IDs only (arena style); relations are resolved
// by lookup, never by embedded references.
type BridgeComponent struct {
	ID              string                 `json:"component_id"`
	Type            ComponentType          `json:"component_type"`
	Name            string                 `json:"name"`
	Layer           string                 `json:"layer"`
	Material        *Material              `json:"material"`
	Geometry        []GeometryInfo         `json:"geometry_info"`
	Properties      map[string]interface{} `json:"properties,omitempty"`
	Connections     []string               `json:"connections"`
	DesignStandards []string               `json:"design_standards"`
}

// Clone returns a deep copy of the component.
func (c *BridgeComponent) Clone() BridgeComponent {
	out := BridgeComponent{
		ID:       c.ID,
		Type:     c.Type,
		Name:     c.Name,
		Layer:    c.Layer,
		Material: c.Material.Clone(),
	}
	if c.Geometry != nil {
		out.Geometry = make([]GeometryInfo, 0, len(c.Geometry))
		for i := range c.Geometry {
			out.Geometry = append(out.Geometry, c.Geometry[i].Clone())
		}
	}
	if c.Properties != nil {
		out.Properties = make(map[string]interface{}, len(c.Properties))
		for k, v := range c.Properties {
			out.Properties[k] = v
		}
	}
	if c.Connections != nil {
		out.Connections = append([]string{}, c.Connections...)
	}
	if c.DesignStandards != nil {
		out.DesignStandards = append([]string{}, c.DesignStandards...)
	}
	return out
}

// CloneComponents deep-copies a component slice. The orchestrator uses this
// to build its working copy so the originally parsed data is never mutated.
func CloneComponents(components []BridgeComponent) []BridgeComponent {
	if components == nil {
		return nil
	}
	out := make([]BridgeComponent, 0, len(components))
	for i := range components {
		out = append(out, components[i].Clone())
	}
	return out
}
