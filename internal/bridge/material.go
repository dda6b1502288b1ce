package bridge

// Material describes the construction material of a component.
type Material struct {
	Name       string            `json:"name"`
	Grade      string            `json:"grade,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// UnknownMaterialName is the sentinel name assigned by the data cleaner when
// no material could be identified. Components never carry a nil material in
// the final output.
const UnknownMaterialName = "unknown"

// UnknownMaterial returns the sentinel material for components whose
// material could not be identified.
func UnknownMaterial() *Material {
	return &Material{Name: UnknownMaterialName, Grade: "N/A"}
}

// IsUnknown reports whether m is the sentinel material.
func (m *Material) IsUnknown() bool {
	return m == nil || m.Name == UnknownMaterialName
}

// Clone returns a deep copy of the material.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	out := &Material{Name: m.Name, Grade: m.Grade}
	if m.Properties != nil {
		out.Properties = make(map[string]string, len(m.Properties))
		for k, v := range m.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
