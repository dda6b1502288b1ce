package bridge

// PrimitiveType identifies the native drawing primitive a GeometryInfo
// was extracted from.
type PrimitiveType string

const (
	PrimitiveLine       PrimitiveType = "LINE"
	PrimitiveCircle     PrimitiveType = "CIRCLE"
	PrimitiveArc        PrimitiveType = "ARC"
	PrimitivePolyline   PrimitiveType = "POLYLINE"
	PrimitiveLWPolyline PrimitiveType = "LWPOLYLINE"
)

// Point is a 3D coordinate in the drawing's coordinate system. After unit
// normalization all points are in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GeometryInfo holds the typed geometry extracted from one drawing entity.
//
// Optional numeric fields are pointers: nil means "not yet computed", which
// is distinct from an explicit zero. Once the unit normalizer has run, every
// populated field is in meters (m² for Area, m³ for Volume) and the applied
// factor is recorded on the run's shared metadata.
type GeometryInfo struct {
	PrimitiveType PrimitiveType          `json:"primitive_type"`
	Coordinates   []Point                `json:"coordinates"`
	Center        *Point                 `json:"center,omitempty"`
	Radius        *float64               `json:"radius,omitempty"`
	Length        *float64               `json:"length,omitempty"`
	Area          *float64               `json:"area,omitempty"`
	Volume        *float64               `json:"volume,omitempty"`
	Dimensions    map[string]float64     `json:"dimensions,omitempty"`
	RawAttributes map[string]interface{} `json:"raw_attributes,omitempty"`
}

// Clone returns a deep copy of the geometry record.
func (g *GeometryInfo) Clone() GeometryInfo {
	out := GeometryInfo{
		PrimitiveType: g.PrimitiveType,
	}
	if g.Coordinates != nil {
		out.Coordinates = make([]Point, len(g.Coordinates))
		copy(out.Coordinates, g.Coordinates)
	}
	if g.Center != nil {
		c := *g.Center
		out.Center = &c
	}
	out.Radius = cloneFloat(g.Radius)
	out.Length = cloneFloat(g.Length)
	out.Area = cloneFloat(g.Area)
	out.Volume = cloneFloat(g.Volume)
	if g.Dimensions != nil {
		out.Dimensions = make(map[string]float64, len(g.Dimensions))
		for k, v := range g.Dimensions {
			out.Dimensions[k] = v
		}
	}
	if g.RawAttributes != nil {
		out.RawAttributes = make(map[string]interface{}, len(g.RawAttributes))
		for k, v := range g.RawAttributes {
			out.RawAttributes[k] = v
		}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Float returns a pointer to v. Convenience for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
