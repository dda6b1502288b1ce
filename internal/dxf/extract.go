package dxf

import (
	"fmt"

	"github.com/girderlab/girder/internal/bridge"
)

// ExtractGeometry converts one raw drawing entity into a geometry record.
//
// Kinds that carry no component geometry (text, block references, and any
// unsupported primitive) return (nil, nil): the open-world policy skips
// them silently rather than treating them as errors. A supported kind with
// missing or malformed coordinate data returns an error; the parser logs it
// and continues with the remaining entities.
func ExtractGeometry(e *RawEntity) (*bridge.GeometryInfo, error) {
	switch e.Kind {
	case "LINE":
		return extractLine(e)
	case "CIRCLE":
		return extractCircle(e)
	case "ARC":
		return extractArc(e)
	case "LWPOLYLINE":
		return extractLWPolyline(e)
	case "POLYLINE":
		return extractPolyline(e)
	default:
		// TEXT, MTEXT, INSERT and anything else: annotation or unsupported.
		return nil, nil
	}
}

func extractLine(e *RawEntity) (*bridge.GeometryInfo, error) {
	start, ok := point(e.tags, 10, 20, 30)
	if !ok {
		return nil, fmt.Errorf("line missing start point")
	}
	end, ok := point(e.tags, 11, 21, 31)
	if !ok {
		return nil, fmt.Errorf("line missing end point")
	}
	return &bridge.GeometryInfo{
		PrimitiveType: bridge.PrimitiveLine,
		Coordinates:   []bridge.Point{start, end},
		RawAttributes: rawPoints(e.tags, 10, 11),
	}, nil
}

func extractCircle(e *RawEntity) (*bridge.GeometryInfo, error) {
	center, ok := point(e.tags, 10, 20, 30)
	if !ok {
		return nil, fmt.Errorf("circle missing center point")
	}
	radius, ok := e.tags.firstFloat(40)
	if !ok {
		return nil, fmt.Errorf("circle missing radius")
	}
	return &bridge.GeometryInfo{
		PrimitiveType: bridge.PrimitiveCircle,
		Coordinates:   []bridge.Point{center},
		Center:        &center,
		Radius:        bridge.Float(radius),
		RawAttributes: rawPoints(e.tags, 10),
	}, nil
}

func extractArc(e *RawEntity) (*bridge.GeometryInfo, error) {
	center, ok := point(e.tags, 10, 20, 30)
	if !ok {
		return nil, fmt.Errorf("arc missing center point")
	}
	radius, ok := e.tags.firstFloat(40)
	if !ok {
		return nil, fmt.Errorf("arc missing radius")
	}
	// Angles are dimensionless and therefore live in the raw-attribute audit
	// map, not in Dimensions (which the unit normalizer scales).
	raw := rawPoints(e.tags, 10)
	if start, ok := e.tags.firstFloat(50); ok {
		raw["start_angle"] = start
	}
	if end, ok := e.tags.firstFloat(51); ok {
		raw["end_angle"] = end
	}
	return &bridge.GeometryInfo{
		PrimitiveType: bridge.PrimitiveArc,
		Coordinates:   []bridge.Point{center},
		Center:        &center,
		Radius:        bridge.Float(radius),
		RawAttributes: raw,
	}, nil
}

func extractLWPolyline(e *RawEntity) (*bridge.GeometryInfo, error) {
	elevation, _ := e.tags.firstFloat(38)

	// Vertices are inline ordered 10/20 pairs.
	var coords []bridge.Point
	var x float64
	haveX := false
	for _, t := range e.tags {
		switch t.Code {
		case 10:
			f, err := t.Float()
			if err != nil {
				return nil, fmt.Errorf("lwpolyline vertex x: %v", err)
			}
			x = f
			haveX = true
		case 20:
			if !haveX {
				return nil, fmt.Errorf("lwpolyline vertex y without x")
			}
			f, err := t.Float()
			if err != nil {
				return nil, fmt.Errorf("lwpolyline vertex y: %v", err)
			}
			coords = append(coords, bridge.Point{X: x, Y: f, Z: elevation})
			haveX = false
		}
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("lwpolyline has no vertices")
	}

	flags, _ := e.tags.firstInt(70)
	raw := map[string]interface{}{"70": flags, "vertex_count": len(coords)}
	if count, ok := e.tags.firstInt(90); ok {
		raw["90"] = count
	}
	return &bridge.GeometryInfo{
		PrimitiveType: bridge.PrimitiveLWPolyline,
		Coordinates:   coords,
		RawAttributes: withClosed(raw, flags),
	}, nil
}

func extractPolyline(e *RawEntity) (*bridge.GeometryInfo, error) {
	if len(e.Vertices) == 0 {
		return nil, fmt.Errorf("polyline has no vertices")
	}
	coords := make([]bridge.Point, len(e.Vertices))
	copy(coords, e.Vertices)

	flags, _ := e.tags.firstInt(70)
	return &bridge.GeometryInfo{
		PrimitiveType: bridge.PrimitivePolyline,
		Coordinates:   coords,
		RawAttributes: withClosed(map[string]interface{}{"70": flags, "vertex_count": len(coords)}, flags),
	}, nil
}

// point assembles a 3D point from x/y/z group codes. The z code is optional
// and defaults to 0; x and y are required.
func point(tags tagList, xc, yc, zc int) (bridge.Point, bool) {
	x, okX := tags.firstFloat(xc)
	y, okY := tags.firstFloat(yc)
	if !okX || !okY {
		return bridge.Point{}, false
	}
	z, _ := tags.firstFloat(zc)
	return bridge.Point{X: x, Y: y, Z: z}, true
}

// rawPoints records the raw coordinate strings for the audit map.
func rawPoints(tags tagList, codes ...int) map[string]interface{} {
	raw := make(map[string]interface{})
	for _, c := range codes {
		if v, ok := tags.firstString(c); ok {
			raw[fmt.Sprintf("%d", c)] = v
		}
	}
	return raw
}

func withClosed(raw map[string]interface{}, flags int) map[string]interface{} {
	raw["closed"] = flags&1 != 0
	return raw
}
