package classify

import "github.com/girderlab/girder/internal/bridge"

// TypeRule maps a layer-name keyword to a component type. Rules are matched
// in order against the normalized (lowercased) layer name; the first
// substring match wins.
type TypeRule struct {
	Keyword string
	Type    bridge.ComponentType
}

// MaterialRule maps a layer-name keyword to a material.
type MaterialRule struct {
	Keyword  string
	Material bridge.Material
}

// DefaultTypeRules is the built-in layer-naming convention. Order matters:
// "girder" must precede "beam" so "MAIN_GIRDER_BEAMS" classifies as girder.
// Shared across concurrent runs; never mutated.
var DefaultTypeRules = []TypeRule{
	{"girder", bridge.TypeGirder},
	{"beam", bridge.TypeBeam},
	{"column", bridge.TypeColumn},
	{"col_", bridge.TypeColumn},
	{"pier", bridge.TypePier},
	{"abutment", bridge.TypeAbutment},
	{"deck", bridge.TypeDeck},
	{"slab", bridge.TypeDeck},
	{"footing", bridge.TypeFoundation},
	{"foundation", bridge.TypeFoundation},
	{"pile", bridge.TypePile},
	{"truss", bridge.TypeTruss},
	{"cable", bridge.TypeCable},
	{"stay", bridge.TypeCable},
	{"bearing", bridge.TypeBearing},
	{"joint", bridge.TypeExpansionJoint},
	{"railing", bridge.TypeRailing},
	{"barrier", bridge.TypeRailing},
	{"parapet", bridge.TypeRailing},
	{"arch", bridge.TypeArch},
}

// DefaultMaterialRules matches material keywords in layer names.
var DefaultMaterialRules = []MaterialRule{
	{"steel", bridge.Material{Name: "steel", Grade: "S355"}},
	{"stl", bridge.Material{Name: "steel", Grade: "S355"}},
	{"concrete", bridge.Material{Name: "concrete", Grade: "C30/37"}},
	{"conc", bridge.Material{Name: "concrete", Grade: "C30/37"}},
	{"timber", bridge.Material{Name: "timber", Grade: "GL24h"}},
	{"wood", bridge.Material{Name: "timber", Grade: "GL24h"}},
	{"stone", bridge.Material{Name: "stone"}},
	{"masonry", bridge.Material{Name: "masonry"}},
}

// DefaultColorMaterials is the fallback lookup from an entity's color index,
// used only when no layer keyword matched.
var DefaultColorMaterials = map[int]bridge.Material{
	1: {Name: "steel", Grade: "S355"},
	2: {Name: "steel", Grade: "S275"},
	3: {Name: "concrete", Grade: "C30/37"},
	4: {Name: "concrete", Grade: "C40/50"},
	5: {Name: "timber", Grade: "GL24h"},
	6: {Name: "stone"},
}
