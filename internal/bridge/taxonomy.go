package bridge

// ComponentType represents the structural role of a bridge component.
// The taxonomy is closed: classification that matches nothing maps to
// TypeUnknown, never to an error.
type ComponentType string

const (
	TypeGirder         ComponentType = "girder"
	TypeBeam           ComponentType = "beam"
	TypeColumn         ComponentType = "column"
	TypePier           ComponentType = "pier"
	TypeAbutment       ComponentType = "abutment"
	TypeDeck           ComponentType = "deck"
	TypeFoundation     ComponentType = "foundation"
	TypePile           ComponentType = "pile"
	TypeTruss          ComponentType = "truss"
	TypeCable          ComponentType = "cable"
	TypeBearing        ComponentType = "bearing"
	TypeExpansionJoint ComponentType = "expansion_joint"
	TypeRailing        ComponentType = "railing"
	TypeArch           ComponentType = "arch"
	TypeUnknown        ComponentType = "unknown"
)

// AllComponentTypes lists every valid component type, TypeUnknown included.
var AllComponentTypes = []ComponentType{
	TypeGirder,
	TypeBeam,
	TypeColumn,
	TypePier,
	TypeAbutment,
	TypeDeck,
	TypeFoundation,
	TypePile,
	TypeTruss,
	TypeCable,
	TypeBearing,
	TypeExpansionJoint,
	TypeRailing,
	TypeArch,
	TypeUnknown,
}

// IsValid reports whether t is a member of the closed taxonomy.
func (t ComponentType) IsValid() bool {
	for _, v := range AllComponentTypes {
		if t == v {
			return true
		}
	}
	return false
}
