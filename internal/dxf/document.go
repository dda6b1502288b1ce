package dxf

import "github.com/girderlab/girder/internal/bridge"

// Document holds the drawing header metadata. Immutable once loaded.
type Document struct {
	Version  string `json:"version"`
	Encoding string `json:"encoding"`
	InsUnits int    `json:"ins_units"`
	Filename string `json:"filename"`
}

// LayerRecord is a read-only snapshot of one layer-table entry.
type LayerRecord struct {
	Name     string `json:"name"`
	Color    int    `json:"color"`
	LineType string `json:"line_type"`
	Flags    int    `json:"flags"`
}

// Frozen reports whether the layer's frozen bit is set.
func (l LayerRecord) Frozen() bool {
	return l.Flags&1 != 0
}

// BlockRecord is a read-only snapshot of one block-table entry.
type BlockRecord struct {
	Name string       `json:"name"`
	Base bridge.Point `json:"base"`
}

// RawEntity is one discrete graphical object with its common attributes and
// the raw tags of its primitive-specific data. Every model-space entity is
// retained here, whether or not it became a bridge component.
type RawEntity struct {
	Kind     string `json:"kind"`
	Handle   string `json:"handle"`
	Layer    string `json:"layer"`
	Color    int    `json:"color"`
	LineType string `json:"line_type"`
	Visible  bool   `json:"visible"`

	// Vertices holds the ordered VERTEX sub-entities of a heavyweight
	// POLYLINE; empty for every other kind.
	Vertices []bridge.Point `json:"vertices,omitempty"`

	tags tagList
}

// ParseError is one entry in the parser's own error list, surfaced in the
// output bundle as source_parser_errors.
type ParseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ParseResult is the full output of parsing one drawing file.
type ParseResult struct {
	Metadata   Document                 `json:"metadata"`
	Layers     []LayerRecord            `json:"layers"`
	Blocks     []BlockRecord            `json:"blocks"`
	Entities   []RawEntity              `json:"raw_entities"`
	Components []bridge.BridgeComponent `json:"bridge_components"`
	Errors     []ParseError             `json:"errors"`
}
