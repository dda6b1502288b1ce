// Package dxf parses 2D vector CAD drawings in the entity-based exchange
// format (ASCII and binary containers) into typed geometric primitives and
// classified bridge components.
//
// Structural corruption of the container is fatal (ErrStructure): no entity
// data exists, so no partial output is possible. Everything below that is
// entity-local: one bad entity is logged and skipped, and the parse
// continues with the rest of the drawing.
package dxf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/classify"
)

// Parser walks a drawing's layer table, block table, and model-space
// entities, classifying each entity inline.
type Parser struct {
	classifier *classify.Classifier
}

// New creates a parser with the given classifier. A nil classifier uses the
// default rule tables.
func New(classifier *classify.Classifier) *Parser {
	if classifier == nil {
		classifier = classify.New()
	}
	return &Parser{classifier: classifier}
}

// Parse opens and parses the drawing at path. An unreadable file or a
// structurally corrupt container fails fatally; per-entity failures are
// captured in the result's error list instead.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawing: %w", err)
	}
	defer f.Close()
	return p.ParseReader(f, filepath.Base(path))
}

// ParseReader parses a drawing from r. filename is recorded in the document
// metadata for audit.
func (p *Parser) ParseReader(r io.Reader, filename string) (*ParseResult, error) {
	tr, err := newTagReader(r)
	if err != nil {
		return nil, err
	}
	s := &tagStream{r: tr}

	res := &ParseResult{
		Metadata:   Document{Filename: filename},
		Layers:     []LayerRecord{},
		Blocks:     []BlockRecord{},
		Entities:   []RawEntity{},
		Components: []bridge.BridgeComponent{},
		Errors:     []ParseError{},
	}

	for {
		tag, err := s.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing EOF marker", ErrStructure)
		}
		if err != nil {
			return nil, err
		}
		if tag.Code != 0 {
			return nil, fmt.Errorf("%w: expected section marker, got group code %d", ErrStructure, tag.Code)
		}

		switch tag.Value {
		case "EOF":
			return res, nil
		case "SECTION":
			name, err := s.Next()
			if err != nil || name.Code != 2 {
				return nil, fmt.Errorf("%w: section without name", ErrStructure)
			}
			if err := p.parseSection(s, name.Value, res); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected marker %q", ErrStructure, tag.Value)
		}
	}
}

func (p *Parser) parseSection(s *tagStream, name string, res *ParseResult) error {
	switch name {
	case "HEADER":
		return p.parseHeader(s, res)
	case "TABLES":
		return p.parseTables(s, res)
	case "BLOCKS":
		return p.parseBlocks(s, res)
	case "ENTITIES":
		return p.parseEntities(s, res)
	default:
		return skipSection(s)
	}
}

func (p *Parser) parseHeader(s *tagStream, res *ParseResult) error {
	current := ""
	for {
		tag, err := s.Next()
		if err != nil {
			return fmt.Errorf("%w: truncated header section", ErrStructure)
		}
		if tag.Code == 0 && tag.Value == "ENDSEC" {
			return nil
		}
		if tag.Code == 9 {
			current = tag.Value
			continue
		}
		switch current {
		case "$ACADVER":
			if tag.Code == 1 {
				res.Metadata.Version = tag.Value
			}
		case "$DWGCODEPAGE":
			if tag.Code == 3 {
				res.Metadata.Encoding = tag.Value
			}
		case "$INSUNITS":
			if tag.Code == 70 {
				if units, err := tag.Int(); err == nil {
					res.Metadata.InsUnits = units
				}
			}
		}
	}
}

func (p *Parser) parseTables(s *tagStream, res *ParseResult) error {
	table := ""
	for {
		tag, err := s.Next()
		if err != nil {
			return fmt.Errorf("%w: truncated tables section", ErrStructure)
		}
		if tag.Code == 0 {
			switch tag.Value {
			case "ENDSEC":
				return nil
			case "TABLE":
				name, err := s.Next()
				if err != nil {
					return fmt.Errorf("%w: truncated table", ErrStructure)
				}
				if name.Code == 2 {
					table = name.Value
				}
			case "ENDTAB":
				table = ""
			case "LAYER":
				if table != "LAYER" {
					continue
				}
				tags, err := collectEntityTags(s)
				if err != nil {
					return err
				}
				rec := LayerRecord{Color: 7}
				if name, ok := tags.firstString(2); ok {
					rec.Name = name
				}
				if color, ok := tags.firstInt(62); ok {
					rec.Color = color
				}
				if lt, ok := tags.firstString(6); ok {
					rec.LineType = lt
				}
				if flags, ok := tags.firstInt(70); ok {
					rec.Flags = flags
				}
				res.Layers = append(res.Layers, rec)
			}
		}
	}
}

func (p *Parser) parseBlocks(s *tagStream, res *ParseResult) error {
	for {
		tag, err := s.Next()
		if err != nil {
			return fmt.Errorf("%w: truncated blocks section", ErrStructure)
		}
		if tag.Code != 0 {
			continue
		}
		switch tag.Value {
		case "ENDSEC":
			return nil
		case "BLOCK":
			tags, err := collectEntityTags(s)
			if err != nil {
				return err
			}
			rec := BlockRecord{}
			if name, ok := tags.firstString(2); ok {
				rec.Name = name
			}
			if base, ok := point(tags, 10, 20, 30); ok {
				rec.Base = base
			}
			res.Blocks = append(res.Blocks, rec)
		}
	}
}

func (p *Parser) parseEntities(s *tagStream, res *ParseResult) error {
	for {
		tag, err := s.Next()
		if err != nil {
			return fmt.Errorf("%w: truncated entities section", ErrStructure)
		}
		if tag.Code != 0 {
			return fmt.Errorf("%w: expected entity marker, got group code %d", ErrStructure, tag.Code)
		}
		if tag.Value == "ENDSEC" {
			return nil
		}

		ent, err := p.readEntity(s, tag.Value)
		if err != nil {
			return err
		}
		res.Entities = append(res.Entities, *ent)

		geom, extractErr := ExtractGeometry(ent)
		if extractErr != nil {
			res.Errors = append(res.Errors, ParseError{
				Type:    bridge.ErrTypeEntityExtraction,
				Message: fmt.Sprintf("entity %s (%s): %v", ent.Handle, ent.Kind, extractErr),
			})
			continue
		}
		if geom == nil {
			// Annotation-only or unsupported kind: stays in raw entities,
			// never becomes a component.
			continue
		}

		ctype := p.classifier.ClassifyType(ent.Layer)
		material := p.classifier.ClassifyMaterial(ent.Layer, ent.Color)
		res.Components = append(res.Components, bridge.BridgeComponent{
			ID:       ent.Handle,
			Type:     ctype,
			Name:     fmt.Sprintf("%s_%s", ctype, ent.Handle),
			Layer:    ent.Layer,
			Material: material,
			Geometry: []bridge.GeometryInfo{*geom},
			Properties: map[string]interface{}{
				"entity_kind": ent.Kind,
				"color":       ent.Color,
			},
			Connections:     []string{},
			DesignStandards: []string{},
		})
	}
}

// readEntity collects one entity's tags and common attributes. Heavyweight
// polylines pull in their VERTEX sub-entities up to the closing SEQEND.
func (p *Parser) readEntity(s *tagStream, kind string) (*RawEntity, error) {
	tags, err := collectEntityTags(s)
	if err != nil {
		return nil, err
	}

	ent := &RawEntity{
		Kind:    kind,
		Color:   256, // ByLayer
		Visible: true,
		tags:    tags,
	}
	if handle, ok := tags.firstString(5); ok {
		ent.Handle = handle
	}
	if layer, ok := tags.firstString(8); ok {
		ent.Layer = layer
	}
	if color, ok := tags.firstInt(62); ok {
		ent.Color = color
	}
	if lt, ok := tags.firstString(6); ok {
		ent.LineType = lt
	}
	if vis, ok := tags.firstInt(60); ok {
		ent.Visible = vis == 0
	}

	if kind == "POLYLINE" {
		if err := p.readPolylineVertices(s, ent); err != nil {
			return nil, err
		}
	}
	return ent, nil
}

func (p *Parser) readPolylineVertices(s *tagStream, ent *RawEntity) error {
	for {
		tag, err := s.Peek()
		if err != nil {
			return fmt.Errorf("%w: truncated polyline", ErrStructure)
		}
		if tag.Code != 0 {
			return fmt.Errorf("%w: expected vertex marker in polyline", ErrStructure)
		}
		switch tag.Value {
		case "VERTEX":
			s.Next()
			tags, err := collectEntityTags(s)
			if err != nil {
				return err
			}
			if pt, ok := point(tags, 10, 20, 30); ok {
				ent.Vertices = append(ent.Vertices, pt)
			}
		case "SEQEND":
			s.Next()
			if _, err := collectEntityTags(s); err != nil {
				return err
			}
			return nil
		default:
			// Unterminated vertex sequence; treat the next entity marker as
			// the end of this polyline.
			return nil
		}
	}
}

// collectEntityTags reads tags up to (not including) the next group-code-0
// marker.
func collectEntityTags(s *tagStream) (tagList, error) {
	var tags tagList
	for {
		tag, err := s.Peek()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated entity data", ErrStructure)
		}
		if tag.Code == 0 {
			return tags, nil
		}
		s.Next()
		tags = append(tags, tag)
	}
}

func skipSection(s *tagStream) error {
	for {
		tag, err := s.Next()
		if err != nil {
			return fmt.Errorf("%w: truncated section", ErrStructure)
		}
		if tag.Code == 0 && tag.Value == "ENDSEC" {
			return nil
		}
	}
}

// tagStream adds single-tag lookahead over a tagReader.
type tagStream struct {
	r      tagReader
	peeked *Tag
}

func (s *tagStream) Next() (Tag, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t, nil
	}
	return s.r.Next()
}

func (s *tagStream) Peek() (Tag, error) {
	if s.peeked == nil {
		t, err := s.r.Next()
		if err != nil {
			return Tag{}, err
		}
		s.peeked = &t
	}
	return *s.peeked, nil
}
