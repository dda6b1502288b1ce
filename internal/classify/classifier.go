// Package classify maps drawing-entity metadata onto the closed bridge
// component taxonomy. Classification is a documented heuristic over layer
// naming conventions: drawings that do not follow the conventions degrade to
// all-unknown, never to an error.
package classify

import (
	"strings"

	"github.com/girderlab/girder/internal/bridge"
)

// Classifier resolves component type and material from entity metadata.
// Rule sets are injected so domain conventions can be swapped without
// touching the parser; a zero-configuration classifier uses the package
// defaults.
type Classifier struct {
	typeRules      []TypeRule
	materialRules  []MaterialRule
	colorMaterials map[int]bridge.Material
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTypeRules prepends custom type rules ahead of the defaults so caller
// conventions win ties.
func WithTypeRules(rules []TypeRule) Option {
	return func(c *Classifier) {
		c.typeRules = append(append([]TypeRule{}, rules...), c.typeRules...)
	}
}

// WithMaterialRules prepends custom material rules ahead of the defaults.
func WithMaterialRules(rules []MaterialRule) Option {
	return func(c *Classifier) {
		c.materialRules = append(append([]MaterialRule{}, rules...), c.materialRules...)
	}
}

// WithColorMaterials overrides entries of the color-index material table.
func WithColorMaterials(colors map[int]bridge.Material) Option {
	return func(c *Classifier) {
		merged := make(map[int]bridge.Material, len(c.colorMaterials)+len(colors))
		for k, v := range c.colorMaterials {
			merged[k] = v
		}
		for k, v := range colors {
			merged[k] = v
		}
		c.colorMaterials = merged
	}
}

// New creates a classifier with the default rule tables plus any options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		typeRules:      DefaultTypeRules,
		materialRules:  DefaultMaterialRules,
		colorMaterials: DefaultColorMaterials,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyType resolves the component type for a layer name. The first rule
// whose keyword is a substring of the normalized layer name wins; no match
// yields TypeUnknown.
func (c *Classifier) ClassifyType(layer string) bridge.ComponentType {
	normalized := strings.ToLower(strings.TrimSpace(layer))
	for _, rule := range c.typeRules {
		if strings.Contains(normalized, rule.Keyword) {
			return rule.Type
		}
	}
	return bridge.TypeUnknown
}

// ClassifyMaterial infers a material from the layer name, falling back to
// the color-index table. Returns nil when nothing matches; the data cleaner
// defaults nil materials later.
func (c *Classifier) ClassifyMaterial(layer string, color int) *bridge.Material {
	normalized := strings.ToLower(strings.TrimSpace(layer))
	for _, rule := range c.materialRules {
		if strings.Contains(normalized, rule.Keyword) {
			m := rule.Material
			return &m
		}
	}
	if m, ok := c.colorMaterials[color]; ok {
		out := m
		return &out
	}
	return nil
}
