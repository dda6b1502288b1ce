package config

import (
	"errors"
	"fmt"

	"github.com/girderlab/girder/internal/bridge"
)

var (
	// ErrInvalidUnit indicates an unsupported unitless-assume unit name.
	ErrInvalidUnit = errors.New("invalid unit name")

	// ErrInvalidComponentType indicates a keyword rule targeting a type
	// outside the closed taxonomy.
	ErrInvalidComponentType = errors.New("invalid component type")

	// ErrInvalidThreshold indicates a non-positive validation threshold.
	ErrInvalidThreshold = errors.New("invalid validation threshold")

	// ErrNoDrawingPatterns indicates an empty drawing discovery pattern list.
	ErrNoDrawingPatterns = errors.New("no drawing patterns configured")
)

// knownUnits are the unit names accepted for units.unitless_assume.
var knownUnits = map[string]bool{
	"inches":      true,
	"feet":        true,
	"miles":       true,
	"millimeters": true,
	"centimeters": true,
	"meters":      true,
	"kilometers":  true,
	"microinches": true,
	"mils":        true,
	"yards":       true,
	"angstroms":   true,
	"nanometers":  true,
	"microns":     true,
	"decimeters":  true,
}

// Validate checks a configuration for correctness.
func Validate(cfg *Config) error {
	if cfg.Units.UnitlessAssume != "" && !knownUnits[cfg.Units.UnitlessAssume] {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, cfg.Units.UnitlessAssume)
	}

	for _, rule := range cfg.Classification.Keywords {
		if rule.Keyword == "" {
			return fmt.Errorf("%w: empty keyword", ErrInvalidComponentType)
		}
		if !bridge.ComponentType(rule.Type).IsValid() {
			return fmt.Errorf("%w: %q (keyword %q)", ErrInvalidComponentType, rule.Type, rule.Keyword)
		}
	}

	if cfg.Validation.MinLengthMeters <= 0 {
		return fmt.Errorf("%w: min_length_meters must be positive, got %g", ErrInvalidThreshold, cfg.Validation.MinLengthMeters)
	}
	if cfg.Validation.MinAreaSqMeters <= 0 {
		return fmt.Errorf("%w: min_area_sq_meters must be positive, got %g", ErrInvalidThreshold, cfg.Validation.MinAreaSqMeters)
	}

	if len(cfg.Paths.Drawings) == 0 {
		return ErrNoDrawingPatterns
	}

	return nil
}
