package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/dxf"
)

// meaningfulLength is the floor below which a geometry length counts as
// effectively zero for scoring.
const meaningfulLength = 1e-6

// ScoreInput carries everything the scorer aggregates. The scorer itself is
// stateless: the same input always produces the same report.
type ScoreInput struct {
	ParserErrors      []dxf.ParseError
	ProcessingErrors  []bridge.ProcessingError
	Components        []bridge.BridgeComponent
	RawComponentCount int
}

// Scorer computes the weighted 0–100 data-quality score.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score aggregates all errors and component findings into one report.
// Deductions are always non-negative, so adding an issue can never raise the
// score; the final value is clamped to [0,100] and rounded to 2 decimals.
func (s *Scorer) Score(in ScoreInput) bridge.QualityReport {
	score := 100.0
	issues := []bridge.QualityIssue{}

	deduct := func(issue bridge.QualityIssue) {
		score -= issue.Deduction
		issues = append(issues, issue)
	}

	for _, pe := range in.ParserErrors {
		deduct(bridge.QualityIssue{
			Code:      "PARSER-ERR",
			Severity:  bridge.SeverityHigh,
			Message:   fmt.Sprintf("%s: %s", pe.Type, pe.Message),
			Deduction: 5.0,
		})
	}

	for _, pe := range in.ProcessingErrors {
		// DataWarning entries describe conditions the cleaner already
		// repaired; their residue is re-scored by the per-component checks
		// below, so counting them here would charge the same defect twice.
		if pe.Type == bridge.ErrTypeDataWarning {
			continue
		}
		severity, deduction := severityForType(pe.Type)
		deduct(bridge.QualityIssue{
			Code:        "PROC-" + strings.ToUpper(pe.Type),
			Severity:    severity,
			Message:     pe.Message,
			ComponentID: pe.ComponentID,
			Deduction:   deduction,
		})
	}

	for i := range in.Components {
		s.scoreComponent(&in.Components[i], deduct)
	}

	score = math.Round(clamp(score, 0, 100)*100) / 100

	return bridge.QualityReport{
		OverallScore: score,
		Issues:       issues,
		Suggestions:  suggestions(statistics(in)),
		Statistics:   statistics(in),
	}
}

func (s *Scorer) scoreComponent(comp *bridge.BridgeComponent, deduct func(bridge.QualityIssue)) {
	if comp.Type == bridge.TypeUnknown {
		deduct(bridge.QualityIssue{
			Code:        "DQ-COMP-001",
			Severity:    bridge.SeverityMedium,
			Message:     fmt.Sprintf("component %s could not be classified", comp.ID),
			ComponentID: comp.ID,
			Deduction:   2.0,
		})
	}
	if comp.Material.IsUnknown() {
		deduct(bridge.QualityIssue{
			Code:        "DQ-COMP-002",
			Severity:    bridge.SeverityLow,
			Message:     fmt.Sprintf("component %s has no identified material", comp.ID),
			ComponentID: comp.ID,
			Deduction:   1.0,
		})
	}

	if len(comp.Geometry) == 0 {
		deduct(bridge.QualityIssue{
			Code:        "DQ-GEOM-001",
			Severity:    bridge.SeverityHigh,
			Message:     fmt.Sprintf("component %s has no geometry", comp.ID),
			ComponentID: comp.ID,
			Deduction:   5.0,
		})
		// No geometry entries means nothing further to inspect.
		return
	}

	hasMeaningfulLength := false
	for i := range comp.Geometry {
		g := &comp.Geometry[i]

		if g.PrimitiveType == bridge.PrimitiveLine && len(g.Coordinates) >= 2 &&
			g.Coordinates[0] == g.Coordinates[1] {
			deduct(bridge.QualityIssue{
				Code:        "DQ-GEOM-002",
				Severity:    bridge.SeverityLow,
				Message:     fmt.Sprintf("component %s has a degenerate line (equal endpoints)", comp.ID),
				ComponentID: comp.ID,
				Deduction:   0.5,
			})
		}

		if (g.PrimitiveType == bridge.PrimitivePolyline || g.PrimitiveType == bridge.PrimitiveLWPolyline) &&
			len(g.Coordinates) < 2 {
			deduct(bridge.QualityIssue{
				Code:        "DQ-GEOM-003",
				Severity:    bridge.SeverityLow,
				Message:     fmt.Sprintf("component %s has a polyline with fewer than 2 vertices", comp.ID),
				ComponentID: comp.ID,
				Deduction:   1.0,
			})
		}

		if g.Length != nil {
			if *g.Length < meaningfulLength {
				deduct(bridge.QualityIssue{
					Code:        "DQ-GEOM-004",
					Severity:    bridge.SeverityLow,
					Message:     fmt.Sprintf("component %s has near-zero geometry length %g", comp.ID, *g.Length),
					ComponentID: comp.ID,
					Deduction:   1.0,
				})
			} else {
				hasMeaningfulLength = true
			}
		}
	}

	if !hasMeaningfulLength {
		deduct(bridge.QualityIssue{
			Code:        "DQ-GEOM-005",
			Severity:    bridge.SeverityMedium,
			Message:     fmt.Sprintf("component %s has no geometry entry with a meaningful length", comp.ID),
			ComponentID: comp.ID,
			Deduction:   2.0,
		})
	}
}

// severityForType infers issue severity from a processing-error type string.
func severityForType(errType string) (bridge.IssueSeverity, float64) {
	switch {
	case strings.Contains(errType, "Error"), strings.Contains(errType, "Critical"):
		return bridge.SeverityHigh, 5.0
	case strings.Contains(errType, "Warning"):
		return bridge.SeverityLow, 1.0
	default:
		return bridge.SeverityMedium, 2.0
	}
}

func statistics(in ScoreInput) map[string]interface{} {
	typeHist := make(map[string]int)
	materialHist := make(map[string]int)
	for i := range in.Components {
		typeHist[string(in.Components[i].Type)]++
		name := bridge.UnknownMaterialName
		if in.Components[i].Material != nil {
			name = in.Components[i].Material.Name
		}
		materialHist[name]++
	}

	errTypeHist := make(map[string]int)
	for _, pe := range in.ProcessingErrors {
		errTypeHist[pe.Type]++
	}

	return map[string]interface{}{
		"components_raw":         in.RawComponentCount,
		"components_clean":       len(in.Components),
		"parser_error_count":     len(in.ParserErrors),
		"processing_error_count": len(in.ProcessingErrors),
		"component_types":        typeHist,
		"materials":              materialHist,
		"processing_error_types": errTypeHist,
	}
}

// suggestions derives summary-level advice from the statistics, never from
// individual issues.
func suggestions(stats map[string]interface{}) []string {
	out := []string{}

	if typeHist, ok := stats["component_types"].(map[string]int); ok {
		if n := typeHist[string(bridge.TypeUnknown)]; n > 0 {
			out = append(out, fmt.Sprintf(
				"%d component(s) are unclassified; review layer names against the classification conventions", n))
		}
	}
	if materialHist, ok := stats["materials"].(map[string]int); ok {
		if n := materialHist[bridge.UnknownMaterialName]; n > 0 {
			out = append(out, fmt.Sprintf(
				"%d component(s) have no identified material; add material keywords to layer names or use conventional color indexes", n))
		}
	}
	if n, ok := stats["parser_error_count"].(int); ok && n > 0 {
		out = append(out, fmt.Sprintf(
			"%d entit(ies) failed extraction; inspect the source drawing for malformed entities", n))
	}
	if n, ok := stats["processing_error_count"].(int); ok && n > 0 {
		out = append(out, "review the processing error log for repaired or flagged fields")
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
