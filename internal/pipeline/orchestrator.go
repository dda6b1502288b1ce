// Package pipeline preprocesses parsed drawing data into a normalized,
// quality-scored structural representation: clean → normalize units →
// recompute derived properties → validate reasonableness → score.
package pipeline

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/girderlab/girder/internal/bridge"
	"github.com/girderlab/girder/internal/congraph"
	"github.com/girderlab/girder/internal/dxf"
)

// Stage identifies one step of the orchestrator's state machine. Stages run
// strictly in sequence: each one needs the previous stage's fully-updated
// working copy.
type Stage string

const (
	StageInit            Stage = "init"
	StageCleanNormalize  Stage = "clean_normalize"
	StageBridgeSpecific  Stage = "bridge_specific_processing"
	StageQuality         Stage = "quality_assessment"
	StageStandardization Stage = "output_standardization"
	StageDone            Stage = "done"
)

// Options configures an orchestrator. The zero value gets defaults applied.
type Options struct {
	// UnitlessAssume is the unit code assumed for unitless drawings
	// (default meters).
	UnitlessAssume int

	// MinLength/MinArea override the reasonableness thresholds when > 0.
	MinLength float64
	MinArea   float64

	// InferConnections enables the endpoint-coincidence connection pass.
	InferConnections    bool
	ConnectionTolerance float64

	// Verbose enables per-stage logging.
	Verbose bool
}

// Orchestrator sequences all preprocessing stages over one mutable working
// copy per run. An orchestrator holds only immutable configuration and may
// be shared; each Process call builds its own run state, so independent
// documents can be processed concurrently with independent calls.
type Orchestrator struct {
	opts Options
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.UnitlessAssume == 0 {
		opts.UnitlessAssume = UnitMeters
	}
	return &Orchestrator{opts: opts}
}

// Process runs the full stage sequence over the parsed drawing and returns
// the output bundle. It never fails: missing inputs and per-component
// faults are logged and reflected in the quality score, and the caller
// always receives a complete bundle.
func (o *Orchestrator) Process(parsed *dxf.ParseResult) *Bundle {
	errlog := &bridge.ErrorLog{}
	start := time.Now()

	// Init: take a working copy so the originally parsed data is never
	// mutated, and report any missing top-level inputs without aborting.
	o.logStage(StageInit)
	if parsed == nil {
		parsed = &dxf.ParseResult{}
		errlog.Add(bridge.ErrTypeInitialization, "no parsed data supplied; processing empty input")
	}
	if parsed.Components == nil {
		errlog.Add(bridge.ErrTypeInitialization, "parsed data has no bridge_components collection")
	}
	if parsed.Metadata.Filename == "" {
		errlog.Add(bridge.ErrTypeInitialization, "parsed data has no original filename")
	}
	working := bridge.CloneComponents(parsed.Components)
	rawCount := len(working)

	// Clean & normalize.
	o.logStage(StageCleanNormalize)
	cleaner := NewCleaner(errlog)
	working = cleaner.Clean(working)

	normalizer := NewNormalizer(errlog)
	normalizer.UnitlessAssume = o.opts.UnitlessAssume
	conv := normalizer.Convert(working, parsed.Metadata.InsUnits)

	// Bridge-specific processing: derived properties and reasonableness,
	// per component, post-normalization.
	o.logStage(StageBridgeSpecific)
	calculator := NewCalculator(errlog)
	validator := NewValidator(errlog)
	if o.opts.MinLength > 0 {
		validator.MinLength = o.opts.MinLength
	}
	if o.opts.MinArea > 0 {
		validator.MinArea = o.opts.MinArea
	}
	for i := range working {
		calculator.Recompute(&working[i])
		validator.Validate(&working[i])
	}
	if o.opts.InferConnections {
		congraph.InferConnections(working, o.opts.ConnectionTolerance)
	}

	// Quality assessment.
	o.logStage(StageQuality)
	report := NewScorer().Score(ScoreInput{
		ParserErrors:      parsed.Errors,
		ProcessingErrors:  errlog.Entries(),
		Components:        working,
		RawComponentCount: rawCount,
	})

	// Output standardization.
	o.logStage(StageStandardization)
	status := StatusCompleted
	if errlog.Len() > 0 || len(parsed.Errors) > 0 {
		status = StatusCompletedWithIssues
	}

	bundle := &Bundle{
		RunID: uuid.NewString(),
		ProcessedData: ProcessedData{
			Metadata: Metadata{
				DrawingVersion:      parsed.Metadata.Version,
				Encoding:            parsed.Metadata.Encoding,
				PreprocessorVersion: PreprocessorVersion,
				OriginalFilename:    parsed.Metadata.Filename,
				OriginalUnitsCode:   parsed.Metadata.InsUnits,
				ProcessedUnits:      conv.TargetName,
				UnitFactor:          conv.Factor,
			},
			BridgeComponents: working,
			ProcessingInfo: ProcessingInfo{
				Status:       status,
				TimestampUTC: time.Now().UTC().Format(time.RFC3339),
			},
		},
		QualityReport:      report,
		ProcessingErrors:   errlog.Entries(),
		SourceParserErrors: parsed.Errors,
	}
	if bundle.ProcessingErrors == nil {
		bundle.ProcessingErrors = []bridge.ProcessingError{}
	}
	if bundle.SourceParserErrors == nil {
		bundle.SourceParserErrors = []dxf.ParseError{}
	}

	o.logStage(StageDone)
	if o.opts.Verbose {
		log.Printf("processed %s: %d components, score %.2f (%v)\n",
			parsed.Metadata.Filename, len(working), report.OverallScore, time.Since(start))
	}
	return bundle
}

func (o *Orchestrator) logStage(stage Stage) {
	if o.opts.Verbose {
		log.Printf("stage: %s\n", stage)
	}
}
