package batch

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/girderlab/girder/internal/dxf"
	"github.com/girderlab/girder/internal/pipeline"
	"github.com/girderlab/girder/internal/store"
)

// ProgressReporter receives batch progress callbacks. Implementations must
// tolerate being called from a single goroutine only.
type ProgressReporter interface {
	OnDiscoveryComplete(totalFiles int)
	OnFileProcessed(path string, score float64)
	OnFileFailed(path string, err error)
	OnComplete(stats *Stats)
}

// NoOpProgressReporter ignores all callbacks.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryComplete(int)           {}
func (NoOpProgressReporter) OnFileProcessed(string, float64)   {}
func (NoOpProgressReporter) OnFileFailed(string, error)        {}
func (NoOpProgressReporter) OnComplete(*Stats)                 {}

// Stats tracks what a batch run processed.
type Stats struct {
	FilesProcessed int
	FilesFailed    int
	Components     int
	MeanScore      float64
	ProcessingTime time.Duration
}

// Processor runs the parse → preprocess → persist pipeline over files.
type Processor struct {
	parser       *dxf.Parser
	orchestrator *pipeline.Orchestrator
	store        *store.Store
	progress     ProgressReporter
}

// NewProcessor creates a batch processor. store may be nil to skip
// persistence; a nil progress reporter is replaced with a no-op.
func NewProcessor(parser *dxf.Parser, orchestrator *pipeline.Orchestrator, st *store.Store, progress ProgressReporter) *Processor {
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	return &Processor{
		parser:       parser,
		orchestrator: orchestrator,
		store:        st,
		progress:     progress,
	}
}

// ProcessFiles runs the pipeline over each file in order. A fatal parse
// failure on one file fails that file only; the batch continues.
func (p *Processor) ProcessFiles(ctx context.Context, files []string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}
	p.progress.OnDiscoveryComplete(len(files))

	scoreSum := 0.0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		bundle, err := p.ProcessFile(file)
		if err != nil {
			stats.FilesFailed++
			p.progress.OnFileFailed(file, err)
			if errors.Is(err, dxf.ErrStructure) {
				log.Printf("Warning: %s is structurally corrupt: %v\n", file, err)
			} else {
				log.Printf("Warning: failed to process %s: %v\n", file, err)
			}
			continue
		}

		stats.FilesProcessed++
		stats.Components += len(bundle.ProcessedData.BridgeComponents)
		scoreSum += bundle.QualityReport.OverallScore
		p.progress.OnFileProcessed(file, bundle.QualityReport.OverallScore)
	}

	if stats.FilesProcessed > 0 {
		stats.MeanScore = scoreSum / float64(stats.FilesProcessed)
	}
	stats.ProcessingTime = time.Since(start)
	p.progress.OnComplete(stats)
	return stats, nil
}

// ProcessFile runs the pipeline over a single file and persists the bundle
// when a store is configured.
func (p *Processor) ProcessFile(path string) (*pipeline.Bundle, error) {
	parsed, err := p.parser.Parse(path)
	if err != nil {
		return nil, err
	}

	bundle := p.orchestrator.Process(parsed)

	if p.store != nil {
		writer := store.NewRunWriter(p.store.DB())
		if _, err := writer.WriteRun(bundle, path); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}
