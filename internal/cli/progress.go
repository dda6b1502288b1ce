package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/girderlab/girder/internal/batch"
)

// CLIProgressReporter implements batch progress reporting with a progress bar.
type CLIProgressReporter struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet || totalFiles == 0 {
		return
	}
	log.Printf("Processing %d drawing files\n", totalFiles)

	c.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Processing drawings"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string, score float64) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnFileFailed(path string, err error) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *batch.Stats) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}

	fmt.Println()
	fmt.Printf("✓ Processed %d drawings in %.1fs\n",
		stats.FilesProcessed, stats.ProcessingTime.Seconds())
	fmt.Printf("  Components:    %d\n", stats.Components)
	if stats.FilesProcessed > 0 {
		fmt.Printf("  Mean score:    %.2f\n", stats.MeanScore)
	}
	if stats.FilesFailed > 0 {
		fmt.Printf("  Failed files:  %d\n", stats.FilesFailed)
	}
}
