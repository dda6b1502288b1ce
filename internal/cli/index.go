package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/girderlab/girder/internal/batch"
)

var (
	quietFlag bool
	watchFlag bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [directory]",
	Short: "Process every drawing in a directory and record the runs",
	Long: `Index discovers all drawing exchange files under a directory, runs the
preprocessing pipeline over each one, and records every run in the local
store at .girder/girder.db.

Discovery follows the glob patterns in .girder/config.yml; by default all
*.dxf files are processed and the .girder directory is skipped.

Examples:
  # Process all drawings under the current directory
  girder index

  # Process a specific project directory
  girder index /path/to/bridge-project

  # Disable progress bars
  girder index --quiet

  # Keep running and reprocess drawings as they change
  girder index --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexCmd,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and reprocess changed drawings")
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling...")
		cancel()
	}()

	rootDir, err := resolveRootDir(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	discovery, err := batch.NewDiscovery(rootDir, cfg.Paths.Drawings, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("invalid drawing patterns: %w", err)
	}

	st, err := openStore(rootDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	processor := batch.NewProcessor(
		parserFromConfig(cfg),
		orchestratorFromConfig(cfg),
		st,
		NewCLIProgressReporter(quietFlag),
	)

	files, err := discovery.Discover()
	if err != nil {
		return fmt.Errorf("drawing discovery failed: %w", err)
	}
	if len(files) == 0 && !watchFlag {
		fmt.Println("No drawing files found")
		return nil
	}

	stats, err := processor.ProcessFiles(ctx, files)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("processing cancelled")
		}
		return fmt.Errorf("processing failed: %w", err)
	}

	// Progress reporter prints the summary unless quiet.
	if quietFlag {
		fmt.Printf("Processed %d drawings (%d failed) in %.2fs\n",
			stats.FilesProcessed, stats.FilesFailed, stats.ProcessingTime.Seconds())
	}

	if !watchFlag {
		return nil
	}
	return runWatch(ctx, rootDir, discovery, processor)
}

// runWatch blocks until the context is cancelled, reprocessing drawings as
// the watcher reports changes.
func runWatch(ctx context.Context, rootDir string, discovery *batch.Discovery, processor *batch.Processor) error {
	watcher, err := batch.NewWatcher(rootDir, discovery)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	if !quietFlag {
		log.Println("Watching for drawing changes (Ctrl+C to stop)...")
	}

	err = watcher.Start(ctx, func(files []string) {
		// Deleted files show up in the change set too; only reprocess the
		// ones that still exist.
		existing := files[:0]
		for _, f := range files {
			if _, statErr := os.Stat(f); statErr == nil {
				existing = append(existing, f)
			}
		}
		if len(existing) == 0 {
			return
		}
		if _, procErr := processor.ProcessFiles(ctx, existing); procErr != nil && ctx.Err() == nil {
			log.Printf("Warning: reprocessing failed: %v", procErr)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

func resolveRootDir(args []string) (string, error) {
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
