package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	outputFlag  string
	persistFlag bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <drawing.dxf>",
	Short: "Process a single drawing and emit its result bundle",
	Long: `Process parses one drawing exchange file, runs the full preprocessing
pipeline, and writes the resulting bundle as JSON.

The bundle contains the cleaned bridge components with geometry normalized
to meters, the quality report with per-issue deductions, and the complete
processing error log.

Examples:
  # Process a drawing and print the bundle to stdout
  girder process bridge_plan.dxf

  # Write the bundle to a file
  girder process bridge_plan.dxf -o bridge_plan.json

  # Also record the run in the local store
  girder process bridge_plan.dxf --persist
`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the JSON bundle to this file instead of stdout")
	processCmd.Flags().BoolVar(&persistFlag, "persist", false, "Also record the run in the local store")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]

	rootDir := filepath.Dir(path)
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	parser := parserFromConfig(cfg)
	parsed, err := parser.Parse(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	bundle := orchestratorFromConfig(cfg).Process(parsed)

	if persistFlag {
		st, err := openStore(rootDir, cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		runID, err := storeRun(st, bundle, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Recorded run %s\n", runID)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	data = append(data, '\n')

	if outputFlag == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFlag, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFlag, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s (score %.2f)\n", outputFlag, bundle.QualityReport.OverallScore)
	}
	return nil
}
