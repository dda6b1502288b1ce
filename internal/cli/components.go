package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/girderlab/girder/internal/store"
)

var (
	runsLimitFlag  int
	runsJSONFlag   bool
	compFileFlag   string
	compTypeFlag   string
	compLayerFlag  string
	compJSONFlag   bool
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded processing runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

// componentsCmd represents the components command
var componentsCmd = &cobra.Command{
	Use:   "components [run-id]",
	Short: "List the bridge components stored for a run",
	Long: `Components lists the stored bridge components of one processing run.

With no run ID the most recent run is used; --file selects the most recent
run of a specific drawing instead.

Examples:
  # Components of the latest run
  girder components

  # Only girders on the BEAMS layer
  girder components --type girder --layer BEAMS

  # Components of the latest run for one drawing
  girder components --file drawings/span1.dxf
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComponents,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Maximum number of runs to list")
	runsCmd.Flags().BoolVar(&runsJSONFlag, "json", false, "Emit JSON instead of a table")

	rootCmd.AddCommand(componentsCmd)
	componentsCmd.Flags().StringVar(&compFileFlag, "file", "", "Use the latest run of this drawing")
	componentsCmd.Flags().StringVar(&compTypeFlag, "type", "", "Filter by component type")
	componentsCmd.Flags().StringVar(&compLayerFlag, "layer", "", "Filter by source layer")
	componentsCmd.Flags().BoolVar(&compJSONFlag, "json", false, "Emit JSON instead of a table")
}

func openReader() (*store.Store, *store.Reader, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(rootDir, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, store.NewReader(st.DB()), nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, reader, err := openReader()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := reader.ListRuns(runsLimitFlag)
	if err != nil {
		return err
	}

	if runsJSONFlag {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet; run 'girder index' first")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tDRAWING\tSTATUS\tSCORE\tCOMPONENTS\tERRORS\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
			r.ID, r.OriginalFilename, r.Status, r.OverallScore,
			r.ComponentCount, r.ParserErrorCount+r.ProcessingErrorCount, r.CreatedAt)
	}
	return w.Flush()
}

func runComponents(cmd *cobra.Command, args []string) error {
	st, reader, err := openReader()
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(reader, args)
	if err != nil {
		return err
	}

	components, err := reader.Components(runID, compTypeFlag, compLayerFlag)
	if err != nil {
		return err
	}

	if compJSONFlag {
		return printJSON(components)
	}
	if len(components) == 0 {
		fmt.Println("No components match")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tTYPE\tLAYER\tMATERIAL\tGEOMETRIES\tLENGTH (m)")
	for _, c := range components {
		material := c.MaterialName
		if c.MaterialGrade != "" && c.MaterialGrade != "N/A" {
			material = fmt.Sprintf("%s %s", c.MaterialName, c.MaterialGrade)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3f\n",
			c.ComponentID, c.ComponentType, c.Layer, material,
			c.GeometryCount, c.TotalLength)
	}
	return w.Flush()
}

// resolveRunID picks the run to inspect: explicit argument, latest run of
// --file, or the most recent run overall.
func resolveRunID(reader *store.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if compFileFlag != "" {
		run, err := reader.LatestRun(compFileFlag)
		if err != nil {
			return "", err
		}
		if run == nil {
			return "", fmt.Errorf("no runs recorded for %s", compFileFlag)
		}
		return run.ID, nil
	}
	runs, err := reader.ListRuns(1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs recorded yet; run 'girder index' first")
	}
	return runs[0].ID, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
