package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/girderlab/girder/internal/pipeline"
)

var (
	// Version information - typically set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Girder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Girder %s\n", Version)
		fmt.Printf("Preprocessor: %s\n", pipeline.PreprocessorVersion)
		fmt.Printf("Git commit: %s\n", GitCommit)
		fmt.Printf("Build date: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
