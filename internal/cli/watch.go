package cli

import (
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Process all drawings, then reprocess them as they change",
	Long: `Watch runs a full pass over the directory like 'girder index' and then
keeps running, reprocessing drawing files as they are created or modified.
Equivalent to 'girder index --watch'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watchFlag = true
		return runIndexCmd(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}
