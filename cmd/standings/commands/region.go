package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(regionCmd)
}

var regionCmd = &cobra.Command{
	Use:     "region <code>...",
	Short:   "Print the standings of states or provinces.",
	Example: "  standings region TX OK --search doe\n  standings region CA-ON --by-person",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options.Regions = append(options.Regions, args...)
		return execute(cmd)
	},
}
