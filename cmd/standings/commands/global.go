package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(globalCmd)
}

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Print the world standings.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		options.Global = true
		return execute(cmd)
	},
}
