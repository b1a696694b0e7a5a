package commands

import (
	"standings/internal/standings"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(districtCmd)
}

var districtCmd = &cobra.Command{
	Use:   "district <name>...",
	Short: "Print the combined standings of districts.",
	Long: `Print the combined standings of districts.

The top 10 of every region in a district are merged per division and ranked
again by points. Known districts: ` + strings.Join(standings.DistrictKeys(), ", ") + ".",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options.Districts = append(options.Districts, args...)
		return execute(cmd)
	},
}
