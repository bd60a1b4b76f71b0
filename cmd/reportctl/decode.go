package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <command>...",
	Short: "Print the column legend for mission commands",
	Long: `Print the header labels the mission table shows when a row of the
given command type is selected. Unknown commands use the WAYPOINT legend.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := missionData()
		if err != nil {
			return err
		}
		for _, c := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c, strings.Join(data.Legend.Headers(c), " | "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
