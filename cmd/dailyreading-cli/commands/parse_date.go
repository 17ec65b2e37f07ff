package commands

import (
	"dailyreading-backend/lib/daykey"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseDateCmd)
}

var parseDateCmd = &cobra.Command{
	Use:   "parse-date <text>",
	Short: "Parses a date as written on the announcement page, ex. \"Wed, Nov 12\".",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := daykey.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", day.Key(), day.Formatted())
		return nil
	},
}
