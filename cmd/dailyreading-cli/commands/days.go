package commands

import (
	"dailyreading-backend/lib/daykey"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daysCmd)
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Prints every day that has a cached passage.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		days, err := app.Service.ListDays(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Key", "Date", "References"})
		for _, day := range days {
			formatted := ""
			parsed, err := daykey.ParseKey(day.DayKey)
			if err == nil {
				formatted = parsed.Formatted()
			}
			t.AppendRow(table.Row{day.DayKey, formatted, day.References})
		}
		t.AppendFooter(table.Row{"", "Total", len(days)})
		t.Render()
		return nil
	},
}
