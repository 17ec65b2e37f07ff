package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/cache.db>]",
	Short: "Serves today's passage once (scraping it on a cache miss) and prints a summary.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		t1 := time.Now()
		result, err := app.Service.GetPassage(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("get passage time", "seconds", time.Since(t1).Seconds())

		t := newTable(cmd)
		t.AppendRows([]table.Row{
			{"Day", result.DayKey},
			{"Date", result.FormattedDate},
			{"References", result.References},
			{"Passage", fmt.Sprintf("%d bytes of html", len(result.PassageHtml))},
		})
		t.Render()
		return nil
	},
}
