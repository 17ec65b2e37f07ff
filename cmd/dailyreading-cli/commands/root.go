package commands

import (
	"context"
	"dailyreading-backend/internal/application"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/configutil"
	configlibsql "dailyreading-backend/lib/configutil/libsql"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbFile     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dailyreading-cli",
	Short:        "dailyreading-cli scrapes and inspects the daily reading passage cache.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read.")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "Use this sqlite file instead of the configured database.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Dump upstream requests to .dev/resty.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApplication reads the config, a missing config file is fine as long as
// --db is given.
func openApplication(ctx context.Context) (application.Application, error) {
	cfg, err := configutil.ReadConfig[application.Config](configPath)
	if err != nil && !(os.IsNotExist(err) && dbFile != "") {
		return application.Application{}, err
	}
	if dbFile != "" {
		cfg.Database = configlibsql.Struct{File: dbFile}
	}

	opts := application.Options{Telemetry: telemetry.SlogAPI{}}
	if verbose {
		opts.RestyOutputDir = ".dev/resty"
	}
	return application.New(ctx, cfg, opts)
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
