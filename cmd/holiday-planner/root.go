package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/holiday-planner/internal/config"
	"github.com/i474232898/holiday-planner/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	file     string
	noImport bool
}

// cfg is populated by the persistent pre-run of every command.
var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "holiday-planner",
	Short: "Manage a list of holidays and see what is coming up this week",
	Long: "holiday-planner keeps a deduplicated list of holidays, imports them from\n" +
		"timeanddate.com or a built-in calendar, and decorates the current week with weather.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.file, "file", "", "Holiday data file (.json, or .db/.sqlite for SQLite); overrides HOLIDAYS_FILE")
	rootCmd.Flags().BoolVar(&rootFlags.noImport, "no-import", false, "Skip importing holidays from the configured source at startup")

	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if rootFlags.file != "" {
		c.DataFile = rootFlags.file
	}
	logging.Init(c.LogLevel, c.LogFormat, cmd.ErrOrStderr())
	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
