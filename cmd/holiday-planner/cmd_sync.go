package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import the configured year window and save it to the data file",
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cfg.Source == "none" {
		return fmt.Errorf("HOLIDAYS_SOURCE is none; nothing to sync")
	}

	st, backend, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	summary, err := importWindow(ctx, cfg, st, time.Now())
	if err != nil {
		return fmt.Errorf("import holidays: %w", err)
	}
	if err := backend.Save(ctx, st.All()); err != nil {
		return fmt.Errorf("save holidays: %w", err)
	}

	out := cmd.OutOrStdout()
	printSummary(out, summary)
	fmt.Fprintf(out, "Saved %d holidays to %s\n", st.Count(), backend.Path())
	return nil
}
