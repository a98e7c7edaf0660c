package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/holiday-planner/internal/cli"
	"github.com/i474232898/holiday-planner/internal/logging"
)

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	st, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if !rootFlags.noImport {
		// Import failures degrade to whatever the data file held.
		if _, err := importWindow(ctx, cfg, st, time.Now()); err != nil {
			logging.New("import").Warn("holiday import failed", "error", err)
		}
	}

	sess, err := cli.NewSession(cli.Options{
		Store:   st,
		Weather: newWeatherService(cfg),
		SaveDir: cfg.SaveDir,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Logger:  logging.New("cli"),
	})
	if err != nil {
		return err
	}
	return sess.Run(ctx)
}
