package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/i474232898/holiday-planner/internal/storage"
)

var exportFlags struct {
	out string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy the data file into another file (JSON or SQLite by extension)",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "Destination file (required)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	st, src, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if filepath.Clean(exportFlags.out) == filepath.Clean(src.Path()) {
		return fmt.Errorf("export destination is the data file itself")
	}

	dst := storage.Open(exportFlags.out)
	if err := dst.Save(ctx, st.All()); err != nil {
		return fmt.Errorf("export holidays: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d holidays to %s\n", st.Count(), dst.Path())
	return nil
}
