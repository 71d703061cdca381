package main

import (
	"fmt"
	"log/slog"

	"github.com/seralys/inciwise/internal/cli"
	"github.com/seralys/inciwise/internal/config"
	"github.com/seralys/inciwise/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a run to Google Sheets",
		Long: `Export a stored categorization run to Google Sheets.

The report includes a summary block, the category breakdown, and one row
per product. Manual review decisions replace the predicted categories.

Requires Google Sheets credentials; run 'inciwise auth sheets' once to set
them up, or configure a service account.`,
		RunE: runExport,
	}

	// Flags
	cmd.Flags().String("run", "", "Stored run ID (default: latest)")

	// Bind to viper
	_ = viper.BindPFlag("export.run", cmd.Flags().Lookup("run"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	runID := viper.GetString("export.run")

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	run, err := resolveRun(ctx, db, runID)
	if err != nil {
		return err
	}

	rows, err := db.ResultsByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no stored results", run.ID)
	}

	slog.Info("Exporting run to Google Sheets", "run", run.ID, "products", len(rows))

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, run, rows); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d products to %q", len(rows), sheetsCfg.SpreadsheetName)))
	return nil
}
