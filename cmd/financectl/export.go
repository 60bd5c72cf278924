package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PDA080442/personal-finance-app/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger",
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export all records as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, ledger, _, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := ledger.ListRecords(ctx)
			if err != nil {
				return err
			}

			if outFlag == "" {
				return export.WriteCSV(os.Stdout, records)
			}
			if err := export.WriteCSVFile(outFlag, records); err != nil {
				return err
			}
			fmt.Printf("Wrote %d record(s) to %s\n", len(records), outFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Append all records to the configured Google Sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, cfg, err := initStorage()
			if err != nil {
				return err
			}
			defer repo.Close()

			if cfg.GoogleSpreadsheetID == "" {
				return fmt.Errorf("GOOGLE_SPREADSHEET_ID is not configured")
			}

			records, err := repo.ListRecords(ctx)
			if err != nil {
				return err
			}

			exporter, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
			if err != nil {
				return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}
			if err := exporter.Export(ctx, records); err != nil {
				return err
			}
			fmt.Printf("Appended %d record(s) to spreadsheet %s\n", len(records), cfg.GoogleSpreadsheetID)
			return nil
		},
	}
}
