package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/PDA080442/personal-finance-app/internal/cli"
	"github.com/PDA080442/personal-finance-app/internal/export"
	"github.com/PDA080442/personal-finance-app/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting sheets-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required, sheets-worker consumes record events")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	client := cli.InitEventPublisher(logger, cfg)
	if client == nil {
		logger.Error("Failed to connect to AMQP broker")
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewSyncWorker(exporter)
	if err := w.Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("sheets-worker stopped gracefully")
}
