package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/cli"
	"github.com/PDA080442/personal-finance-app/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	scheduler := services.NewScheduler(repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	// Run one pass on startup so overdue templates do not wait a full tick.
	if count, err := scheduler.ProcessDue(ctx, time.Now().UTC()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "records_created", count)
	}

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, stopping recurring-worker")
			return
		case now := <-ticker.C:
			count, err := scheduler.ProcessDue(ctx, now.UTC())
			if err != nil {
				logger.Error("Periodic processing failed", "error", err)
				continue
			}
			logger.Info("Periodic processing complete",
				"records_created", count,
				"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
		}
	}
}
