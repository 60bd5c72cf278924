package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"context"

	"github.com/spf13/cobra"

	"github.com/PDA080442/personal-finance-app/internal/cli"
	"github.com/PDA080442/personal-finance-app/internal/config"
	"github.com/PDA080442/personal-finance-app/internal/services"
	"github.com/PDA080442/personal-finance-app/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "financectl",
	Short: "Personal finance ledger",
	Long: `financectl manages a local SQLite ledger of expenses and incomes:
record entries, schedule recurring expenses, and report totals by
category and day.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(recurringCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(exportCmd())
}

func main() {
	cli.LoadEnvFile()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initStorage opens the configured ledger database.
func initStorage() (*storage.SQLiteRepository, *config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return repo, cfg, nil
}

// openLedger is the shared bootstrap for commands that read or write the
// ledger. Overdue recurring expenses are materialized first so every
// command sees an up-to-date ledger, matching the server's startup pass.
func openLedger(ctx context.Context) (*storage.SQLiteRepository, *services.LedgerService, *services.Scheduler, error) {
	repo, cfg, err := initStorage()
	if err != nil {
		return nil, nil, nil, err
	}

	var publisher services.EventPublisher
	if client := cli.InitEventPublisher(slog.Default(), cfg); client != nil {
		publisher = client
	}

	ledger := services.NewLedgerService(repo, publisher)
	scheduler := services.NewScheduler(repo)

	if count, err := scheduler.OnSessionStart(ctx, nowUTC()); err != nil {
		slog.Warn("Recurring expense processing failed", "error", err)
	} else if count > 0 {
		fmt.Printf("Materialized %d due recurring expense(s)\n", count)
	}

	return repo, ledger, scheduler, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
