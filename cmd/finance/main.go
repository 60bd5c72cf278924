package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PDA080442/personal-finance-app/internal/api"
	"github.com/PDA080442/personal-finance-app/internal/cli"
	"github.com/PDA080442/personal-finance-app/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// Keep the interface nil when no client exists so the ledger skips
	// eventing instead of calling through a typed nil.
	var publisher services.EventPublisher
	if client := cli.InitEventPublisher(logger, cfg); client != nil {
		publisher = client
	}

	ledger := services.NewLedgerService(repo, publisher)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed closing ledger", "error", err)
		}
	}()

	scheduler := services.NewScheduler(repo)

	// Materialize overdue recurring expenses once before serving, so the
	// first client sees an up-to-date ledger.
	if count, err := scheduler.OnSessionStart(context.Background(), time.Now().UTC()); err != nil {
		logger.Error("Startup recurring processing failed", "error", err)
	} else if count > 0 {
		logger.Info("Materialized overdue recurring expenses", "records_created", count)
	}

	srv := api.NewServer(":"+cfg.Port, ledger, scheduler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finance server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
