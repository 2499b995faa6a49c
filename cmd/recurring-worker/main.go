package main

import (
	"context"
	"os"
	"time"

	"tally/internal/backend"
	"tally/internal/cli"
	"tally/internal/ledger"
	"tally/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend != backend.SQLiteBackend.String() {
		logger.Error("The recurring worker requires DATA_BACKEND=sqlite to share state with the API server")
		os.Exit(1)
	}

	b, err := backend.NewFactory(logger).Build(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to assemble backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	processor := services.NewRecurringProcessor(b.Recurring, b.TransactionService, b.CatalogService, ledger.SystemClock{})

	logger.Info("Recurring transaction processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	logger.Info("Running initial recurring transaction processing")
	if count, err := processor.ProcessDue(ctx); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count, err := processor.ProcessDue(ctx)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
					continue
				}
				logger.Info("Periodic processing complete", "transactions_created", count)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
