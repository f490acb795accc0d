package main

import (
	"context"
	"errors"
	"os"
	"time"

	"tripcounter/internal/amqp"
	"tripcounter/internal/cli"
	"tripcounter/internal/store/sheets"
	"tripcounter/internal/store/sqlite"
	"tripcounter/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting report-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the report worker")
		os.Exit(1)
	}

	// The worker reads report history from the local database and mirrors
	// rows into the spreadsheet.
	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sheetsClient, err := sheets.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewReportSyncWorker(repo, sheetsClient)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	consumeErr := amqp.ConsumeWithRetry(shutdownCtx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.ConsumeRetryMax,
		func(msg *amqp.ReportSavedMessage) error {
			return syncWorker.HandleReportSaved(shutdownCtx, msg)
		})
	if consumeErr != nil && !errors.Is(consumeErr, context.Canceled) {
		logger.Error("Message consumption failed", "error", consumeErr)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker stopped gracefully")
}
