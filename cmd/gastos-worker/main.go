package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gastos/internal/amqp"
	"gastos/internal/cli"
	"gastos/internal/export/sheets"
	"gastos/internal/log"
	"gastos/internal/worker"
)

func main() {
	logger, cfg := cli.Bootstrap()

	logger.Info("starting gastos-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if cfg.SpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := cli.OpenStore(ctx, cfg, logger)
	defer st.Close()

	writer, err := sheets.New(ctx, cfg.SpreadsheetID, cfg.StatementSheet, logger)
	if err != nil {
		logger.Error("failed to initialize statement export", log.FieldError, err.Error())
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to sync queue", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(st, writer, logger)

	logger.Info("consuming sync queue", "queue", cfg.AMQPQueue)
	if err := syncWorker.Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}
