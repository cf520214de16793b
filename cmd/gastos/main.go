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

	"gastos/internal/amqp"
	"gastos/internal/auth"
	"gastos/internal/cli"
	"gastos/internal/config"
	apphttp "gastos/internal/http"
	"gastos/internal/log"
	"gastos/internal/store"
)

func main() {
	logger, cfg := cli.Bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := cli.OpenStore(ctx, cfg, logger)
	defer st.Close()

	// Accounts only exist on the multi-user backend. The other backends
	// serve a single local profile with no login.
	var authSvc *auth.Service
	if cfg.DataBackend == config.BackendPostgres {
		users, ok := st.(store.UserStore)
		if !ok {
			logger.Error("postgres backend lacks user storage")
			os.Exit(1)
		}
		tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
		authSvc = auth.NewService(users, tokens, logger)
		logger.Info("authentication enabled")
	}

	// The sync queue is optional: without a broker the dashboard still
	// works, records just stay out of the statement export.
	var publisher apphttp.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("sync queue unavailable, continuing without it",
				log.FieldError, err.Error())
		} else {
			defer client.Close()
			publisher = client
			logger.Info("sync queue connected", "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(cfg, st, authSvc, publisher, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
