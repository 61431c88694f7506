package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/airi-scans/steward/internal/config"
	"github.com/airi-scans/steward/internal/transport"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and the periodic sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var authMiddleware func(http.Handler) http.Handler
	if cfg.Server.WebhookToken != "" {
		authMiddleware = transport.AuthMiddleware(cfg.Server.WebhookToken)
	} else {
		a.logger.Warn("no webhook token configured, endpoints are unauthenticated")
	}

	router := transport.NewServer(a.engine, a.dispatcher, a.projects, a.audit, authMiddleware, a.logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go runSweepLoop(ctx, a, cfg.Sweep.Period.Std())

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func runSweepLoop(ctx context.Context, a *app, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	a.logger.Info("sweep loop started", "period", period)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			intents, err := a.engine.RunSweep(ctx, now)
			if err != nil {
				a.logger.Error("sweep failed", "error", err)
				continue
			}
			a.dispatcher.Dispatch(ctx, intents)
		}
	}
}
