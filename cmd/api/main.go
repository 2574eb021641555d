package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"latexme/internal/bootstrap"
	"latexme/internal/llm"
	"latexme/internal/shared/config"
	"latexme/internal/shared/server"
	"latexme/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		var cfgErr *llm.ConfigurationError
		if errors.As(err, &cfgErr) {
			telemetry.Fatal("config.invalid", map[string]any{
				"provider": cfgErr.Provider,
				"key":      cfgErr.Key,
				"err":      err.Error(),
			})
		}
		telemetry.Fatal("bootstrap.failed", map[string]any{"err": err.Error()})
	}

	app.Workspaces.StartSweeper(ctx, cfg.WorkspaceSweepInterval)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		telemetry.Info("server.starting", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Fatal("server.error", map[string]any{"err": err.Error()})
		}
	}()

	<-ctx.Done()
	telemetry.Info("server.shutdown_requested", map[string]any{"timeout": shutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("server.shutdown_failed", map[string]any{"err": err.Error()})
	}

	waitDone := make(chan struct{})
	go func() {
		app.Workspaces.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-shutdownCtx.Done():
		telemetry.Warn("server.shutdown_timeout", map[string]any{"reason": "in-flight generation calls still running"})
	}
}
