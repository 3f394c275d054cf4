package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convolens/internal/app"
	"convolens/internal/config"
	"convolens/internal/logger"
	"convolens/internal/transport/httpapi"
)

const version = "v1.0.0"

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orchestrator, err := app.NewOrchestrator(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		os.Exit(1)
	}
	orchestrator.SweepStale(ctx, cfg.Paths.TempMaxAge)
	go orchestrator.SweepEvery(ctx, cfg.Paths.SweepInterval, cfg.Paths.TempMaxAge)

	srv := httpapi.NewServer(orchestrator, log, cfg.Server.MaxUploadMB, version)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "Server starting on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "Server failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info(context.Background(), "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "Shutdown failed: %v", err)
		}
	}
}
