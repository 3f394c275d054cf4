package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"convolens/internal/app"
	"convolens/internal/config"
	"convolens/internal/core/domain"
	"convolens/internal/logger"
	"convolens/internal/report"
	"convolens/internal/service"
	"convolens/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	lang := flag.String("lang", "", "Optional language code for every file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, dir := range []string{cfg.Watch.Input, cfg.Watch.Output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error(ctx, "Failed to create %s: %v", dir, err)
			os.Exit(1)
		}
	}

	orchestrator, err := app.NewOrchestrator(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		os.Exit(1)
	}
	orchestrator.SweepStale(ctx, cfg.Paths.TempMaxAge)
	go orchestrator.SweepEvery(ctx, cfg.Paths.SweepInterval, cfg.Paths.TempMaxAge)

	handler := newHandler(orchestrator, cfg.Watch.Output, domain.Options{Language: strings.TrimSpace(*lang)}, log)
	w, err := watcher.New(cfg.Watch.Input, handler, log, watcher.Options{MaxConcurrent: cfg.Watch.MaxConcurrent})
	if err != nil {
		log.Error(ctx, "Failed to start watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher stopped: %v", err)
		os.Exit(1)
	}
}

// newHandler analyzes each new file and writes <name>.json and <name>.md into outputDir.
func newHandler(orchestrator *service.Orchestrator, outputDir string, opts domain.Options, log logger.Logger) watcher.EventHandler {
	return func(ctx context.Context, path string) error {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		fileOpts := opts
		fileOpts.Title = name

		result, err := orchestrator.ProcessLocalFile(ctx, path, fileOpts)
		if err != nil {
			return err
		}
		if err := writeOutputs(result, outputDir, name); err != nil {
			return err
		}
		log.Info(ctx, "[DONE] %s -> %s", path, outputDir)
		return nil
	}
}

func writeOutputs(result domain.PipelineResult, outputDir, name string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return report.WriteMarkdown(result, filepath.Join(outputDir, name+".md"))
}
