package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"convolens/internal/app"
	"convolens/internal/config"
	"convolens/internal/core/domain"
	"convolens/internal/logger"
	"convolens/internal/report"
)

func main() {
	file := flag.String("file", "", "Local audio/video file to analyze")
	url := flag.String("url", "", "YouTube or direct media URL to analyze")
	title := flag.String("title", "", "Optional title override")
	lang := flag.String("lang", "", "Optional language code, e.g. 'en'")
	configPath := flag.String("config", "", "Optional YAML config file")
	mdPath := flag.String("md", "", "Write a Markdown report to this path")
	docxPath := flag.String("docx", "", "Write a Word report to this path")
	flag.Parse()

	if strings.TrimSpace(*file) == "" && strings.TrimSpace(*url) == "" {
		fmt.Println("Usage: convolens-cli (-file <path> | -url <url>) [-title <title>] [-lang <code>] [-md <path>] [-docx <path>]")
		fmt.Println("\nExample:")
		fmt.Println("  convolens-cli -file meeting.mp3 -title \"Weekly Sync\"")
		fmt.Println("  convolens-cli -url https://www.youtube.com/watch?v=dQw4w9WgXcQ -lang en")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(ctx, "Received interrupt signal, cancelling...")
		cancel()
	}()

	orchestrator, err := app.NewOrchestrator(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		os.Exit(1)
	}
	orchestrator.SweepStale(ctx, cfg.Paths.TempMaxAge)

	opts := domain.Options{Title: *title, Language: strings.TrimSpace(*lang)}

	var result domain.PipelineResult
	if strings.TrimSpace(*file) != "" {
		result, err = orchestrator.ProcessLocalFile(ctx, *file, opts)
	} else {
		result, err = orchestrator.ProcessURL(ctx, *url, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during processing: %v\n", err)
		os.Exit(1)
	}

	printResult(os.Stdout, result)

	if *mdPath != "" {
		if err := report.WriteMarkdown(result, *mdPath); err != nil {
			log.Error(ctx, "%v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Markdown report saved to %s", *mdPath)
	}
	if *docxPath != "" {
		if err := report.WriteDocx(result, *docxPath); err != nil {
			log.Error(ctx, "%v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Word report saved to %s", *docxPath)
	}
}

func printResult(w io.Writer, res domain.PipelineResult) {
	fmt.Fprintln(w, "=== Title ===")
	fmt.Fprintln(w, res.Title)

	fmt.Fprintln(w, "\n=== Smart Summary ===")
	fmt.Fprintln(w, res.SmartSummary)

	printList(w, "Key Points", res.KeyPoints, report.NoKeyPoints)
	printList(w, "Smart Improvements", res.SmartImprovements, report.NoImprovements)

	fmt.Fprintln(w, "\n=== Full Transcript ===")
	fmt.Fprintln(w, res.Transcript)
}

func printList(w io.Writer, heading string, items []string, empty string) {
	fmt.Fprintf(w, "\n=== %s ===\n", heading)
	if len(items) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}
