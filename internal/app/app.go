// Package app wires configuration into a ready pipeline.
package app

import (
	"context"
	"fmt"
	"net/http"

	"convolens/internal/adapters/assemblyai"
	"convolens/internal/adapters/downloader"
	"convolens/internal/adapters/llm"
	"convolens/internal/adapters/localstorage"
	"convolens/internal/adapters/ytdlp"
	"convolens/internal/config"
	"convolens/internal/logger"
	"convolens/internal/service"
	"convolens/pkg/executor"
)

// NewCompleter returns the chat model client selected by cfg.LLM.Provider.
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (llm.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return llm.NewGeminiCompleter(ctx, llm.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: temperature(cfg),
			MaxTokens:   cfg.MaxTokens,
		})
	case config.ProviderOpenAI, "":
		return llm.NewOpenAICompleter(llm.OpenAIConfig{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			Temperature:    temperature(cfg),
			MaxTokens:      cfg.MaxTokens,
			ConnectTimeout: cfg.ConnectTimeout,
			ReadTimeout:    cfg.ReadTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

func temperature(cfg config.LLMConfig) float32 {
	if cfg.Temperature == nil {
		return 0.2
	}
	return *cfg.Temperature
}

// NewOrchestrator builds every adapter from cfg and returns the pipeline.
func NewOrchestrator(ctx context.Context, cfg *config.Config, l logger.Logger) (*service.Orchestrator, error) {
	storage := localstorage.NewLocalStorage(cfg.Paths.Temp)

	video := ytdlp.NewYtDlpDownloader(ytdlp.Config{
		Binary:       cfg.Download.Binary,
		AudioFormat:  cfg.Download.AudioFormat,
		AudioQuality: cfg.Download.AudioQuality,
		Timeout:      cfg.Download.Timeout,
	}, executor.New(), storage, localstorage.PrefixYouTube, l)

	media := downloader.NewHTTPDownloader(cfg.Download.Timeout, storage, localstorage.PrefixMedia, l)

	transcriber := assemblyai.NewClient(assemblyai.Config{
		BaseURL:      cfg.STT.BaseURL,
		APIKey:       cfg.STT.APIKey,
		PollInterval: cfg.STT.PollInterval,
		PollTimeout:  cfg.STT.PollTimeout,
		Exponential:  cfg.STT.PollBackoff == config.BackoffExponential,
		MaxInterval:  cfg.STT.MaxInterval,
		HTTPClient:   &http.Client{Timeout: cfg.STT.HTTPTimeout},
	}, l)
	l.Debug(ctx, "transcriber: %s", transcriber)

	completer, err := NewCompleter(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	var detector llm.LanguageDetector
	if cfg.LLM.DetectLanguage {
		detector = llm.NewLinguaDetector()
	}

	analyzer := llm.NewAnalyzer(completer, detector, l)
	return service.NewOrchestrator(video, media, transcriber, analyzer, storage, l), nil
}
