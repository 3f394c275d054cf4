package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convolens/internal/adapters/llm"
	"convolens/internal/config"
	"convolens/internal/logger"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{STT: config.STTConfig{APIKey: "key"}}
	cfg.Paths.Temp = t.TempDir()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewCompleterDefaultsToOpenAI(t *testing.T) {
	c, err := NewCompleter(context.Background(), validConfig(t).LLM)
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAICompleter{}, c)
}

func TestNewCompleterGemini(t *testing.T) {
	cfg := validConfig(t)
	cfg.LLM.Provider = config.ProviderGemini
	cfg.LLM.GeminiAPIKey = "gemini-key"

	c, err := NewCompleter(context.Background(), cfg.LLM)
	require.NoError(t, err)
	assert.IsType(t, &llm.GeminiCompleter{}, c)
}

func TestNewCompleterUnknown(t *testing.T) {
	cfg := validConfig(t)
	cfg.LLM.Provider = "other"

	_, err := NewCompleter(context.Background(), cfg.LLM)
	assert.Error(t, err)
}

func TestNewOrchestrator(t *testing.T) {
	orch, err := NewOrchestrator(context.Background(), validConfig(t), logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, orch)
}
