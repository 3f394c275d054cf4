package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ASSEMBLYAI_API_KEY", "ASSEMBLYAI_BASE_URL", "STT_POLL_INTERVAL", "STT_POLL_TIMEOUT",
		"STT_POLL_BACKOFF", "STT_POLL_MAX_INTERVAL", "STT_HTTP_TIMEOUT", "LLM_PROVIDER",
		"LMSTUDIO_BASE_URL", "LMSTUDIO_MODEL", "LLM_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL",
		"LLM_TEMPERATURE", "LLM_MAX_TOKENS", "LLM_DETECT_LANGUAGE", "YTDLP_BINARY",
		"YTDLP_AUDIO_FORMAT", "YTDLP_AUDIO_QUALITY", "DOWNLOAD_TIMEOUT", "TEMP_DIR", "TEMP_MAX_AGE", "TEMP_SWEEP_INTERVAL",
		"HOST", "PORT", "MAX_UPLOAD_MB", "WATCH_INPUT", "WATCH_OUTPUT", "WATCH_MAX_CONCURRENT",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantField string
	}{
		{
			name:   "valid config",
			config: Config{STT: STTConfig{APIKey: "key"}},
		},
		{
			name:      "missing transcription key",
			config:    Config{},
			wantField: "ASSEMBLYAI_API_KEY",
		},
		{
			name: "gemini without key",
			config: Config{
				STT: STTConfig{APIKey: "key"},
				LLM: LLMConfig{Provider: "gemini"},
			},
			wantField: "GEMINI_API_KEY",
		},
		{
			name: "unknown provider",
			config: Config{
				STT: STTConfig{APIKey: "key"},
				LLM: LLMConfig{Provider: "claude"},
			},
			wantField: "LLM_PROVIDER",
		},
		{
			name: "unknown backoff",
			config: Config{
				STT: STTConfig{APIKey: "key", PollBackoff: "random"},
			},
			wantField: "STT_POLL_BACKOFF",
		},
		{
			name: "negative poll timeout",
			config: Config{
				STT: STTConfig{APIKey: "key", PollTimeout: -time.Second},
			},
			wantField: "STT_POLL_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "want *ConfigError, got %v", err)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{STT: STTConfig{APIKey: "key"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.assemblyai.com/v2", cfg.STT.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.STT.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.STT.PollTimeout)
	assert.Equal(t, BackoffConstant, cfg.STT.PollBackoff)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, float32(0.2), *cfg.LLM.Temperature)
	assert.Equal(t, 256, cfg.LLM.MaxTokens)
	assert.Equal(t, 10*time.Second, cfg.LLM.ConnectTimeout)
	assert.Equal(t, 300*time.Second, cfg.LLM.ReadTimeout)
	assert.Equal(t, "mp3", cfg.Download.AudioFormat)
	assert.Equal(t, "192K", cfg.Download.AudioQuality)
	assert.Equal(t, 1, cfg.Watch.MaxConcurrent)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Paths.TempMaxAge)
	assert.Equal(t, time.Hour, cfg.Paths.SweepInterval)
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "secret")
	t.Setenv("LMSTUDIO_MODEL", "llama-3")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stt:
  poll_interval: "5s"
  poll_timeout: "20m"
  poll_backoff: "exponential"
llm:
  model: "from-file"
  temperature: 0.1
  max_tokens: 512
download:
  audio_format: "m4a"
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.STT.APIKey)
	assert.Equal(t, 5*time.Second, cfg.STT.PollInterval)
	assert.Equal(t, 20*time.Minute, cfg.STT.PollTimeout)
	assert.Equal(t, BackoffExponential, cfg.STT.PollBackoff)
	assert.Equal(t, "llama-3", cfg.LLM.Model, "environment wins over file")
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, float32(0.1), *cfg.LLM.Temperature)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, "m4a", cfg.Download.AudioFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "secret")
	t.Setenv("STT_POLL_TIMEOUT", "90s")
	t.Setenv("LLM_DETECT_LANGUAGE", "true")
	t.Setenv("TEMP_SWEEP_INTERVAL", "15m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.STT.PollTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Paths.SweepInterval)
	assert.True(t, cfg.LLM.DetectLanguage)
}

func TestLoadZeroTemperature(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "secret")
	t.Setenv("LLM_TEMPERATURE", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Zero(t, *cfg.LLM.Temperature)
}

func TestLoadTemperatureOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "secret")
	t.Setenv("LLM_TEMPERATURE", "3.5")

	_, err := Load("")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "LLM_TEMPERATURE", cfgErr.Field)
}

func TestLoadMissingKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ASSEMBLYAI_API_KEY", cfgErr.Field)
}

func TestLoadBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "secret")
	t.Setenv("STT_POLL_INTERVAL", "soon")

	_, err := Load("")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "STT_POLL_INTERVAL", cfgErr.Field)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	assert.Error(t, err)
}
