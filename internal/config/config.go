package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Poll backoff strategies.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

type Config struct {
	STT      STTConfig      `yaml:"stt"`
	LLM      LLMConfig      `yaml:"llm"`
	Download DownloadConfig `yaml:"download"`
	Paths    PathsConfig    `yaml:"paths"`
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type STTConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"-"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PollTimeout  time.Duration `yaml:"poll_timeout"` // 0 = wait until the job is terminal
	PollBackoff  string        `yaml:"poll_backoff"`
	MaxInterval  time.Duration `yaml:"max_interval"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
}

const defaultTemperature float32 = 0.2

type LLMConfig struct {
	Provider       string        `yaml:"provider"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"-"`
	GeminiAPIKey   string        `yaml:"-"`
	GeminiModel    string        `yaml:"gemini_model"`
	Temperature    *float32      `yaml:"temperature"` // nil means unset; 0 is a valid choice
	MaxTokens      int           `yaml:"max_tokens"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	DetectLanguage bool          `yaml:"detect_language"`
}

type DownloadConfig struct {
	Binary       string        `yaml:"binary"`
	AudioFormat  string        `yaml:"audio_format"`
	AudioQuality string        `yaml:"audio_quality"`
	Timeout      time.Duration `yaml:"timeout"`
}

type PathsConfig struct {
	Temp          string        `yaml:"temp"`
	TempMaxAge    time.Duration `yaml:"temp_max_age"`
	SweepInterval time.Duration `yaml:"sweep_interval"` // server and watcher sweep this often
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	// A missing .env is fine; variables may be set in the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills defaults and rejects configurations that cannot start.
func (c *Config) Validate() error {
	if c.STT.APIKey == "" {
		return &ConfigError{Field: "ASSEMBLYAI_API_KEY", Message: "transcription API key is required"}
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = ProviderOpenAI
	case ProviderOpenAI:
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "required when LLM_PROVIDER is gemini"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", c.LLM.Provider)}
	}

	c.STT.PollBackoff = strings.ToLower(strings.TrimSpace(c.STT.PollBackoff))
	switch c.STT.PollBackoff {
	case "":
		c.STT.PollBackoff = BackoffConstant
	case BackoffConstant, BackoffExponential:
	default:
		return &ConfigError{Field: "STT_POLL_BACKOFF", Message: fmt.Sprintf("unsupported strategy %q", c.STT.PollBackoff)}
	}

	if c.STT.PollTimeout < 0 {
		return &ConfigError{Field: "STT_POLL_TIMEOUT", Message: "must not be negative"}
	}

	if c.STT.BaseURL == "" {
		c.STT.BaseURL = "https://api.assemblyai.com/v2"
	}
	if c.STT.PollInterval <= 0 {
		c.STT.PollInterval = 3 * time.Second
	}
	if c.STT.MaxInterval <= 0 {
		c.STT.MaxInterval = 30 * time.Second
	}
	if c.STT.HTTPTimeout <= 0 {
		c.STT.HTTPTimeout = 10 * time.Minute
	}

	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:1234/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "Phi-3-mini-4k-instruct"
	}
	if c.LLM.GeminiModel == "" {
		c.LLM.GeminiModel = "gemini-2.5-flash"
	}
	if c.LLM.Temperature == nil {
		t := defaultTemperature
		c.LLM.Temperature = &t
	} else if *c.LLM.Temperature < 0 || *c.LLM.Temperature > 2 {
		return &ConfigError{Field: "LLM_TEMPERATURE", Message: "must be between 0 and 2"}
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 256
	}
	if c.LLM.ConnectTimeout <= 0 {
		c.LLM.ConnectTimeout = 10 * time.Second
	}
	if c.LLM.ReadTimeout <= 0 {
		c.LLM.ReadTimeout = 300 * time.Second
	}

	if c.Download.Binary == "" {
		c.Download.Binary = defaultYtDlpBinary()
	}
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = "mp3"
	}
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = "192K"
	}
	if c.Download.Timeout <= 0 {
		c.Download.Timeout = 15 * time.Minute
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Paths.TempMaxAge <= 0 {
		c.Paths.TempMaxAge = 24 * time.Hour
	}
	if c.Paths.SweepInterval <= 0 {
		c.Paths.SweepInterval = time.Hour
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 512
	}

	if c.Watch.Input == "" {
		c.Watch.Input = "data/input"
	}
	if c.Watch.Output == "" {
		c.Watch.Output = "data/output"
	}
	if c.Watch.MaxConcurrent <= 0 {
		c.Watch.MaxConcurrent = 1
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}

// defaultYtDlpBinary prefers a yt-dlp.exe sitting next to the process.
func defaultYtDlpBinary() string {
	if _, err := os.Stat("yt-dlp.exe"); err == nil {
		return ".\\yt-dlp.exe"
	}
	return "yt-dlp"
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
