package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides fields for every environment variable that is set.
func (c *Config) applyEnv() error {
	setString(&c.STT.APIKey, "ASSEMBLYAI_API_KEY")
	setString(&c.STT.BaseURL, "ASSEMBLYAI_BASE_URL")
	setString(&c.STT.PollBackoff, "STT_POLL_BACKOFF")
	if err := setDuration(&c.STT.PollInterval, "STT_POLL_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&c.STT.PollTimeout, "STT_POLL_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.STT.MaxInterval, "STT_POLL_MAX_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&c.STT.HTTPTimeout, "STT_HTTP_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.BaseURL, "LMSTUDIO_BASE_URL")
	setString(&c.LLM.Model, "LMSTUDIO_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.GeminiModel, "GEMINI_MODEL")
	if v, ok := lookup("LLM_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return &ConfigError{Field: "LLM_TEMPERATURE", Message: err.Error()}
		}
		t := float32(f)
		c.LLM.Temperature = &t
	}
	if err := setInt(&c.LLM.MaxTokens, "LLM_MAX_TOKENS"); err != nil {
		return err
	}
	if err := setBool(&c.LLM.DetectLanguage, "LLM_DETECT_LANGUAGE"); err != nil {
		return err
	}

	setString(&c.Download.Binary, "YTDLP_BINARY")
	setString(&c.Download.AudioFormat, "YTDLP_AUDIO_FORMAT")
	setString(&c.Download.AudioQuality, "YTDLP_AUDIO_QUALITY")
	if err := setDuration(&c.Download.Timeout, "DOWNLOAD_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.Paths.Temp, "TEMP_DIR")
	if err := setDuration(&c.Paths.TempMaxAge, "TEMP_MAX_AGE"); err != nil {
		return err
	}
	if err := setDuration(&c.Paths.SweepInterval, "TEMP_SWEEP_INTERVAL"); err != nil {
		return err
	}

	setString(&c.Server.Host, "HOST")
	setString(&c.Server.Port, "PORT")
	if v, ok := lookup("MAX_UPLOAD_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigError{Field: "MAX_UPLOAD_MB", Message: err.Error()}
		}
		c.Server.MaxUploadMB = n
	}

	setString(&c.Watch.Input, "WATCH_INPUT")
	setString(&c.Watch.Output, "WATCH_OUTPUT")
	if err := setInt(&c.Watch.MaxConcurrent, "WATCH_MAX_CONCURRENT"); err != nil {
		return err
	}

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return &ConfigError{Field: key, Message: err.Error()}
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return &ConfigError{Field: key, Message: err.Error()}
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return &ConfigError{Field: key, Message: err.Error()}
	}
	*dst = d
	return nil
}
