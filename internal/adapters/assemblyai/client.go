package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"convolens/internal/core/domain"
	"convolens/internal/logger"
)

const defaultBaseURL = "https://api.assemblyai.com/v2"

// errPending marks a poll that found the job still running.
var errPending = errors.New("transcript not ready")

// Config configures the client.
type Config struct {
	BaseURL string
	APIKey  string

	// PollInterval is the fixed delay between polls, or the first delay
	// when Exponential is set.
	PollInterval time.Duration
	// PollTimeout bounds the total wait for a terminal status. 0 waits forever.
	PollTimeout time.Duration
	Exponential bool
	MaxInterval time.Duration

	HTTPClient *http.Client
}

// Client implements ports.Transcriber against an AssemblyAI-compatible REST API.
type Client struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, l logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.MaxInterval < cfg.PollInterval {
		cfg.MaxInterval = cfg.PollInterval
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{cfg: cfg, client: client, logger: l}
}

// Transcribe uploads the file, creates a transcription job and waits for it.
func (c *Client) Transcribe(ctx context.Context, filePath, language string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return "", domain.Errorf(domain.ErrNotFound, "assemblyai.transcribe", "file not found: %s", filePath)
	}

	audioURL, err := c.upload(ctx, filePath)
	if err != nil {
		return "", err
	}

	id, err := c.createTranscript(ctx, audioURL, strings.TrimSpace(language))
	if err != nil {
		return "", err
	}
	c.logger.Info(ctx, "transcript %s created, polling", id)

	job, err := c.waitForTranscript(ctx, id)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(job.Text), nil
}

func (c *Client) upload(ctx context.Context, filePath string) (string, error) {
	const op = "assemblyai.upload"

	file, err := os.Open(filePath)
	if err != nil {
		return "", domain.Wrap(domain.ErrNotFound, op, err, "open %s", filePath)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", file)
	if err != nil {
		return "", domain.Wrap(domain.ErrService, op, err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if info, err := file.Stat(); err == nil {
		req.ContentLength = info.Size()
	}

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(op, req, &result); err != nil {
		return "", err
	}
	if result.UploadURL == "" {
		return "", domain.Errorf(domain.ErrProtocol, op, "response has no upload_url")
	}
	return result.UploadURL, nil
}

func (c *Client) createTranscript(ctx context.Context, audioURL, language string) (string, error) {
	const op = "assemblyai.create"

	body := map[string]string{"audio_url": audioURL}
	if language != "" {
		body["language_code"] = language
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", domain.Wrap(domain.ErrService, op, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", domain.Wrap(domain.ErrService, op, err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(op, req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", domain.Errorf(domain.ErrProtocol, op, "response has no id")
	}
	return result.ID, nil
}

// waitForTranscript polls until the job is terminal, the poll bound passes or ctx ends.
func (c *Client) waitForTranscript(ctx context.Context, id string) (domain.TranscriptionJob, error) {
	const op = "assemblyai.poll"

	operation := func() (domain.TranscriptionJob, error) {
		job, err := c.getTranscript(ctx, id)
		if err != nil {
			return job, backoff.Permanent(err)
		}
		switch job.Status {
		case domain.JobCompleted:
			return job, nil
		case domain.JobError:
			return job, backoff.Permanent(domain.Errorf(domain.ErrTranscription, op, "transcription error: %s", job.Error))
		default:
			// queued, processing and anything unrecognized
			return job, errPending
		}
	}

	notify := func(err error, next time.Duration) {
		c.logger.Debug(ctx, "transcript %s not ready, next poll in %s", id, next)
	}

	job, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.policy()),
		backoff.WithMaxElapsedTime(c.cfg.PollTimeout),
		backoff.WithNotify(notify),
	)
	if err == nil {
		return job, nil
	}

	switch {
	case errors.Is(err, errPending):
		return job, domain.Errorf(domain.ErrTimeout, op, "transcript %s not completed within %s", id, c.cfg.PollTimeout)
	case ctx.Err() != nil && domain.KindOf(err) == "":
		return job, domain.Wrap(domain.ErrService, op, err, "polling transcript %s aborted", id)
	default:
		return job, err
	}
}

func (c *Client) policy() backoff.BackOff {
	if !c.cfg.Exponential {
		return backoff.NewConstantBackOff(c.cfg.PollInterval)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.PollInterval
	b.MaxInterval = c.cfg.MaxInterval
	b.Multiplier = 1.5
	b.RandomizationFactor = 0
	return b
}

func (c *Client) getTranscript(ctx context.Context, id string) (domain.TranscriptionJob, error) {
	const op = "assemblyai.poll"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/transcript/"+id, nil)
	if err != nil {
		return domain.TranscriptionJob{}, domain.Wrap(domain.ErrService, op, err, "failed to create request")
	}

	var result struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Text   *string `json:"text"`
		Error  *string `json:"error"`
	}
	if err := c.do(op, req, &result); err != nil {
		return domain.TranscriptionJob{}, err
	}

	job := domain.TranscriptionJob{ID: id, Status: domain.JobStatus(result.Status)}
	if result.Text != nil {
		job.Text = *result.Text
	}
	if result.Error != nil {
		job.Error = *result.Error
	}
	return job, nil
}

// do sends req with the API key and decodes a 2xx JSON body into out.
func (c *Client) do(op string, req *http.Request, out any) error {
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Wrap(domain.ErrService, op, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Wrap(domain.ErrService, op, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Errorf(domain.ErrService, op, "status %d, body: %s", resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.Wrap(domain.ErrProtocol, op, err, "decode response")
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// String describes the poll policy for startup logs.
func (c *Client) String() string {
	mode := "constant"
	if c.cfg.Exponential {
		mode = "exponential"
	}
	bound := "unbounded"
	if c.cfg.PollTimeout > 0 {
		bound = c.cfg.PollTimeout.String()
	}
	return fmt.Sprintf("assemblyai(%s, poll=%s %s, max wait=%s)", c.cfg.BaseURL, c.cfg.PollInterval, mode, bound)
}
