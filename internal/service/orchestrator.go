package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"convolens/internal/adapters/downloader"
	"convolens/internal/core/domain"
	"convolens/internal/core/ports"
	"convolens/internal/logger"
)

// Orchestrator coordinates download, transcription and analysis.
type Orchestrator struct {
	videoDownloader ports.Downloader
	mediaDownloader ports.Downloader
	transcriber     ports.Transcriber
	analyzer        ports.Analyzer
	storage         ports.Storage
	logger          logger.Logger
}

// NewOrchestrator creates a new Orchestrator. mediaDownloader handles direct
// links to media files and may be nil, in which case every URL goes to
// videoDownloader.
func NewOrchestrator(
	videoDownloader ports.Downloader,
	mediaDownloader ports.Downloader,
	transcriber ports.Transcriber,
	analyzer ports.Analyzer,
	storage ports.Storage,
	l logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		videoDownloader: videoDownloader,
		mediaDownloader: mediaDownloader,
		transcriber:     transcriber,
		analyzer:        analyzer,
		storage:         storage,
		logger:          l,
	}
}

// ProcessLocalFile transcribes and analyzes a file already on disk.
func (o *Orchestrator) ProcessLocalFile(ctx context.Context, path string, opts domain.Options) (domain.PipelineResult, error) {
	jobID := uuid.New().String()
	o.logger.Info(ctx, "[JOB %s] Starting local file job: %s", jobID, path)

	transcript, analysis, err := o.transcribeAndAnalyze(ctx, jobID, domain.BranchLocalFile, path, opts.Language)
	if err != nil {
		return domain.PipelineResult{}, err
	}

	title := resolveTitle(domain.DefaultUploadTitle, opts.Title)
	o.logger.Info(ctx, "[JOB %s] Job completed: %q", jobID, title)
	return domain.NewPipelineResult(title, transcript, analysis), nil
}

// ProcessURL downloads the audio behind rawURL, then transcribes and analyzes it.
func (o *Orchestrator) ProcessURL(ctx context.Context, rawURL string, opts domain.Options) (domain.PipelineResult, error) {
	jobID := uuid.New().String()
	rawURL = strings.TrimSpace(rawURL)
	o.logger.Info(ctx, "[JOB %s] Starting URL job: %s", jobID, rawURL)

	if rawURL == "" {
		return domain.PipelineResult{}, o.fail(ctx, jobID, domain.BranchRemoteURL, domain.StageDownload,
			domain.Errorf(domain.ErrInvalidInput, "pipeline.download", "url is empty"))
	}

	dl := o.downloaderFor(rawURL)
	o.logger.Info(ctx, "[JOB %s] Downloading audio (%s)...", jobID, detectSource(rawURL))
	download, err := dl.Download(ctx, rawURL)
	if err != nil {
		return domain.PipelineResult{}, o.fail(ctx, jobID, domain.BranchRemoteURL, domain.StageDownload, err)
	}
	if strings.TrimSpace(download.LocalAudioPath) == "" {
		return domain.PipelineResult{}, o.fail(ctx, jobID, domain.BranchRemoteURL, domain.StageDownload,
			domain.Errorf(domain.ErrProtocol, "pipeline.download", "download returned empty audio path"))
	}
	o.logger.Info(ctx, "[JOB %s] Downloaded %q to %s", jobID, download.Title, download.LocalAudioPath)

	transcript, analysis, err := o.transcribeAndAnalyze(ctx, jobID, domain.BranchRemoteURL, download.LocalAudioPath, opts.Language)
	if err != nil {
		return domain.PipelineResult{}, err
	}

	derived := strings.TrimSpace(download.Title)
	if derived == "" {
		derived = domain.DefaultVideoTitle
	}
	title := resolveTitle(derived, opts.Title)
	o.logger.Info(ctx, "[JOB %s] Job completed: %q", jobID, title)
	return domain.NewPipelineResult(title, transcript, analysis), nil
}

// ProcessUpload persists reader to a temp file, runs ProcessLocalFile on it
// and removes the file afterwards whatever the outcome.
func (o *Orchestrator) ProcessUpload(ctx context.Context, reader io.Reader, filename string, opts domain.Options) (domain.PipelineResult, error) {
	path, err := o.storage.SaveUpload(ctx, reader, filename)
	if err != nil {
		return domain.PipelineResult{}, &domain.StageError{Branch: domain.BranchLocalFile, Stage: domain.StagePersist, Err: err}
	}
	defer func() {
		if err := o.storage.Remove(context.WithoutCancel(ctx), path); err != nil {
			o.logger.Warn(ctx, "failed to remove upload %s: %v", path, err)
		}
	}()

	return o.ProcessLocalFile(ctx, path, opts)
}

// SweepStale removes temp entries older than maxAge left by earlier runs.
func (o *Orchestrator) SweepStale(ctx context.Context, maxAge time.Duration) {
	n, err := o.storage.Sweep(ctx, maxAge)
	if err != nil {
		o.logger.Warn(ctx, "temp sweep failed: %v", err)
		return
	}
	if n > 0 {
		o.logger.Info(ctx, "removed %d stale temp entries", n)
	}
}

// SweepEvery runs SweepStale every interval until ctx is done. Downloads are
// kept after a job, so long-running processes call this to bound the temp dir.
func (o *Orchestrator) SweepEvery(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.SweepStale(ctx, maxAge)
		}
	}
}

func (o *Orchestrator) transcribeAndAnalyze(ctx context.Context, jobID string, branch domain.Branch, path, language string) (string, domain.AnalysisResult, error) {
	o.logger.Info(ctx, "[JOB %s] Transcribing audio...", jobID)
	transcript, err := o.transcriber.Transcribe(ctx, path, language)
	if err != nil {
		return "", domain.AnalysisResult{}, o.fail(ctx, jobID, branch, domain.StageTranscribe, err)
	}
	if strings.TrimSpace(transcript) == "" {
		return "", domain.AnalysisResult{}, o.fail(ctx, jobID, branch, domain.StageTranscribe,
			domain.Errorf(domain.ErrProtocol, "pipeline.transcribe", "transcription returned empty transcript"))
	}
	o.logger.Info(ctx, "[JOB %s] Transcript ready (%d chars)", jobID, len(transcript))

	o.logger.Info(ctx, "[JOB %s] Analyzing transcript...", jobID)
	analysis, err := o.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return "", domain.AnalysisResult{}, o.fail(ctx, jobID, branch, domain.StageAnalyze, err)
	}
	if analysis.KeyPoints == nil || analysis.SmartImprovements == nil {
		return "", domain.AnalysisResult{}, o.fail(ctx, jobID, branch, domain.StageAnalyze,
			domain.Errorf(domain.ErrProtocol, "pipeline.analyze", "analysis result is missing list fields"))
	}
	if analysis.IsFallback() {
		o.logger.Warn(ctx, "[JOB %s] Analysis used the raw model reply", jobID)
	}
	return transcript, analysis, nil
}

func (o *Orchestrator) fail(ctx context.Context, jobID string, branch domain.Branch, stage domain.Stage, err error) error {
	stageErr := &domain.StageError{Branch: branch, Stage: stage, Err: err}
	o.logger.Error(ctx, "[JOB %s] ERROR: %v", jobID, stageErr)
	return stageErr
}

func (o *Orchestrator) downloaderFor(rawURL string) ports.Downloader {
	if o.mediaDownloader != nil && detectSource(rawURL) == sourceMedia {
		return o.mediaDownloader
	}
	return o.videoDownloader
}

const (
	sourceMedia = "media"
	sourceVideo = "video"
)

func detectSource(rawURL string) string {
	if downloader.IsDirectMedia(rawURL) {
		return sourceMedia
	}
	return sourceVideo
}

// resolveTitle prefers a non-blank caller override.
func resolveTitle(derived, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return derived
}
