package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convolens/internal/core/domain"
	"convolens/internal/logger"
	"convolens/pkg/executor"
)

const op = "ytdlp.download"

// Config controls the yt-dlp invocation.
type Config struct {
	Binary       string
	AudioFormat  string
	AudioQuality string
	Timeout      time.Duration
}

// WorkDirs hands out per-invocation directories.
type WorkDirs interface {
	NewWorkDir(prefix string) (string, error)
}

// YtDlpDownloader uses the local yt-dlp binary to extract the audio track of a video URL.
type YtDlpDownloader struct {
	cfg    Config
	exec   executor.Executor
	dirs   WorkDirs
	prefix string
	logger logger.Logger
}

// NewYtDlpDownloader creates a new downloader. Downloads land in directories
// created by dirs with the given prefix.
func NewYtDlpDownloader(cfg Config, exec executor.Executor, dirs WorkDirs, prefix string, l logger.Logger) *YtDlpDownloader {
	if cfg.Binary == "" {
		cfg.Binary = "yt-dlp"
	}
	if cfg.AudioFormat == "" {
		cfg.AudioFormat = "mp3"
	}
	if cfg.AudioQuality == "" {
		cfg.AudioQuality = "192K"
	}
	return &YtDlpDownloader{cfg: cfg, exec: exec, dirs: dirs, prefix: prefix, logger: l}
}

// Download fetches the best audio stream of videoURL and converts it to the
// configured format.
func (d *YtDlpDownloader) Download(ctx context.Context, videoURL string) (domain.DownloadResult, error) {
	if strings.TrimSpace(videoURL) == "" {
		return domain.DownloadResult{}, domain.Errorf(domain.ErrInvalidInput, op, "empty url")
	}

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	dir, err := d.dirs.NewWorkDir(d.prefix)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "no work directory")
	}

	// -x with --audio-format: run the ffmpeg post-processor
	// --print after_move:title: emit the title once the final file is in place
	args := []string{
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"-x",
		"--audio-format", d.cfg.AudioFormat,
		"--audio-quality", d.cfg.AudioQuality,
		"-o", filepath.Join(dir, "audio.%(ext)s"),
		"--no-simulate",
		"--print", "after_move:title",
		videoURL,
	}

	d.logger.Debug(ctx, "running %s in %s", d.cfg.Binary, dir)
	out, err := d.exec.Execute(ctx, d.cfg.Binary, args...)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "yt-dlp failed for %s", videoURL)
	}

	audioPath, ok := findAudio(dir, d.cfg.AudioFormat)
	if !ok {
		return domain.DownloadResult{}, domain.Errorf(domain.ErrNotFound, op, "audio file not found after download: %s", filepath.Join(dir, "audio.*"))
	}

	return domain.DownloadResult{
		LocalAudioPath: audioPath,
		Title:          parseTitle(out),
	}, nil
}

// findAudio returns the file yt-dlp left in dir. The extension follows the
// container, not the codec (aac gives .m4a, vorbis gives .ogg, best keeps the
// source), so audio.<format> is only the first guess.
func findAudio(dir, format string) (string, bool) {
	guess := filepath.Join(dir, "audio."+format)
	if info, err := os.Stat(guess); err == nil && info.Mode().IsRegular() {
		return guess, true
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "audio.*"))
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".part", ".ytdl", ".tmp":
			continue
		}
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			return m, true
		}
	}
	return "", false
}

// parseTitle takes the last non-empty line yt-dlp printed.
func parseTitle(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	title := strings.TrimSpace(lines[len(lines)-1])
	if title == "" || title == "NA" {
		return domain.DefaultVideoTitle
	}
	return title
}
