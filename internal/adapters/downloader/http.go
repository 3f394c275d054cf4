package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"convolens/internal/core/domain"
	"convolens/internal/logger"
)

const op = "http.download"

// mediaExtensions are the URL path suffixes fetched directly instead of through yt-dlp.
var mediaExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".aac": true, ".ogg": true, ".flac": true,
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true,
}

// IsDirectMedia reports whether rawURL points straight at an audio or video file.
func IsDirectMedia(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return mediaExtensions[strings.ToLower(path.Ext(u.Path))]
}

// WorkDirs hands out per-invocation directories.
type WorkDirs interface {
	NewWorkDir(prefix string) (string, error)
}

// HTTPDownloader implements ports.Downloader for direct media links.
type HTTPDownloader struct {
	client *http.Client
	dirs   WorkDirs
	prefix string
	logger logger.Logger
}

// NewHTTPDownloader creates a new HTTPDownloader. A zero timeout means no limit.
func NewHTTPDownloader(timeout time.Duration, dirs WorkDirs, prefix string, l logger.Logger) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{Timeout: timeout},
		dirs:   dirs,
		prefix: prefix,
		logger: l,
	}
}

// Download saves the file behind mediaURL into a fresh work directory.
func (d *HTTPDownloader) Download(ctx context.Context, mediaURL string) (domain.DownloadResult, error) {
	u, err := url.Parse(strings.TrimSpace(mediaURL))
	if err != nil || u.Host == "" {
		return domain.DownloadResult{}, domain.Errorf(domain.ErrInvalidInput, op, "invalid url %q", mediaURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "failed to create request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "failed to download media")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DownloadResult{}, domain.Errorf(domain.ErrDownload, op, "unexpected status code: %d", resp.StatusCode)
	}

	dir, err := d.dirs.NewWorkDir(d.prefix)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "no work directory")
	}

	name := path.Base(u.Path)
	target := filepath.Join(dir, "audio"+strings.ToLower(path.Ext(u.Path)))

	n, err := writeFile(target, resp.Body)
	if err != nil {
		return domain.DownloadResult{}, domain.Wrap(domain.ErrDownload, op, err, "failed to save media")
	}
	d.logger.Debug(ctx, "saved %d bytes to %s", n, target)

	title := strings.TrimSpace(name)
	if title == "" || title == "/" || title == "." {
		title = domain.DefaultVideoTitle
	}
	return domain.DownloadResult{LocalAudioPath: target, Title: title}, nil
}

func writeFile(target string, r io.Reader) (int64, error) {
	file, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target, err)
	}
	n, err := io.Copy(file, r)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return n, err
}
