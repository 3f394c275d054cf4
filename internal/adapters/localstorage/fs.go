package localstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RootName is the subdirectory of the configured temp dir that holds every
// work directory and upload.
const RootName = "convolens"

// Work directory and upload name prefixes. Sweep only touches entries
// carrying one of them.
const (
	PrefixYouTube = "convolens_yt_"
	PrefixMedia   = "convolens_media_"
	PrefixUpload  = "convolens_upload_"
)

var ownedPrefixes = []string{PrefixYouTube, PrefixMedia, PrefixUpload}

// LocalStorage implements ports.Storage on top of a temp root directory.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a new LocalStorage rooted at <baseDir>/convolens.
// An empty baseDir means os.TempDir().
func NewLocalStorage(baseDir string) *LocalStorage {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &LocalStorage{BaseDir: filepath.Join(baseDir, RootName)}
}

// NewWorkDir creates a fresh directory named <prefix><random>.
func (s *LocalStorage) NewWorkDir(prefix string) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp root %s: %w", s.BaseDir, err)
	}
	dir, err := os.MkdirTemp(s.BaseDir, prefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}

// SaveUpload writes reader to a uuid-named file that keeps filename's extension.
func (s *LocalStorage) SaveUpload(ctx context.Context, reader io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp root %s: %w", s.BaseDir, err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	path := filepath.Join(s.BaseDir, PrefixUpload+uuid.New().String()+ext)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file %s: %w", path, err)
	}

	if _, err := io.Copy(file, &ctxReader{ctx: ctx, r: reader}); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}
	return path, nil
}

// Remove deletes path. A path that is already gone is not an error.
func (s *LocalStorage) Remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Sweep removes owned entries whose modification time is older than maxAge.
func (s *LocalStorage) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp root %s: %w", s.BaseDir, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !owned(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.BaseDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func owned(name string) bool {
	for _, p := range ownedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
