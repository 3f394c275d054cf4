package ports

import (
	"context"
	"io"
	"time"

	"convolens/internal/core/domain"
)

// Downloader defines the contract for turning a remote URL into local audio.
type Downloader interface {
	// Download fetches the media behind url and extracts its audio.
	// The returned path exists on disk when err is nil.
	Download(ctx context.Context, url string) (domain.DownloadResult, error)
}

// Transcriber defines the contract for speech-to-text services.
type Transcriber interface {
	// Transcribe returns the plain-text transcript of the audio file.
	// language is an optional hint such as "en".
	Transcribe(ctx context.Context, filePath, language string) (string, error)
}

// Analyzer defines the contract for transcript analysis.
type Analyzer interface {
	// Analyze never returns a result with nil list fields.
	Analyze(ctx context.Context, transcript string) (domain.AnalysisResult, error)
}

// Storage defines the contract for transient files owned by one invocation.
type Storage interface {
	// NewWorkDir creates a fresh, uniquely named directory.
	NewWorkDir(prefix string) (string, error)

	// SaveUpload persists reader under a unique name keeping filename's extension.
	SaveUpload(ctx context.Context, reader io.Reader, filename string) (string, error)

	// Remove deletes a file or directory created by this storage.
	Remove(ctx context.Context, path string) error

	// Sweep removes entries older than maxAge and returns how many were removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}
