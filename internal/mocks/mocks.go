// Package mocks holds func-field test doubles for the ports.
package mocks

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"convolens/internal/core/domain"
)

type MockDownloader struct {
	DownloadFunc func(ctx context.Context, url string) (domain.DownloadResult, error)
	Calls        atomic.Int32
}

func (m *MockDownloader) Download(ctx context.Context, url string) (domain.DownloadResult, error) {
	m.Calls.Add(1)
	return m.DownloadFunc(ctx, url)
}

type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, filePath, language string) (string, error)
	Calls          atomic.Int32
}

func (m *MockTranscriber) Transcribe(ctx context.Context, filePath, language string) (string, error) {
	m.Calls.Add(1)
	return m.TranscribeFunc(ctx, filePath, language)
}

type MockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, transcript string) (domain.AnalysisResult, error)
	Calls       atomic.Int32
}

func (m *MockAnalyzer) Analyze(ctx context.Context, transcript string) (domain.AnalysisResult, error) {
	m.Calls.Add(1)
	return m.AnalyzeFunc(ctx, transcript)
}

// MockStorage falls back to no-ops for nil funcs.
type MockStorage struct {
	NewWorkDirFunc func(prefix string) (string, error)
	SaveUploadFunc func(ctx context.Context, reader io.Reader, filename string) (string, error)
	RemoveFunc     func(ctx context.Context, path string) error
	SweepFunc      func(ctx context.Context, maxAge time.Duration) (int, error)
}

func (m *MockStorage) NewWorkDir(prefix string) (string, error) {
	if m.NewWorkDirFunc == nil {
		return "", nil
	}
	return m.NewWorkDirFunc(prefix)
}

func (m *MockStorage) SaveUpload(ctx context.Context, reader io.Reader, filename string) (string, error) {
	if m.SaveUploadFunc == nil {
		return "", nil
	}
	return m.SaveUploadFunc(ctx, reader, filename)
}

func (m *MockStorage) Remove(ctx context.Context, path string) error {
	if m.RemoveFunc == nil {
		return nil
	}
	return m.RemoveFunc(ctx, path)
}

func (m *MockStorage) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	if m.SweepFunc == nil {
		return 0, nil
	}
	return m.SweepFunc(ctx, maxAge)
}
