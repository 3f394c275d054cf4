package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convolens/internal/core/domain"
)

func sample() domain.PipelineResult {
	return domain.PipelineResult{
		Title:             "Weekly Sync",
		Transcript:        "Hello world.\nSecond line.",
		SmartSummary:      "A short sync.",
		KeyPoints:         []string{"Ship on Friday", "Hire a designer"},
		SmartImprovements: []string{},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sample(), time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))

	assert.Contains(t, md, "# Weekly Sync\n")
	assert.Contains(t, md, "_2026-03-01 09:30_")
	assert.Contains(t, md, "## Smart Summary\n\nA short sync.")
	assert.Contains(t, md, "- Ship on Friday\n- Hire a designer\n")
	assert.Contains(t, md, "## Smart Improvements\n\n"+NoImprovements)
	assert.NotContains(t, md, NoKeyPoints)
	assert.Contains(t, md, "## Transcript\n\nHello world.\nSecond line.\n")
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, WriteMarkdown(sample(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Weekly Sync")
}

func TestWriteDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, WriteDocx(sample(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "PK", string(data[:2]), "docx is a zip archive")
}
