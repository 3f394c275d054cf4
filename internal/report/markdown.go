// Package report renders pipeline results for people.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"convolens/internal/core/domain"
)

// Placeholders shown when a list came back empty.
const (
	NoKeyPoints    = "No key points generated."
	NoImprovements = "No improvements generated."
)

// Markdown renders res as a Markdown document.
func Markdown(res domain.PipelineResult, generated time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", res.Title)
	fmt.Fprintf(&b, "_%s_\n\n", generated.Format("2006-01-02 15:04"))

	b.WriteString("## Smart Summary\n\n")
	b.WriteString(strings.TrimSpace(res.SmartSummary))
	b.WriteString("\n\n")

	writeList(&b, "Key Points", res.KeyPoints, NoKeyPoints)
	writeList(&b, "Smart Improvements", res.SmartImprovements, NoImprovements)

	b.WriteString("## Transcript\n\n")
	b.WriteString(strings.TrimSpace(res.Transcript))
	b.WriteString("\n")
	return b.String()
}

// WriteMarkdown renders res into path.
func WriteMarkdown(res domain.PipelineResult, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(res, time.Now())), 0644); err != nil {
		return fmt.Errorf("write markdown %s: %w", path, err)
	}
	return nil
}

func writeList(b *strings.Builder, heading string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(items) == 0 {
		fmt.Fprintf(b, "%s\n\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
