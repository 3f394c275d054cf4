package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"convolens/internal/core/domain"
	"convolens/internal/report"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, domain.PipelineResult{
		Title:             "Weekly Sync",
		Transcript:        "hello",
		SmartSummary:      "S",
		KeyPoints:         []string{"one", "two"},
		SmartImprovements: []string{},
	})

	out := buf.String()
	assert.Contains(t, out, "=== Title ===\nWeekly Sync\n")
	assert.Contains(t, out, "- one\n- two\n")
	assert.Contains(t, out, "=== Smart Improvements ===\n"+report.NoImprovements)
	assert.Contains(t, out, "=== Full Transcript ===\nhello\n")
}
