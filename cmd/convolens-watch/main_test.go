package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convolens/internal/core/domain"
)

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	res := domain.NewPipelineResult("standup", "hello", domain.AnalysisResult{SmartSummary: "S", KeyPoints: []string{"a"}})

	require.NoError(t, writeOutputs(res, dir, "standup"))

	data, err := os.ReadFile(filepath.Join(dir, "standup.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 5)
	assert.Equal(t, "standup", decoded["title"])

	assert.FileExists(t, filepath.Join(dir, "standup.md"))
}
