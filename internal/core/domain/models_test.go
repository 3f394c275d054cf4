package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineResultHasExactlyFiveFields(t *testing.T) {
	analysis := AnalysisResult{
		SmartSummary:      "summary",
		KeyPoints:         []string{"a"},
		SmartImprovements: []string{"b", "c"},
		Form:              FormStructured,
	}

	res := NewPipelineResult("Title", "transcript", analysis)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 5)
	for _, key := range []string{"title", "transcript", "smart_summary", "key_points", "smart_improvements"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "Title", res.Title)
	assert.Equal(t, "transcript", res.Transcript)
	assert.Equal(t, "summary", res.SmartSummary)
	assert.Equal(t, []string{"a"}, res.KeyPoints)
	assert.Equal(t, []string{"b", "c"}, res.SmartImprovements)
}

func TestNewPipelineResultCopiesLists(t *testing.T) {
	analysis := AnalysisResult{KeyPoints: []string{"a"}, SmartImprovements: []string{"b"}}
	res := NewPipelineResult("t", "x", analysis)

	analysis.KeyPoints[0] = "changed"
	analysis.SmartImprovements[0] = "changed"

	assert.Equal(t, []string{"a"}, res.KeyPoints)
	assert.Equal(t, []string{"b"}, res.SmartImprovements)
}

func TestNewPipelineResultNilListsBecomeEmpty(t *testing.T) {
	res := NewPipelineResult("t", "x", AnalysisResult{})

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","transcript":"x","smart_summary":"","key_points":[],"smart_improvements":[]}`, string(raw))
}

func TestJobStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobQueued, false},
		{JobProcessing, false},
		{JobCompleted, true},
		{JobError, true},
		{JobStatus("unknown"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrService, "assemblyai.upload", cause, "upload %s", "a.mp3")

	assert.True(t, errors.Is(err, ErrService))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "assemblyai.upload: service error: upload a.mp3: connection refused", err.Error())

	tagged := &StageError{Branch: BranchRemoteURL, Stage: StageTranscribe, Err: err}
	wrapped := fmt.Errorf("request failed: %w", tagged)

	assert.True(t, errors.Is(wrapped, ErrService))
	assert.Equal(t, ErrService, KindOf(wrapped))

	var se *StageError
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, StageTranscribe, se.Stage)
	assert.Equal(t, BranchRemoteURL, se.Branch)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrTimeout, KindOf(fmt.Errorf("x: %w", ErrTimeout)))
	assert.Equal(t, ErrNotFound, KindOf(Errorf(ErrNotFound, "op", "missing")))
}
