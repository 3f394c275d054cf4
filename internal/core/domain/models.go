package domain

// Default titles used when neither the caller nor the source supplies one.
const (
	DefaultUploadTitle = "Uploaded File"
	DefaultVideoTitle  = "YouTube Video"
)

// AnalysisForm records how an AnalysisResult was produced.
type AnalysisForm string

const (
	// FormStructured means the model replied with a parseable JSON object.
	FormStructured AnalysisForm = "structured"
	// FormFallback means the raw model text was used as the summary.
	FormFallback AnalysisForm = "fallback"
)

// AnalysisResult is the normalized output of the language model.
// KeyPoints and SmartImprovements are never nil once normalized.
type AnalysisResult struct {
	SmartSummary      string       `json:"smart_summary"`
	KeyPoints         []string     `json:"key_points"`
	SmartImprovements []string     `json:"smart_improvements"`
	Form              AnalysisForm `json:"-"`
}

// IsFallback reports whether the result came from unparseable model output.
func (a AnalysisResult) IsFallback() bool {
	return a.Form == FormFallback
}

// PipelineResult is the final record of one pipeline invocation.
type PipelineResult struct {
	Title             string   `json:"title"`
	Transcript        string   `json:"transcript"`
	SmartSummary      string   `json:"smart_summary"`
	KeyPoints         []string `json:"key_points"`
	SmartImprovements []string `json:"smart_improvements"`
}

// NewPipelineResult assembles a result from its parts. The list fields are
// copied so later changes to analysis do not leak into the result.
func NewPipelineResult(title, transcript string, analysis AnalysisResult) PipelineResult {
	return PipelineResult{
		Title:             title,
		Transcript:        transcript,
		SmartSummary:      analysis.SmartSummary,
		KeyPoints:         cloneStrings(analysis.KeyPoints),
		SmartImprovements: cloneStrings(analysis.SmartImprovements),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// JobStatus is the lifecycle state of a remote transcription job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// IsTerminal reports whether polling can stop.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobError
}

// TranscriptionJob is a snapshot of a remote transcription job.
type TranscriptionJob struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	Text   string    `json:"text,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// DownloadResult is the local audio produced from a remote URL.
type DownloadResult struct {
	LocalAudioPath string
	Title          string
}

// Options carries the caller-supplied form fields.
type Options struct {
	Title    string // overrides the derived title when non-blank
	Language string // language hint for transcription, e.g. "en"
}
