package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure. Kinds are errors themselves so callers
// can write errors.Is(err, domain.ErrNotFound).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrInvalidInput  Kind = "invalid input"
	ErrNotFound      Kind = "not found"
	ErrDownload      Kind = "download failed"
	ErrService       Kind = "service error"
	ErrProtocol      Kind = "protocol error"
	ErrTranscription Kind = "transcription error"
	ErrTimeout       Kind = "timeout"
)

// Error is returned by adapters.
type Error struct {
	Kind Kind
	Op   string // adapter operation, e.g. "assemblyai.upload"
	Msg  string
	Err  error
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around a cause.
func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Branch names the pipeline entry point.
type Branch string

const (
	BranchLocalFile Branch = "local_file"
	BranchRemoteURL Branch = "remote_url"
)

// Stage names a pipeline step.
type Stage string

const (
	StagePersist    Stage = "persist"
	StageDownload   Stage = "download"
	StageTranscribe Stage = "transcribe"
	StageAnalyze    Stage = "analyze"
)

// StageError tags a failure with the branch and stage it happened in.
type StageError struct {
	Branch Branch
	Stage  Stage
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Branch, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// KindOf returns the Kind found in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}
