package llm

import (
	"context"
	"strings"

	"convolens/internal/core/domain"
	"convolens/internal/logger"
)

// Completer sends one system/user exchange to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LanguageDetector names the language a transcript is written in.
// It returns "" when the language is not recognized.
type LanguageDetector interface {
	Detect(text string) string
}

// Analyzer implements ports.Analyzer on top of a Completer.
type Analyzer struct {
	completer Completer
	detector  LanguageDetector
	logger    logger.Logger
}

// NewAnalyzer creates an Analyzer. detector may be nil.
func NewAnalyzer(completer Completer, detector LanguageDetector, l logger.Logger) *Analyzer {
	return &Analyzer{completer: completer, detector: detector, logger: l}
}

// Analyze asks the model for a summary, key points and improvements.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) (domain.AnalysisResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return domain.AnalysisResult{}, domain.Errorf(domain.ErrInvalidInput, "llm.analyze", "transcript is empty")
	}

	var language string
	if a.detector != nil {
		language = a.detector.Detect(transcript)
		if language != "" {
			a.logger.Debug(ctx, "detected transcript language: %s", language)
		}
	}

	content, err := a.completer.Complete(ctx, systemPrompt, buildUserPrompt(transcript, language))
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result := ParseAnalysis(content)
	if result.IsFallback() {
		a.logger.Warn(ctx, "model reply was not a JSON object, using raw text as summary")
	}
	return result, nil
}
