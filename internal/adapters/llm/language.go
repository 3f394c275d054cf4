package llm

import "github.com/pemistahl/lingua-go"

// detectedLanguages is the candidate set the detector chooses from.
var detectedLanguages = []lingua.Language{
	lingua.English, lingua.French, lingua.German, lingua.Spanish,
	lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Vietnamese,
	lingua.Japanese, lingua.Chinese, lingua.Korean, lingua.Russian,
}

type languageDetector interface {
	DetectLanguageOf(text string) (lingua.Language, bool)
}

// LinguaDetector implements LanguageDetector with lingua-go.
type LinguaDetector struct {
	detector languageDetector
}

// NewLinguaDetector builds the detector. It is expensive; build it once.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectedLanguages...).
			Build(),
	}
}

// Detect returns the language name, e.g. "English", or "" when unsure.
func (d *LinguaDetector) Detect(text string) string {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return lang.String()
}
