package llm

import (
	"encoding/json"
	"strings"

	"convolens/internal/core/domain"
)

// ParseAnalysis turns raw model output into an AnalysisResult. It never fails:
// output that is not a JSON object becomes a fallback result whose summary is
// the trimmed raw text.
func ParseAnalysis(content string) domain.AnalysisResult {
	var decoded any
	if err := json.Unmarshal([]byte(stripFences(content)), &decoded); err != nil {
		return fallback(content)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return fallback(content)
	}

	return domain.AnalysisResult{
		SmartSummary:      normalizeSummary(obj["smart_summary"]),
		KeyPoints:         normalizeList(obj["key_points"]),
		SmartImprovements: normalizeList(obj["smart_improvements"]),
		Form:              domain.FormStructured,
	}
}

func fallback(content string) domain.AnalysisResult {
	return domain.AnalysisResult{
		SmartSummary:      strings.TrimSpace(content),
		KeyPoints:         []string{},
		SmartImprovements: []string{},
		Form:              domain.FormFallback,
	}
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func normalizeSummary(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return encode(t)
	}
}

// normalizeList coerces v to a list of strings. A string becomes a
// one-element list, anything that is not an array becomes empty.
func normalizeList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch s := item.(type) {
			case nil:
			case string:
				out = append(out, s)
			default:
				out = append(out, encode(s))
			}
		}
		return out
	default:
		return []string{}
	}
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
