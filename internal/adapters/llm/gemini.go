package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"convolens/internal/core/domain"
)

const opGemini = "llm.gemini"

// GeminiConfig configures the Gemini completer.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GeminiCompleter implements Completer with the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiCompleter creates the Gemini client.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.Wrap(domain.ErrService, opGemini, err, "create client")
	}
	return &GeminiCompleter{client: client, cfg: cfg}, nil
}

// Complete sends the prompt with system as the system instruction.
func (g *GeminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.cfg.Temperature),
		MaxOutputTokens:   int32(g.cfg.MaxTokens),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(user), config)
	if err != nil {
		return "", domain.Wrap(domain.ErrService, opGemini, err, "generate content")
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", domain.Errorf(domain.ErrProtocol, opGemini, "empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}
