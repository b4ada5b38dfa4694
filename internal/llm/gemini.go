package llm

import (
	"context"
	"encoding/json"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, retries, logging, hooks) are applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for apiKey. The key must come from the
// caller; the genai SDK's environment fallback is never relied on.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON asks for application/json constrained by schema and returns
// the model's JSON as json.RawMessage.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if t, ok := TemperatureFrom(ctx); ok {
		cfg.Temperature = genai.Ptr(t)
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, NewPermanentError(ErrInvalidJSON)
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return json.RawMessage(b.String()), nil
}
