package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// LLMClient is the single generative primitive used by the scaffolding core:
// prompt in, JSON out. schema constrains the reply shape; nil means any JSON.
type LLMClient interface {
	Name() string
	Close() error
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
}
