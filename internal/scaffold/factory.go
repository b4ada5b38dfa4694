package scaffold

import (
	"context"
	"time"

	"go.uber.org/zap"

	"foxie/internal/llm"
	"foxie/internal/metrics"
)

// ClientFactory builds a model client for a resolved API key.
type ClientFactory func(ctx context.Context, apiKey string) (llm.LLMClient, error)

// GeminiOptions configures GeminiFactory.
type GeminiOptions struct {
	Model   string
	Retry   llm.RetryPolicy
	RPS     float64
	Burst   int
	Log     *zap.Logger
	Metrics *metrics.Registry
}

// GeminiFactory returns a factory producing Gemini clients wrapped with
// hooks, logging, metrics, retry and rate limiting.
func GeminiFactory(o GeminiOptions) ClientFactory {
	return func(ctx context.Context, apiKey string) (llm.LLMClient, error) {
		g, err := llm.NewGeminiClient(ctx, apiKey, o.Model)
		if err != nil {
			return nil, err
		}
		retry := o.Retry
		if o.Metrics != nil && retry.OnRetry == nil {
			retry.OnRetry = func(int, time.Duration, error) { o.Metrics.LLMRetries.Inc() }
		}
		return llm.Wrap(g,
			llm.WithHooks(),
			llm.WithLogging(o.Log),
			llm.WithMetrics(o.Metrics),
			llm.Retry(retry),
			llm.RateLimit(o.RPS, o.Burst),
		), nil
	}
}

// StaticFactory always returns c. Used with llm.ScriptedClient.
func StaticFactory(c llm.LLMClient) ClientFactory {
	return func(context.Context, string) (llm.LLMClient, error) { return c, nil }
}
