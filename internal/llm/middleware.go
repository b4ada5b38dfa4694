package llm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"foxie/internal/metrics"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, logging, hooks, etc.).
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit throttles calls to rps per second.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, prompt, schema)
}

// -------- Logging & Hooks --------

// WithLogging logs request size, latency and errors.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	start := time.Now()
	l.log.Debug("llm request", zap.String("client", l.next.Name()), zap.String("phase", phase), zap.Int("bytes", len(prompt)))
	raw, err := l.next.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		l.log.Warn("llm error", zap.String("phase", phase), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return raw, err
	}
	l.log.Debug("llm response", zap.String("phase", phase), zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(raw)))
	return raw, nil
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateJSON.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next LLMClient) LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next LLMClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, PhaseFrom(ctx), prompt)
	}
	raw, err := h.next.GenerateJSON(ctx, prompt, schema)
	if hook != nil {
		hook.After(ctx, PhaseFrom(ctx), raw, err)
	}
	return raw, err
}

// -------- Metrics --------

// WithMetrics counts calls per phase and outcome. A nil registry disables it.
func WithMetrics(reg *metrics.Registry) Middleware {
	return func(next LLMClient) LLMClient {
		if reg == nil {
			return next
		}
		return &measured{next: next, reg: reg}
	}
}

type measured struct {
	next LLMClient
	reg  *metrics.Registry
}

func (m *measured) Name() string { return m.next.Name() }
func (m *measured) Close() error { return m.next.Close() }
func (m *measured) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	start := time.Now()
	raw, err := m.next.GenerateJSON(ctx, prompt, schema)
	m.reg.LLMLatency.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	outcome := "ok"
	switch {
	case err == nil:
	case IsTransient(err):
		outcome = "transient"
	default:
		outcome = "error"
	}
	m.reg.LLMRequests.WithLabelValues(phase, outcome).Inc()
	return raw, err
}
