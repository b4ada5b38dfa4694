package llm

import (
	"context"
	"encoding/json"
	"time"

	genai "google.golang.org/genai"
)

// RetryPolicy bounds retries of transient overload failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits between attempts; it defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, delay time.Duration, err error)
}

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 300 * time.Millisecond
)

// Retry retries GenerateJSON up to MaxAttempts with exponential backoff
// starting at BaseDelay, but only while the failure is transient (see
// IsTransient). Any other error is returned immediately. If the context is
// canceled, it stops immediately.
func Retry(p RetryPolicy) Middleware {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.Sleep == nil {
		p.Sleep = sleepCtx
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, p: p}
	}
}

type retrying struct {
	next LLMClient
	p    RetryPolicy
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.p.MaxAttempts; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, schema)
		if err == nil {
			return resp, nil
		}
		last = err
		if !IsTransient(err) || i == r.p.MaxAttempts-1 {
			break
		}
		delay := r.p.BaseDelay * time.Duration(1<<i)
		if r.p.OnRetry != nil {
			r.p.OnRetry(i+1, delay, err)
		}
		if err := r.p.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, last
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
