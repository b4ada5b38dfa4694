package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes every call made through a client wrapped by WithHooks.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string)
	After(ctx context.Context, phase string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyPhase struct{}
type ctxKeyTemperature struct{}

// WithHook attaches a PromptHook to the context used by GenerateJSON.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// WithPhase tags calls with a phase name ("plan", "reason", "file", "scaffold").
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// WithTemperature overrides the sampling temperature for calls made with ctx.
func WithTemperature(ctx context.Context, t float32) context.Context {
	return context.WithValue(ctx, ctxKeyTemperature{}, t)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// TemperatureFrom returns the temperature override, if any.
func TemperatureFrom(ctx context.Context) (float32, bool) {
	if v := ctx.Value(ctxKeyTemperature{}); v != nil {
		if t, ok := v.(float32); ok {
			return t, true
		}
	}
	return 0, false
}
