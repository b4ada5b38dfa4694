// Package styleguide assembles reference snippets from the knowledge catalog
// into the style-guide block of a generation prompt.
package styleguide

import (
	"context"
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"foxie/internal/knowledge"
	"foxie/internal/types"
)

type cacheKey struct {
	backend types.Backend
	auth    bool
	compact bool
}

// Options tunes a Loader.
type Options struct {
	// Compact strips alternative-implementation blocks to shrink the prompt.
	Compact bool
	// CacheSize bounds the number of assembled guides kept; 0 uses 16.
	CacheSize int
}

// Loader reads catalog examples from a knowledge.Store.
type Loader struct {
	store knowledge.Store
	log   *zap.Logger
	opts  Options
	cache *lru.Cache[cacheKey, string]
}

func NewLoader(store knowledge.Store, log *zap.Logger, opts Options) (*Loader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = 16
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, err
	}
	return &Loader{store: store, log: log, opts: opts, cache: cache}, nil
}

// Load returns the style guide for backend and auth. Missing examples are
// skipped. When the store is absent altogether the result is "" and a
// warning is logged; Load never fails.
func (l *Loader) Load(ctx context.Context, backend types.Backend, authEnabled bool) string {
	key := cacheKey{backend: backend, auth: authEnabled, compact: l.opts.Compact}
	if v, ok := l.cache.Get(key); ok {
		return v
	}
	if l.store == nil || !l.store.Available(ctx) {
		l.log.Warn("style guide store not found; continuing without examples")
		return ""
	}

	snippets := make([]string, 0, 8)
	for _, name := range Names(backend, authEnabled) {
		content, err := l.store.Read(ctx, name)
		if err != nil {
			if !errors.Is(err, knowledge.ErrNotFound) {
				l.log.Warn("read style example", zap.String("name", name), zap.Error(err))
			}
			continue
		}
		snippets = append(snippets, wrap(name, content))
	}
	out := strings.Join(snippets, "\n\n")
	if l.opts.Compact {
		out = Compact(out)
	}
	if out != "" {
		l.cache.Add(key, out)
	}
	l.log.Debug("style guide assembled",
		zap.String("backend", backend.String()),
		zap.Bool("auth", authEnabled),
		zap.Int("examples", len(snippets)),
		zap.Int("bytes", len(out)))
	return out
}

// Example returns one raw catalog example; ok is false when it is missing.
func (l *Loader) Example(ctx context.Context, name string) (string, bool) {
	if l.store == nil {
		return "", false
	}
	content, err := l.store.Read(ctx, name)
	if err != nil {
		return "", false
	}
	if l.opts.Compact {
		content = Compact(content)
	}
	return content, true
}

func wrap(name, content string) string {
	return "--- START: " + name + " ---\n" + strings.TrimRight(content, "\n") + "\n--- END: " + name + " ---"
}
