package styleguide

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"foxie/internal/knowledge"
	"foxie/internal/types"
)

type countingStore struct {
	knowledge.Store
	reads int
}

func (c *countingStore) Read(ctx context.Context, name string) (string, error) {
	c.reads++
	return c.Store.Read(ctx, name)
}

func newLoader(t *testing.T, store knowledge.Store, opts Options) *Loader {
	t.Helper()
	l, err := NewLoader(store, nil, opts)
	require.NoError(t, err)
	return l
}

func TestLoad_SelectsByBackendAndAuth(t *testing.T) {
	ctx := context.Background()
	l := newLoader(t, knowledge.Builtin(), Options{})

	sql := l.Load(ctx, types.BackendSQL, false)
	for _, name := range []string{"config.go.example", "main.go.example", "db_session.go.example", "base_model.go.example"} {
		assert.Contains(t, sql, "--- START: "+name+" ---")
		assert.Contains(t, sql, "--- END: "+name+" ---")
	}
	assert.NotContains(t, sql, "mongodb")
	assert.Less(t, strings.Index(sql, "config.go.example"), strings.Index(sql, "main.go.example"))

	mongo := l.Load(ctx, types.BackendMongoDB, false)
	assert.Contains(t, mongo, "--- START: db_session_mongodb.go.example ---")
	assert.NotContains(t, mongo, "--- START: db_session.go.example ---")
}

func TestLoad_AuthExamplesIffAuthEnabled(t *testing.T) {
	ctx := context.Background()
	l := newLoader(t, knowledge.Builtin(), Options{})
	for _, backend := range []types.Backend{types.BackendSQL, types.BackendMongoDB} {
		withAuth := l.Load(ctx, backend, true)
		without := l.Load(ctx, backend, false)
		for _, name := range AuthNames() {
			assert.Contains(t, withAuth, "--- START: "+name+" ---")
			assert.NotContains(t, without, name)
		}
	}
}

func TestLoad_SkipsMissingExamples(t *testing.T) {
	fsys := fstest.MapFS{"kb/main.go.example": {Data: []byte("package main\n")}}
	l := newLoader(t, knowledge.NewFSStore(fsys, "kb"), Options{})
	out := l.Load(context.Background(), types.BackendSQL, true)
	assert.Equal(t, "--- START: main.go.example ---\npackage main\n--- END: main.go.example ---", out)
}

func TestLoad_AbsentStoreWarnsAndReturnsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	absent := knowledge.NewFSStore(fstest.MapFS{}, "missing")
	l, err := NewLoader(absent, zap.New(core), Options{})
	require.NoError(t, err)

	assert.Equal(t, "", l.Load(context.Background(), types.BackendSQL, true))
	assert.Equal(t, 1, logs.Len())
}

func TestLoad_CachesAssembledGuide(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: knowledge.Builtin()}
	l := newLoader(t, store, Options{})

	first := l.Load(ctx, types.BackendSQL, false)
	reads := store.reads
	assert.Equal(t, 4, reads)
	assert.Equal(t, first, l.Load(ctx, types.BackendSQL, false))
	assert.Equal(t, reads, store.reads)

	l.Load(ctx, types.BackendSQL, true)
	assert.Greater(t, store.reads, reads)
}

func TestLoad_CompactDropsAlternatives(t *testing.T) {
	ctx := context.Background()
	full := newLoader(t, knowledge.Builtin(), Options{}).Load(ctx, types.BackendSQL, true)
	compact := newLoader(t, knowledge.Builtin(), Options{Compact: true}).Load(ctx, types.BackendSQL, true)

	assert.Contains(t, full, "ALTERNATIVE")
	assert.NotContains(t, compact, "ALTERNATIVE")
	assert.NotContains(t, compact, "Alternate version")
	assert.Less(t, len(compact), len(full))
	assert.Contains(t, compact, "--- END: security.go.example ---")
}

func TestExample(t *testing.T) {
	l := newLoader(t, knowledge.Builtin(), Options{})
	body, ok := l.Example(context.Background(), "base_model.go.example")
	require.True(t, ok)
	assert.Contains(t, body, "type BaseModel struct")
	_, ok = l.Example(context.Background(), "missing.go.example")
	assert.False(t, ok)
}
