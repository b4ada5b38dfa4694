package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foxie/internal/artifact"
	"foxie/internal/types"
)

func sample() types.GeneratedCode {
	return types.GeneratedCode{Files: []types.GeneratedFile{
		{FilePath: "main.go", Content: "package main\n"},
		{FilePath: "internal/models/task.go", Content: "package models\n"},
	}}
}

func TestDirWriterCreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "todo")
	loc, err := NewDirWriter(root, nil).Write(context.Background(), sample())
	require.NoError(t, err)
	assert.NotEmpty(t, loc)

	b, err := os.ReadFile(filepath.Join(root, "internal", "models", "task.go"))
	require.NoError(t, err)
	assert.Equal(t, "package models\n", string(b))
}

func TestDirWriterRejectsTraversal(t *testing.T) {
	code := types.GeneratedCode{Files: []types.GeneratedFile{{FilePath: "../escape.go", Content: "x"}}}
	_, err := NewDirWriter(t.TempDir(), nil).Write(context.Background(), code)
	assert.Error(t, err)
}

func TestReadDirRoundTrip(t *testing.T) {
	root := t.TempDir()
	_, err := NewDirWriter(root, nil).Write(context.Background(), sample())
	require.NoError(t, err)

	code, err := ReadDir(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.go", "internal/models/task.go"}, code.Paths())
}

func TestArtifactWriter(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewMemoryStore()
	loc, err := NewArtifactWriter(store, "/run-1/").Write(ctx, sample())
	require.NoError(t, err)
	assert.Equal(t, "run-1", loc)

	paths, err := store.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"internal/models/task.go", "main.go"}, paths)

	_, err = NewArtifactWriter(store, " ").Write(ctx, sample())
	assert.Error(t, err)
}
