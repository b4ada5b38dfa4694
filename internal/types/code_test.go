package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedCode_DuplicatePaths(t *testing.T) {
	code := GeneratedCode{Files: []GeneratedFile{
		{FilePath: "a.go"}, {FilePath: "b.go"}, {FilePath: "a.go"}, {FilePath: "a.go"},
	}}
	assert.Equal(t, []string{"a.go"}, code.DuplicatePaths())
	assert.Equal(t, []string{"a.go", "b.go", "a.go", "a.go"}, code.Paths())

	f, ok := code.Find("b.go")
	require.True(t, ok)
	assert.Equal(t, "b.go", f.FilePath)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend(" SQL ")
	require.NoError(t, err)
	assert.Equal(t, BackendSQL, b)

	b, err = ParseBackend("mongodb")
	require.NoError(t, err)
	assert.True(t, b.IsDocument())

	_, err = ParseBackend("redis")
	assert.Error(t, err)
}
