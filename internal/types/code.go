package types

import (
	"fmt"
	"strings"
)

// Field is one `name:type` pair of a resource. Type is opaque here; it is
// interpreted by the prompt text.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// GeneratedFile is a single file produced by the model or a local template.
// FilePath is relative and forward-slash separated.
type GeneratedFile struct {
	FilePath    string `json:"file_path"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// GeneratedCode is the ordered result handed to a file writer.
type GeneratedCode struct {
	Files []GeneratedFile `json:"files"`
}

// Paths returns the file paths in result order.
func (c GeneratedCode) Paths() []string {
	out := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		out = append(out, f.FilePath)
	}
	return out
}

// Find returns the first file with the given path.
func (c GeneratedCode) Find(path string) (GeneratedFile, bool) {
	for _, f := range c.Files {
		if f.FilePath == path {
			return f, true
		}
	}
	return GeneratedFile{}, false
}

// DuplicatePaths lists paths that occur more than once. A well-formed
// result returns nil.
func (c GeneratedCode) DuplicatePaths() []string {
	seen := make(map[string]int, len(c.Files))
	var dups []string
	for _, f := range c.Files {
		seen[f.FilePath]++
		if seen[f.FilePath] == 2 {
			dups = append(dups, f.FilePath)
		}
	}
	return dups
}

// Backend selects the persistence technology of the generated service.
type Backend string

const (
	BackendSQL     Backend = "sql"
	BackendMongoDB Backend = "mongodb"
)

// ParseBackend accepts "sql" or "mongodb" (case-insensitive).
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendSQL:
		return BackendSQL, nil
	case BackendMongoDB:
		return BackendMongoDB, nil
	default:
		return "", fmt.Errorf("invalid database type %q: must be %q or %q", s, BackendSQL, BackendMongoDB)
	}
}

func (b Backend) String() string { return string(b) }

// IsDocument reports whether the backend is a document store.
func (b Backend) IsDocument() bool { return b == BackendMongoDB }
