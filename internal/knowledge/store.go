// Package knowledge serves the style-guide example files that are fed to the
// model as reference implementations.
package knowledge

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"foxie/internal/artifact"
	"foxie/internal/safeio"
)

// ErrNotFound is returned by Read for names the store does not hold.
var ErrNotFound = errors.New("knowledge: example not found")

// Store reads catalog examples by file name, e.g. "main.go.example".
type Store interface {
	Read(ctx context.Context, name string) (string, error)
	// Available is false when the backing location does not exist at all.
	Available(ctx context.Context) bool
}

//go:embed gin/*.go.example
var builtin embed.FS

// FSStore reads examples from an fs.FS.
type FSStore struct {
	fsys fs.FS
	dir  string
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *FSStore {
	return &FSStore{fsys: builtin, dir: "gin"}
}

// NewFSStore reads names relative to dir inside fsys.
func NewFSStore(fsys fs.FS, dir string) *FSStore {
	if dir == "" {
		dir = "."
	}
	return &FSStore{fsys: fsys, dir: dir}
}

func (s *FSStore) Read(_ context.Context, name string) (string, error) {
	if s == nil || s.fsys == nil {
		return "", ErrNotFound
	}
	b, err := fs.ReadFile(s.fsys, path.Join(s.dir, cleanName(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return string(b), nil
}

func (s *FSStore) Available(context.Context) bool {
	if s == nil || s.fsys == nil {
		return false
	}
	info, err := fs.Stat(s.fsys, s.dir)
	return err == nil && info.IsDir()
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/" + name), "/")
}

// NewDirStore opens a catalog directory on disk. A missing directory yields
// a store that reports itself unavailable rather than an error.
func NewDirStore(root string) (*FSStore, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &FSStore{}, nil
	}
	sfs, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, err
	}
	return NewFSStore(sfs, "."), nil
}

// ArtifactStore reads examples from an artifact.Store namespace, typically a
// bucket prefix on S3.
type ArtifactStore struct {
	store     artifact.Store
	namespace string
}

func NewArtifactStore(store artifact.Store, namespace string) *ArtifactStore {
	return &ArtifactStore{store: store, namespace: strings.Trim(namespace, "/")}
}

func (s *ArtifactStore) Read(ctx context.Context, name string) (string, error) {
	b, err := s.store.Get(ctx, s.namespace, name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return string(b), nil
}

func (s *ArtifactStore) Available(ctx context.Context) bool {
	names, err := s.store.List(ctx, s.namespace)
	return err == nil && len(names) > 0
}
