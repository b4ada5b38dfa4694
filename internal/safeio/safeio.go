package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrTraversal is returned for paths that escape the root.
var ErrTraversal = errors.New("safeio: path traversal not allowed")

// SafeFS resolves every path relative to a fixed root and refuses anything
// that lands outside it, including through symlinks.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
}

// NewSafeFS locks all future operations to the given root directory.
// The root path is resolved to an absolute, symlink-free directory.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs}, nil
}

// EnsureRoot creates root (and parents) before opening it.
func EnsureRoot(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return NewSafeFS(root)
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// ReadFile reads a file relative to the root.
func (s *SafeFS) ReadFile(userPath string) ([]byte, error) {
	p, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.ReadFile(p)
}

// WriteFile writes data to a slash-separated relative path under the root,
// creating parent directories as needed. Existing files are overwritten.
func (s *SafeFS) WriteFile(rel string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel)))
	if clean == "." || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("safeio: invalid relative path %q", rel)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrTraversal
	}
	dst := filepath.Join(s.absRoot, clean)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	// A symlinked parent could still point elsewhere.
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolvedDir, s.absRoot) {
		return "", fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolvedDir)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

// WalkFiles calls fn with the slash-separated relative path of every regular
// file under dir (relative to the root), in lexical order.
func (s *SafeFS) WalkFiles(dir string, fn func(rel string) error) error {
	start, err := s.resolve(dir)
	if err != nil {
		return err
	}
	return filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.absRoot, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// Open implements the fs.FS interface (names use "/" separators).
func (s *SafeFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}
	p, err := s.resolve(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *SafeFS) resolve(userPath string) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)
	if clean == "." {
		return s.absRoot, nil
	}

	isAbs := filepath.IsAbs(clean) || (runtime.GOOS == "windows" && filepath.VolumeName(clean) != "")
	if !isAbs {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", ErrTraversal
		}
	}

	joined := clean
	if !isAbs {
		joined = filepath.Join(s.absRoot, clean)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolved)
	}
	return resolved, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path+sep, root)
}
