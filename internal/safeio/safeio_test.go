package safeio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeFSAllowsAbsoluteUnderRoot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsys, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fsys.ReadFile(p); err != nil {
		t.Fatalf("ReadFile absolute: %v", err)
	}
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	fsys, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fsys.ReadFile("../etc/passwd"); !errors.Is(err, ErrTraversal) {
		t.Fatalf("ReadFile traversal: want ErrTraversal, got %v", err)
	}
	if _, err := fsys.WriteFile("../x.go", []byte("x")); !errors.Is(err, ErrTraversal) {
		t.Fatalf("WriteFile traversal: want ErrTraversal, got %v", err)
	}
	if _, err := fsys.WriteFile("/abs/x.go", []byte("x")); err == nil {
		t.Fatalf("WriteFile absolute: expected error")
	}
}

func TestSafeFSMissingFileIsNotExist(t *testing.T) {
	fsys, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fsys.ReadFile("missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist, got %v", err)
	}
}

func TestWriteFileCreatesParentsAndWalkFindsThem(t *testing.T) {
	fsys, err := EnsureRoot(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	for _, rel := range []string{"internal/models/task.go", "main.go"} {
		if _, err := fsys.WriteFile(rel, []byte("package x\n")); err != nil {
			t.Fatalf("WriteFile %s: %v", rel, err)
		}
	}
	var got []string
	if err := fsys.WalkFiles(".", func(rel string) error {
		got = append(got, rel)
		return nil
	}); err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}
	want := []string{"internal/models/task.go", "main.go"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("WalkFiles = %v, want %v", got, want)
	}
	b, err := fsys.ReadFile("internal/models/task.go")
	if err != nil || string(b) != "package x\n" {
		t.Fatalf("ReadFile back = %q, %v", b, err)
	}
}
