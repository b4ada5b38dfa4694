// Package output persists generated files to disk or to an artifact store.
package output

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"foxie/internal/artifact"
	"foxie/internal/logging"
	"foxie/internal/safeio"
	"foxie/internal/types"
)

// Writer stores a generation result and reports where it went.
type Writer interface {
	Write(ctx context.Context, code types.GeneratedCode) (string, error)
}

// DirWriter writes files under Root. Paths that escape the root are
// rejected.
type DirWriter struct {
	Root string
	Log  *zap.Logger
}

func NewDirWriter(root string, log *zap.Logger) *DirWriter {
	return &DirWriter{Root: root, Log: logging.OrNop(log)}
}

func (w *DirWriter) Write(ctx context.Context, code types.GeneratedCode) (string, error) {
	sfs, err := safeio.EnsureRoot(w.Root)
	if err != nil {
		return "", fmt.Errorf("output: open %s: %w", w.Root, err)
	}
	for _, f := range code.Files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		dst, err := sfs.WriteFile(f.FilePath, []byte(f.Content))
		if err != nil {
			return "", fmt.Errorf("output: write %s: %w", f.FilePath, err)
		}
		logging.OrNop(w.Log).Debug("wrote file", zap.String("path", dst))
	}
	return sfs.Root(), nil
}

// ArtifactWriter puts every file under Namespace in an artifact.Store.
// The location it returns is the namespace.
type ArtifactWriter struct {
	Store     artifact.Store
	Namespace string
}

func NewArtifactWriter(store artifact.Store, namespace string) *ArtifactWriter {
	return &ArtifactWriter{Store: store, Namespace: namespace}
}

func (w *ArtifactWriter) Write(ctx context.Context, code types.GeneratedCode) (string, error) {
	ns := strings.Trim(strings.TrimSpace(w.Namespace), "/")
	if ns == "" {
		return "", fmt.Errorf("output: namespace is required")
	}
	for _, f := range code.Files {
		if err := w.Store.Put(ctx, ns, f.FilePath, []byte(f.Content)); err != nil {
			return "", fmt.Errorf("output: put %s: %w", f.FilePath, err)
		}
	}
	return ns, nil
}

// ReadDir loads every regular file under root as a GeneratedCode, used to
// validate an existing project.
func ReadDir(root string) (types.GeneratedCode, error) {
	sfs, err := safeio.NewSafeFS(root)
	if err != nil {
		return types.GeneratedCode{}, err
	}
	var code types.GeneratedCode
	err = sfs.WalkFiles(".", func(rel string) error {
		b, err := sfs.ReadFile(rel)
		if err != nil {
			return err
		}
		code.Files = append(code.Files, types.GeneratedFile{FilePath: rel, Content: string(b)})
		return nil
	})
	return code, err
}
