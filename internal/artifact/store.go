package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists files grouped under a namespace: a run id for generated
// output, a catalog prefix for knowledge examples.
type Store interface {
	Put(ctx context.Context, namespace, path string, content []byte) error
	Get(ctx context.Context, namespace, path string) ([]byte, error)
	List(ctx context.Context, namespace string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

func objectKey(namespace, path string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(path), "/")
	return strings.TrimSuffix(strings.TrimSpace(namespace), "/") + "/" + normalized
}

func checkArgs(namespace, path string) (string, string, error) {
	namespace = strings.TrimSpace(namespace)
	path = strings.TrimSpace(path)
	if namespace == "" {
		return "", "", fmt.Errorf("namespace is required")
	}
	if path == "" {
		return "", "", fmt.Errorf("path is required")
	}
	return namespace, path, nil
}
