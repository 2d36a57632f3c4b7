// Package store persists extraction results: to a local directory as
// JSON files, or to a remote webhook endpoint.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avandyck/outliner/internal/outline"
)

// Store persists one outline document under a logical name.
type Store interface {
	Save(ctx context.Context, name string, doc *outline.Document) error
}

// FileStore writes each document as <name>.json in a directory.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Save(_ context.Context, name string, doc *outline.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.Dir, sanitizeName(name)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeName strips any extension and path separators so a document
// name cannot escape the output directory.
func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "document"
	}
	return base
}
