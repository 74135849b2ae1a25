package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// ArtifactSource yields the raw bytes of a model bundle
type ArtifactSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileStorage implements ArtifactSource using the local file system
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed artifact source
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (fs *FileStorage) Name() string {
	return fs.path
}

// Open opens the bundle for reading
func (fs *FileStorage) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, nil
}

// Save writes the artifact as JSON, gzip-compressed when the path ends in .gz
func (fs *FileStorage) Save(a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.Marshal(encodeBundle(a))
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	f, err := os.Create(fs.path)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	if err := writeBundle(f, data, strings.HasSuffix(fs.path, ".gz")); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close artifact file: %w", err)
	}
	return nil
}

func writeBundle(w io.Writer, data []byte, compress bool) error {
	if compress {
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to flush artifact: %w", err)
		}
		return nil
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}
