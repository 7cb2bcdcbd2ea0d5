package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	qrdrop_errors "qrdrop/pkg/errors"
)

// LocalBackend stores uploads as plain files in a single directory, the same
// shape the uploads/ directory of a dev machine has.
type LocalBackend struct {
	basePath string
}

// NewLocalBackend creates the upload directory if needed
func NewLocalBackend(basePath string) (*LocalBackend, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalBackend{basePath: basePath}, nil
}

func (b *LocalBackend) Store(ctx context.Context, name string, content io.Reader, contentType string) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	finalPath := filepath.Join(b.basePath, name)

	// Write to a temp file first, then rename, so a failed upload never
	// leaves a half-written object under the final name.
	tempPath := finalPath + fmt.Sprintf(".tmp.%d", time.Now().UnixNano())
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		tempFile.Close()
		if _, err := os.Stat(tempPath); err == nil {
			os.Remove(tempPath)
		}
	}()

	written, err := io.Copy(tempFile, content)
	if err != nil {
		return 0, fmt.Errorf("failed to write content: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync file: %w", err)
	}
	tempFile.Close()

	if err := os.Rename(tempPath, finalPath); err != nil {
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return written, nil
}

func (b *LocalBackend) Retrieve(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(b.basePath, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, qrdrop_errors.ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func (b *LocalBackend) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(b.basePath, name))
	if errors.Is(err, os.ErrNotExist) {
		return qrdrop_errors.ErrFileNotFound
	}
	return err
}

func (b *LocalBackend) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.basePath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (b *LocalBackend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.basePath, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
