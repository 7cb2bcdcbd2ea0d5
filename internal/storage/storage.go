package storage

import (
	"context"
	"io"
)

// Backend is the blob store uploads land in. Stored names are flat (no
// directories); both upload paths derive them before calling Store.
type Backend interface {
	// Store persists content under name, atomically: a failed write leaves
	// no partial object behind.
	Store(ctx context.Context, name string, content io.Reader, contentType string) (int64, error)

	// Retrieve opens the content stored under name
	Retrieve(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the content stored under name
	Delete(ctx context.Context, name string) error

	// List returns every stored name
	List(ctx context.Context) ([]string, error)

	// Exists reports whether name resolves to stored content
	Exists(ctx context.Context, name string) (bool, error)
}
