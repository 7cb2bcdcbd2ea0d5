package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrdrop_errors "qrdrop/pkg/errors"
)

func setupLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	return backend
}

func TestNewLocalBackend(t *testing.T) {
	tests := []struct {
		name        string
		basePath    func(t *testing.T) string
		shouldError bool
	}{
		{
			name:     "existing directory",
			basePath: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "nested directory is created",
			basePath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nested", "uploads")
			},
		},
		{
			name: "file in the way",
			basePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "occupied")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
				return path
			},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := NewLocalBackend(tt.basePath(t))
			if tt.shouldError {
				assert.Error(t, err)
				assert.Nil(t, backend)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, backend)
			}
		})
	}
}

func TestLocalBackend_StoreAndRetrieve(t *testing.T) {
	backend := setupLocalBackend(t)
	ctx := context.Background()

	content := "hello from the other device"
	written, err := backend.Store(ctx, "1700000000000-note.txt", strings.NewReader(content), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), written)

	rc, err := backend.Retrieve(ctx, "1700000000000-note.txt")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestLocalBackend_StoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewLocalBackend(dir)
	require.NoError(t, err)

	_, err = backend.Store(context.Background(), "a.bin", strings.NewReader("data"), "")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.bin", entries[0].Name())
}

func TestLocalBackend_RetrieveMissing(t *testing.T) {
	backend := setupLocalBackend(t)
	_, err := backend.Retrieve(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, qrdrop_errors.ErrFileNotFound)
}

func TestLocalBackend_Delete(t *testing.T) {
	backend := setupLocalBackend(t)
	ctx := context.Background()

	_, err := backend.Store(ctx, "gone.txt", strings.NewReader("bye"), "text/plain")
	require.NoError(t, err)

	require.NoError(t, backend.Delete(ctx, "gone.txt"))

	names, err := backend.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, "gone.txt")

	assert.ErrorIs(t, backend.Delete(ctx, "gone.txt"), qrdrop_errors.ErrFileNotFound)
}

func TestLocalBackend_List(t *testing.T) {
	backend := setupLocalBackend(t)
	ctx := context.Background()

	for _, name := range []string{"100-a.txt", "200-b.txt", "300-c.txt"} {
		_, err := backend.Store(ctx, name, strings.NewReader(name), "text/plain")
		require.NoError(t, err)
	}

	names, err := backend.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"100-a.txt", "200-b.txt", "300-c.txt"}, names)
}

func TestLocalBackend_Exists(t *testing.T) {
	backend := setupLocalBackend(t)
	ctx := context.Background()

	exists, err := backend.Exists(ctx, "phantom.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = backend.Store(ctx, "real.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	exists, err = backend.Exists(ctx, "real.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}
