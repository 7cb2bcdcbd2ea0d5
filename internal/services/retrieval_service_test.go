package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrdrop/internal/storage"
	"qrdrop/internal/store"
	qrdrop_errors "qrdrop/pkg/errors"
)

func newRetrievalFixture(t *testing.T) (*RetrievalService, *UploadService, *store.SessionStore) {
	t.Helper()
	backend, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	sessions := store.NewSessionStore()
	return NewRetrievalService(sessions, backend, nil), NewUploadService(sessions, backend, nil, nil), sessions
}

func uploadTestFile(t *testing.T, svc *UploadService, id, name, content string) {
	t.Helper()
	_, err := svc.Upload(context.Background(), UploadInput{
		SessionID:    id,
		OriginalName: name,
		MimeType:     "text/plain",
		Content:      strings.NewReader(content),
	})
	require.NoError(t, err)
}

func TestRetrievalService_GetMetadata(t *testing.T) {
	retrieval, upload, _ := newRetrievalFixture(t)
	uploadTestFile(t, upload, "777", "doc.txt", "contents here")

	sess, err := retrieval.GetMetadata("777")
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", sess.OriginalName)
	assert.Equal(t, int64(len("contents here")), sess.SizeBytes)
	assert.False(t, sess.Downloaded)

	// Metadata reads never flip the flag
	sess, err = retrieval.GetMetadata("777")
	require.NoError(t, err)
	assert.False(t, sess.Downloaded)
}

func TestRetrievalService_GetMetadataUnknown(t *testing.T) {
	retrieval, _, _ := newRetrievalFixture(t)
	_, err := retrieval.GetMetadata("nope")
	assert.ErrorIs(t, err, qrdrop_errors.ErrSessionNotFound)
}

func TestRetrievalService_GetContent(t *testing.T) {
	retrieval, upload, sessions := newRetrievalFixture(t)
	uploadTestFile(t, upload, "888", "msg.txt", "pick me up")

	sess, content, err := retrieval.GetContent(context.Background(), "888")
	require.NoError(t, err)
	defer content.Close()

	got, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "pick me up", string(got))
	assert.True(t, sess.Downloaded)

	stored, ok := sessions.Get("888")
	require.True(t, ok)
	assert.True(t, stored.Downloaded)

	// Content stays fetchable; downloaded stays true
	_, content, err = retrieval.GetContent(context.Background(), "888")
	require.NoError(t, err)
	content.Close()
	stored, _ = sessions.Get("888")
	assert.True(t, stored.Downloaded)
}

func TestRetrievalService_GetContentUnknown(t *testing.T) {
	retrieval, _, _ := newRetrievalFixture(t)
	_, _, err := retrieval.GetContent(context.Background(), "ghost")
	assert.ErrorIs(t, err, qrdrop_errors.ErrSessionNotFound)
}

func TestRetrievalService_GetContentDanglingSession(t *testing.T) {
	// Deleting a file through the gallery leaves any session pointing at it
	// dangling; retrieval then reads as file-not-found and the session is
	// not marked downloaded.
	retrieval, upload, sessions := newRetrievalFixture(t)
	uploadTestFile(t, upload, "13", "gone.txt", "soon deleted")

	require.NoError(t, retrieval.DeleteFile(context.Background(), "13-gone.txt"))

	_, _, err := retrieval.GetContent(context.Background(), "13")
	assert.ErrorIs(t, err, qrdrop_errors.ErrFileNotFound)

	stored, ok := sessions.Get("13")
	require.True(t, ok)
	assert.False(t, stored.Downloaded)
}

func TestRetrievalService_ConcurrentGetContent(t *testing.T) {
	retrieval, upload, _ := newRetrievalFixture(t)
	uploadTestFile(t, upload, "555", "shared.txt", "same bytes for everyone")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	bodies := make([]string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, content, err := retrieval.GetContent(context.Background(), "555")
			if err != nil {
				errs[i] = err
				return
			}
			defer content.Close()
			got, err := io.ReadAll(content)
			if err != nil {
				errs[i] = err
				return
			}
			bodies[i] = string(got)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "same bytes for everyone", bodies[i])
	}
}

func TestRetrievalService_ListAndDeleteFiles(t *testing.T) {
	retrieval, upload, _ := newRetrievalFixture(t)
	ctx := context.Background()

	uploadTestFile(t, upload, "1", "a.txt", "a")
	uploadTestFile(t, upload, "2", "b.txt", "b")

	names, err := retrieval.ListFiles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1-a.txt", "2-b.txt"}, names)

	require.NoError(t, retrieval.DeleteFile(ctx, "1-a.txt"))

	names, err = retrieval.ListFiles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2-b.txt"}, names)

	assert.ErrorIs(t, retrieval.DeleteFile(ctx, "1-a.txt"), qrdrop_errors.ErrFileNotFound)
}

func TestRetrievalService_OpenFile(t *testing.T) {
	retrieval, upload, _ := newRetrievalFixture(t)
	uploadTestFile(t, upload, "10", "static.txt", "served directly")

	rc, err := retrieval.OpenFile(context.Background(), "10-static.txt")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "served directly", string(got))

	// Path components are stripped, not traversed
	rc2, err := retrieval.OpenFile(context.Background(), "../10-static.txt")
	require.NoError(t, err)
	rc2.Close()
}

func TestRetrievalService_OpenFileMissing(t *testing.T) {
	retrieval, _, _ := newRetrievalFixture(t)
	_, err := retrieval.OpenFile(context.Background(), "void.txt")
	assert.ErrorIs(t, err, qrdrop_errors.ErrFileNotFound)
}
