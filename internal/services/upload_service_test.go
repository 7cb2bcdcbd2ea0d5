package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrdrop/internal/storage"
	"qrdrop/internal/store"
	qrdrop_errors "qrdrop/pkg/errors"
	"qrdrop/pkg/events"
)

// capturePublisher records published events for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

func (p *capturePublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// failingBackend fails every write
type failingBackend struct {
	storage.Backend
}

func (failingBackend) Store(ctx context.Context, name string, content io.Reader, contentType string) (int64, error) {
	return 0, errors.New("disk full")
}

func newUploadFixture(t *testing.T) (*UploadService, *store.SessionStore, *capturePublisher) {
	t.Helper()
	backend, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	sessions := store.NewSessionStore()
	publisher := &capturePublisher{}
	return NewUploadService(sessions, backend, publisher, nil), sessions, publisher
}

func TestUploadService_Upload(t *testing.T) {
	svc, sessions, _ := newUploadFixture(t)

	sess, err := svc.Upload(context.Background(), UploadInput{
		SessionID:    "1700000000000",
		OriginalName: "photo.jpg",
		MimeType:     "image/jpeg",
		Content:      strings.NewReader("jpeg bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1700000000000", sess.ID)
	assert.Equal(t, "1700000000000-photo.jpg", sess.StoredName)
	assert.Equal(t, "photo.jpg", sess.OriginalName)
	assert.Equal(t, int64(len("jpeg bytes")), sess.SizeBytes)
	assert.Equal(t, "image/jpeg", sess.MimeType)
	assert.False(t, sess.Downloaded)

	stored, ok := sessions.Get("1700000000000")
	require.True(t, ok)
	assert.Equal(t, sess.StoredName, stored.StoredName)
}

func TestUploadService_UploadGeneratesSessionID(t *testing.T) {
	svc, sessions, _ := newUploadFixture(t)

	sess, err := svc.Upload(context.Background(), UploadInput{
		OriginalName: "notes.txt",
		MimeType:     "text/plain",
		Content:      strings.NewReader("hello"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.True(t, strings.HasPrefix(sess.StoredName, sess.ID+"-"))

	_, ok := sessions.Get(sess.ID)
	assert.True(t, ok)
}

func TestUploadService_UploadStripsPathComponents(t *testing.T) {
	svc, _, _ := newUploadFixture(t)

	sess, err := svc.Upload(context.Background(), UploadInput{
		SessionID:    "99",
		OriginalName: "../../etc/passwd",
		MimeType:     "text/plain",
		Content:      strings.NewReader("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, "passwd", sess.OriginalName)
	assert.Equal(t, "99-passwd", sess.StoredName)
}

func TestUploadService_UploadNoFile(t *testing.T) {
	svc, sessions, _ := newUploadFixture(t)

	_, err := svc.Upload(context.Background(), UploadInput{OriginalName: "x.txt"})
	assert.ErrorIs(t, err, qrdrop_errors.ErrNoFile)

	_, err = svc.Upload(context.Background(), UploadInput{Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, qrdrop_errors.ErrNoFile)

	assert.Equal(t, 0, sessions.Len())
}

func TestUploadService_UploadStorageFailureLeavesNoSession(t *testing.T) {
	sessions := store.NewSessionStore()
	svc := NewUploadService(sessions, failingBackend{}, nil, nil)

	_, err := svc.Upload(context.Background(), UploadInput{
		SessionID:    "500",
		OriginalName: "doomed.txt",
		MimeType:     "text/plain",
		Content:      strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, qrdrop_errors.ErrStorageFailure)
	assert.Equal(t, 0, sessions.Len())
}

func TestUploadService_MobileUpload(t *testing.T) {
	svc, sessions, publisher := newUploadFixture(t)

	meta, err := svc.MobileUpload(context.Background(), UploadInput{
		OriginalName: "selfie.png",
		MimeType:     "image/png",
		Content:      strings.NewReader("png bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "selfie.png", meta.OriginalName)
	assert.True(t, strings.HasSuffix(meta.StoredName, "-selfie.png"))

	// The mobile path never creates a session
	assert.Equal(t, 0, sessions.Len())

	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeFileUploaded, published[0].Type)
	payload, ok := published[0].Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, meta.StoredName, payload["filename"])
	assert.Equal(t, "selfie.png", payload["original_name"])
}

func TestUploadService_MobileUploadStorageFailurePublishesNothing(t *testing.T) {
	publisher := &capturePublisher{}
	svc := NewUploadService(store.NewSessionStore(), failingBackend{}, publisher, nil)

	_, err := svc.MobileUpload(context.Background(), UploadInput{
		OriginalName: "doomed.png",
		MimeType:     "image/png",
		Content:      strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, qrdrop_errors.ErrStorageFailure)
	assert.Empty(t, publisher.published())
}

func TestStoredName(t *testing.T) {
	assert.Equal(t, "123-a.txt", StoredName("123", "a.txt"))
	assert.Equal(t, "123-a.txt", StoredName("123", "dir/a.txt"))
}
