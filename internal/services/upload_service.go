package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"qrdrop/internal/domain/session"
	"qrdrop/internal/storage"
	"qrdrop/internal/store"
	qrdrop_errors "qrdrop/pkg/errors"
	"qrdrop/pkg/events"
	"qrdrop/pkg/logger"
)

// UploadService is the upload coordinator: it persists the byte stream, then
// either registers a session (desktop hand-off path) or publishes a
// file-arrived event (mobile push path). Persistence comes first both ways,
// so a storage failure never leaves a session pointing at nothing.
type UploadService struct {
	sessions  *store.SessionStore
	backend   storage.Backend
	publisher events.Publisher
	logger    *logger.Logger
}

// UploadInput carries one multipart file part plus the optional
// client-supplied session id.
type UploadInput struct {
	SessionID    string
	OriginalName string
	MimeType     string
	Content      io.Reader
}

func NewUploadService(sessions *store.SessionStore, backend storage.Backend, publisher events.Publisher, l *logger.Logger) *UploadService {
	return &UploadService{
		sessions:  sessions,
		backend:   backend,
		publisher: publisher,
		logger:    l,
	}
}

// Upload handles the session hand-off path. A missing session id gets a
// generated one; the caller needs it back to build the QR link.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (session.Session, error) {
	if in.Content == nil || in.OriginalName == "" {
		return session.Session{}, qrdrop_errors.ErrNoFile
	}

	id := in.SessionID
	if id == "" {
		id = newSessionID()
	}

	storedName := StoredName(id, in.OriginalName)
	size, err := s.backend.Store(ctx, storedName, in.Content, in.MimeType)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorf("storing %s failed: %s", storedName, err)
		}
		return session.Session{}, fmt.Errorf("%w: %s", qrdrop_errors.ErrStorageFailure, err)
	}

	sess := session.Session{
		ID:           id,
		StoredName:   storedName,
		OriginalName: filepath.Base(in.OriginalName),
		SizeBytes:    size,
		MimeType:     in.MimeType,
		UploadedAt:   time.Now(),
		Downloaded:   false,
	}
	if err := s.sessions.Put(sess); err != nil {
		return session.Session{}, err
	}

	if s.logger != nil {
		s.logger.Infof("session %s created for %s (%d bytes)", id, sess.OriginalName, size)
	}
	return sess, nil
}

// MobileUpload handles the mobile-to-desktop push path: same persistence,
// no session record, and a best-effort broadcast to connected viewers.
func (s *UploadService) MobileUpload(ctx context.Context, in UploadInput) (session.FileMeta, error) {
	if in.Content == nil || in.OriginalName == "" {
		return session.FileMeta{}, qrdrop_errors.ErrNoFile
	}

	storedName := StoredName(newSessionID(), in.OriginalName)
	size, err := s.backend.Store(ctx, storedName, in.Content, in.MimeType)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorf("storing %s failed: %s", storedName, err)
		}
		return session.FileMeta{}, fmt.Errorf("%w: %s", qrdrop_errors.ErrStorageFailure, err)
	}

	meta := session.FileMeta{
		StoredName:   storedName,
		OriginalName: filepath.Base(in.OriginalName),
		SizeBytes:    size,
		MimeType:     in.MimeType,
		UploadedAt:   time.Now(),
	}

	if s.publisher != nil {
		event := events.Event{
			Type: events.TypeFileUploaded,
			Payload: map[string]interface{}{
				"filename":      meta.StoredName,
				"original_name": meta.OriginalName,
				"size":          meta.SizeBytes,
				"mimetype":      meta.MimeType,
			},
			Timestamp: meta.UploadedAt.UnixMilli(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
			s.logger.Errorf("broadcasting arrival of %s failed: %s", meta.StoredName, err)
		}
	}

	if s.logger != nil {
		s.logger.Infof("mobile upload %s stored (%d bytes)", meta.StoredName, size)
	}
	return meta, nil
}

// StoredName combines the session id and the original filename so the stored
// name is unique per session and still recoverable from it. Base strips any
// client-supplied path components.
func StoredName(sessionID, originalName string) string {
	return sessionID + "-" + filepath.Base(originalName)
}

// newSessionID mints a time-derived id, the same shape sending clients use.
// Uniqueness is best-effort; two uploads in the same millisecond collide.
func newSessionID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
