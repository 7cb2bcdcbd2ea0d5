package services

import (
	"context"
	"io"
	"path/filepath"

	"qrdrop/internal/domain/session"
	"qrdrop/internal/storage"
	"qrdrop/internal/store"
	qrdrop_errors "qrdrop/pkg/errors"
	"qrdrop/pkg/logger"
)

// RetrievalService resolves sessions back to files and carries the gallery
// surface that works on stored names directly, ignoring sessions.
type RetrievalService struct {
	sessions *store.SessionStore
	backend  storage.Backend
	logger   *logger.Logger
}

func NewRetrievalService(sessions *store.SessionStore, backend storage.Backend, l *logger.Logger) *RetrievalService {
	return &RetrievalService{
		sessions: sessions,
		backend:  backend,
		logger:   l,
	}
}

// GetMetadata returns session metadata without touching the downloaded flag
func (s *RetrievalService) GetMetadata(id string) (session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return session.Session{}, qrdrop_errors.ErrSessionNotFound
	}
	return sess, nil
}

// GetContent opens the session's stored file and flips downloaded before any
// byte is streamed. An interrupted stream still counts as downloaded; callers
// get ErrSessionNotFound and ErrFileNotFound in the two "link is dead" cases,
// which clients render identically.
func (s *RetrievalService) GetContent(ctx context.Context, id string) (session.Session, io.ReadCloser, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return session.Session{}, nil, qrdrop_errors.ErrSessionNotFound
	}

	content, err := s.backend.Retrieve(ctx, sess.StoredName)
	if err != nil {
		// The file can vanish underneath a live session through the
		// gallery delete; the session is left dangling on purpose.
		return session.Session{}, nil, err
	}

	s.sessions.MarkDownloaded(id)
	sess.Downloaded = true
	return sess, content, nil
}

// ListFiles returns every stored name, sessionless gallery style
func (s *RetrievalService) ListFiles(ctx context.Context) ([]string, error) {
	return s.backend.List(ctx)
}

// DeleteFile removes one stored file by name. Sessions referencing the name
// are not reconciled; their next retrieval reads as not found.
func (s *RetrievalService) DeleteFile(ctx context.Context, name string) error {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return qrdrop_errors.ErrFileNotFound
	}
	if err := s.backend.Delete(ctx, name); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Infof("file %s deleted", name)
	}
	return nil
}

// OpenFile streams one stored file by name, for the static-style /uploads path
func (s *RetrievalService) OpenFile(ctx context.Context, name string) (io.ReadCloser, error) {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, qrdrop_errors.ErrFileNotFound
	}
	return s.backend.Retrieve(ctx, name)
}
