package store

import (
	"sync"

	"qrdrop/internal/domain/session"
	qrdrop_errors "qrdrop/pkg/errors"
)

// SessionStore is the authoritative sessionId -> Session mapping. It lives in
// memory only: every session disappears with the process, and callers treat a
// missing id as a normal terminal state rather than an error condition.
type SessionStore struct {
	mu sync.RWMutex

	// sessions maps session id to the session record
	sessions map[string]session.Session
}

// NewSessionStore creates an empty in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.Session),
	}
}

// Put inserts or overwrites a session. An existing id is silently replaced
// (last-write-wins); ids are time-derived so collisions mean a client reused
// an old id, and the previous stored file stays orphaned in storage.
func (s *SessionStore) Put(sess session.Session) error {
	if sess.ID == "" {
		return qrdrop_errors.ErrInvalidInput
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

// Get returns the session for an id, if one exists
func (s *SessionStore) Get(id string) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// MarkDownloaded flips the downloaded flag. Unknown ids are a no-op: the
// session may have been replaced or never existed, and neither matters to
// the caller streaming the bytes.
func (s *SessionStore) MarkDownloaded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Downloaded = true
	s.sessions[id] = sess
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
