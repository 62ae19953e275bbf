package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	s.session.Store(session.ID, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*ports.Session, error) {
	v, ok := s.session.Load(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := v.(ports.Session)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.session.Delete(id)
	return nil
}

// PurgeExpired drops sessions that expired before now and reports how many were removed.
func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.session.Range(func(key, value any) bool {
		if value.(ports.Session).Expired(now) {
			s.session.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}
