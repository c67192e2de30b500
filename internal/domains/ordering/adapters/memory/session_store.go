package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// slot guards one user's session. sem holds a token while a caller is inside.
type slot struct {
	sem     chan struct{}
	session *domain.Session
}

// SessionStore is an in-memory SessionStore. Lookups go through sync.Map so
// distinct users never wait on each other.
type SessionStore struct {
	slots sync.Map
	count atomic.Int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) WithSession(ctx context.Context, id domain.UserID, fn func(*domain.Session) error) error {
	if id == "" {
		return domain.ErrInvalidUserID
	}
	sl := s.slot(id)
	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sl.sem }()
	return fn(sl.session)
}

func (s *SessionStore) Len() int {
	return int(s.count.Load())
}

func (s *SessionStore) slot(id domain.UserID) *slot {
	if v, ok := s.slots.Load(id); ok {
		return v.(*slot)
	}
	fresh := &slot{sem: make(chan struct{}, 1), session: domain.NewSession(id)}
	v, loaded := s.slots.LoadOrStore(id, fresh)
	if !loaded {
		s.count.Add(1)
	}
	return v.(*slot)
}
