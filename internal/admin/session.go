package admin

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	console *Console
	expires time.Time
}

// Sessions keeps one Console per browser in memory. A session expires after
// ttl without use.
type Sessions struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*session
	api      API
	now      func() time.Time
}

func NewSessions(api API, ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:      ttl,
		sessions: make(map[string]*session),
		api:      api,
		now:      time.Now,
	}
}

// Get returns the console for id and extends its expiry.
func (s *Sessions) Get(id string) (*Console, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.After(sess.expires) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.expires = now.Add(s.ttl)
	return sess.console, true
}

// Create starts a session with a fresh console.
func (s *Sessions) Create() (string, *Console) {
	id := uuid.NewString()
	c := NewConsole(s.api)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[id] = &session{console: c, expires: s.now().Add(s.ttl)}
	return id, c
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Sessions) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, id)
		}
	}
}
