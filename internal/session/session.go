package session

import (
	"sync"
	"time"

	"github.com/pixil98/go-wilds/internal/world"
)

// Session is one authenticated connection's identity and position.
type Session struct {
	token    string
	playerID string
	openedAt time.Time

	mu            sync.RWMutex
	authenticated bool
	pos           world.Position
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) PlayerID() string {
	return s.playerID
}

func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) Position() world.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

func (s *Session) revoke() {
	s.mu.Lock()
	s.authenticated = false
	s.mu.Unlock()
}
