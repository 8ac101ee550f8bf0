package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/world"
)

var (
	ErrAlreadyOpen = errors.New("player already has an open session")
	ErrNoSession   = errors.New("session not found")
)

// Registry tracks the single open session each player may hold.
type Registry struct {
	mu       sync.RWMutex
	byPlayer map[string]*Session
	byToken  map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		byPlayer: make(map[string]*Session),
		byToken:  make(map[string]*Session),
		now:      time.Now,
	}
}

// Open creates an authenticated session for playerID positioned at pos.
func (r *Registry) Open(playerID string, pos world.Position) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPlayer[playerID]; ok {
		return nil, ErrAlreadyOpen
	}

	s := &Session{
		token:         uuid.NewString(),
		playerID:      playerID,
		openedAt:      r.now(),
		authenticated: true,
		pos:           pos,
	}
	r.byPlayer[playerID] = s
	r.byToken[s.token] = s
	return s, nil
}

// TryGetSessionByPlayerID satisfies game.SessionLookup.
func (r *Registry) TryGetSessionByPlayerID(playerID string) (game.Session, bool) {
	s, ok := r.Get(playerID)
	if !ok {
		return nil, false
	}
	return s, true
}

func (r *Registry) Get(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byPlayer[playerID]
	return s, ok
}

// Close revokes and forgets the session with the given token.
func (r *Registry) Close(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byToken[token]
	if !ok {
		return ErrNoSession
	}
	s.revoke()
	delete(r.byToken, token)
	delete(r.byPlayer, s.playerID)
	return nil
}

// Move shifts the player's position by dx, dz and returns the new position.
func (r *Registry) Move(playerID string, dx, dz float64) (world.Position, error) {
	s, ok := r.Get(playerID)
	if !ok {
		return world.Position{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos.X += dx
	s.pos.Z += dz
	return s.pos, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPlayer)
}
