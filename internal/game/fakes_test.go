package game

import (
	"context"
	"sync"

	"github.com/pixil98/go-wilds/internal/world"
)

type fakeSession struct {
	id string

	mu     sync.Mutex
	auth   bool
	pos    world.Position
	panics bool
}

func (s *fakeSession) PlayerID() string {
	return s.id
}

func (s *fakeSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panics {
		panic("session exploded")
	}
	return s.auth
}

func (s *fakeSession) Position() world.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *fakeSession) moveTo(p world.Position) {
	s.mu.Lock()
	s.pos = p
	s.mu.Unlock()
}

func (s *fakeSession) setPanics(v bool) {
	s.mu.Lock()
	s.panics = v
	s.mu.Unlock()
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*fakeSession)}
}

func (f *fakeSessions) open(id string, pos world.Position) *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSession{id: id, auth: true, pos: pos}
	f.sessions[id] = s
	return s
}

func (f *fakeSessions) TryGetSessionByPlayerID(id string) (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, false
	}
	return s, true
}

type memPlayerStore struct {
	mu      sync.Mutex
	data    map[string]*PlayerData
	saves   int
	loadErr error
	saveErr error
}

func newMemPlayerStore() *memPlayerStore {
	return &memPlayerStore{data: make(map[string]*PlayerData)}
}

func (m *memPlayerStore) LoadPlayer(_ context.Context, id string) (*PlayerData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.data[id]
	if !ok {
		return nil, ErrNoPlayerData
	}
	return d, nil
}

func (m *memPlayerStore) SavePlayer(_ context.Context, id string, d *PlayerData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[id] = d
	m.saves++
	return nil
}

func (m *memPlayerStore) saved(id string) (*PlayerData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[id]
	return d, ok
}

func (m *memPlayerStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type notice struct {
	playerID string
	message  string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) Notify(_ context.Context, playerID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{playerID: playerID, message: message})
	return nil
}

func (n *recordingNotifier) all() []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notice(nil), n.notices...)
}
