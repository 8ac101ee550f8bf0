package game

import (
	"context"

	"github.com/pixil98/go-wilds/internal/world"
)

// Session is the connection-level identity a PlayerState is bound to. The
// server only reads it.
type Session interface {
	PlayerID() string
	IsAuthenticated() bool
	Position() world.Position
}

// SessionLookup finds the single active session for a player.
type SessionLookup interface {
	TryGetSessionByPlayerID(playerID string) (Session, bool)
}

// PlayerStore persists player data between connections. LoadPlayer returns
// ErrNoPlayerData when nothing has been saved yet.
type PlayerStore interface {
	LoadPlayer(ctx context.Context, playerID string) (*PlayerData, error)
	SavePlayer(ctx context.Context, playerID string, data *PlayerData) error
}

// Notifier delivers a short text notice to a connected player.
type Notifier interface {
	Notify(ctx context.Context, playerID string, message string) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string) error { return nil }
