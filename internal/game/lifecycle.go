package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixil98/go-wilds/internal/world"
)

// Connect binds a new PlayerState to the player's authenticated session,
// restores any saved data and loads the chunk window around the session's
// position. Load failures are logged; the player starts from defaults.
func (s *Server) Connect(ctx context.Context, playerID string) (*PlayerState, error) {
	sess, ok := s.sessions.TryGetSessionByPlayerID(playerID)
	if !ok || sess == nil || !sess.IsAuthenticated() {
		return nil, ErrSessionNotFound
	}
	if _, exists := s.players.Load(playerID); exists {
		return nil, ErrPlayerExists
	}

	ps := newPlayerState(playerID, sess, s.tuning)

	data, err := s.playerStore.LoadPlayer(ctx, playerID)
	switch {
	case errors.Is(err, ErrNoPlayerData):
		slog.DebugContext(ctx, "no saved data, using defaults", "playerId", playerID)
	case err != nil:
		slog.ErrorContext(ctx, "loading player data, using defaults", "playerId", playerID, "error", err)
	case data != nil:
		ps.apply(data, s.tuning)
	}

	center := world.ChunkCoordOf(sess.Position())
	ps.setWindowCenter(center)

	s.windowMu.RLock()
	if _, loaded := s.players.LoadOrStore(playerID, ps); loaded {
		s.windowMu.RUnlock()
		return nil, ErrPlayerExists
	}
	if err := s.loader.LoadAround(ctx, center); err != nil {
		slog.ErrorContext(ctx, "loading chunk window", "playerId", playerID, "center", center.String(), "error", err)
	}
	s.windowMu.RUnlock()

	slog.InfoContext(ctx, "player connected", "playerId", playerID, "players", s.players.Len())
	return ps, nil
}

// Disconnect removes the player's live state and saves it. The session is
// left alone; closing it is the caller's concern.
func (s *Server) Disconnect(ctx context.Context, playerID string) error {
	ps, ok := s.players.LoadAndDelete(playerID)
	if !ok {
		return ErrPlayerNotFound
	}

	if err := s.savePlayer(ctx, ps); err != nil {
		slog.ErrorContext(ctx, "saving player on disconnect", "playerId", playerID, "error", err)
	}

	slog.InfoContext(ctx, "player disconnected", "playerId", playerID, "players", s.players.Len())
	return nil
}
