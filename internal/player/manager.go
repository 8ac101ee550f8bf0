package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-wilds/internal/commands"
	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/messaging"
	"github.com/pixil98/go-wilds/internal/session"
)

// noticeBuffer is how many undelivered notices a player may have queued
// before new ones are dropped.
const noticeBuffer = 32

// Game is the part of the game server a player connection drives.
type Game interface {
	Connect(ctx context.Context, playerID string) (*game.PlayerState, error)
	Disconnect(ctx context.Context, playerID string) error
}

// Subscriber delivers messages published on a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

type PlayerManager struct {
	auth     *session.Authenticator
	sessions *session.Registry
	game     Game
	bus      Subscriber
	cmds     *commands.Handler

	loginFlow *loginFlow
}

func NewPlayerManager(auth *session.Authenticator, sessions *session.Registry, g Game, bus Subscriber, cmds *commands.Handler) *PlayerManager {
	return &PlayerManager{
		auth:      auth,
		sessions:  sessions,
		game:      g,
		bus:       bus,
		cmds:      cmds,
		loginFlow: &loginFlow{auth: auth},
	}
}

// RunSession takes one connection from login to logout. It returns once the
// player quits, the connection drops or ctx is cancelled.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	t := newTerminal(conn)

	acct, err := m.loginFlow.Run(t)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, ErrTooManyTries) {
			return nil
		}
		return fmt.Errorf("login: %w", err)
	}
	id := acct.PlayerID()

	sess, err := m.sessions.Open(id, acct.Position)
	if errors.Is(err, session.ErrAlreadyOpen) {
		return t.Print("You are already playing.\n")
	}
	if err != nil {
		return fmt.Errorf("opening session for %s: %w", id, err)
	}
	defer func() {
		if err := m.sessions.Close(sess.Token()); err != nil {
			slog.WarnContext(ctx, "closing session", "player", id, "error", err)
		}
	}()

	ps, err := m.game.Connect(ctx, id)
	if err != nil {
		return fmt.Errorf("entering world as %s: %w", id, err)
	}
	slog.InfoContext(ctx, "player entered world", "player", id)

	// Runs before the session is closed so the final position is still readable.
	defer func() {
		// The session context may already be cancelled by shutdown; saving
		// must still happen.
		saveCtx := context.WithoutCancel(ctx)
		if err := m.game.Disconnect(saveCtx, id); err != nil {
			slog.WarnContext(ctx, "leaving world", "player", id, "error", err)
		}
		if err := m.auth.SavePosition(id, sess.Position()); err != nil {
			slog.WarnContext(ctx, "saving position", "player", id, "error", err)
		}
		slog.InfoContext(ctx, "player left world", "player", id)
	}()

	notices := make(chan string, noticeBuffer)
	unsub, err := m.bus.Subscribe(messaging.PlayerSubject(id), func(data []byte) {
		select {
		case notices <- string(data):
		default:
			slog.Warn("dropping notice", "player", id)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to notices for %s: %w", id, err)
	}
	defer unsub()

	p := &Player{
		term:    t,
		id:      id,
		state:   ps,
		cmds:    m.cmds,
		notices: notices,
	}
	err = p.Play(ctx)
	if errors.Is(err, commands.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
