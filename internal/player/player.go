package player

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pixil98/go-wilds/internal/commands"
	"github.com/pixil98/go-wilds/internal/display"
	"github.com/pixil98/go-wilds/internal/game"
)

// Player is one connected, logged-in player.
type Player struct {
	term  *terminal
	id    string
	state *game.PlayerState
	cmds  *commands.Handler

	notices <-chan string
}

// Id returns the player's unique identifier (lowercase name)
func (p *Player) Id() string {
	return p.id
}

// Play runs the command loop. It returns commands.ErrQuit when the player
// quits, nil when the connection closes and ctx.Err() on shutdown.
func (p *Player) Play(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			line, err := p.term.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
	}()

	// Show the player where they are on login
	if err := p.exec(ctx, "look"); err != nil {
		return err
	}
	if err := p.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = p.writeLine("\nThe world fades away.")
			return ctx.Err()

		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case msg := <-p.notices:
			if err := p.writeLine("\n" + display.Capitalize(msg)); err != nil {
				return err
			}
			if err := p.prompt(); err != nil {
				return err
			}

		case line := <-lines:
			if err := p.exec(ctx, line); err != nil {
				return err
			}
			if err := p.prompt(); err != nil {
				return err
			}
		}
	}
}

// exec runs one line of input. User errors are shown and swallowed; quitting
// and system failures end the session.
func (p *Player) exec(ctx context.Context, line string) error {
	out, err := p.cmds.Exec(ctx, p.state, line)
	if out != "" {
		if werr := p.writeLine(out); werr != nil {
			return werr
		}
	}

	var userErr *commands.UserError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &userErr):
		return p.writeLine(userErr.Message)
	case errors.Is(err, commands.ErrQuit):
		return err
	default:
		return fmt.Errorf("command %q failed: %w", line, err)
	}
}

func (p *Player) prompt() error {
	v := p.state.Vitals()
	return p.term.Printf("[%.0fHP %.0fST] > ", v.Health, v.Stamina)
}

func (p *Player) writeLine(msg string) error {
	return p.term.Print(display.Wrap(msg) + "\n")
}
