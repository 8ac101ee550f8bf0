package messaging

import (
	"context"
	"fmt"

	"github.com/pixil98/go-wilds/internal/game"
)

// PlayerSubject is the subject a player's notices are published on.
func PlayerSubject(playerID string) string {
	return fmt.Sprintf("player.%s", playerID)
}

type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notifier delivers game notices over the bus.
type Notifier struct {
	pub Publisher
}

var _ game.Notifier = (*Notifier)(nil)

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) Notify(_ context.Context, playerID string, message string) error {
	if err := n.pub.Publish(PlayerSubject(playerID), []byte(message)); err != nil {
		return fmt.Errorf("publishing notice to %s: %w", playerID, err)
	}
	return nil
}
