package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
)

// SessionRunner serves one player connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	runner SessionRunner
	active atomic.Int64
}

func NewConnectionManager(r SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: r,
	}
}

// AcceptConnection runs a session on conn. A panic in the session is logged
// and contained to this connection.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	m.active.Add(1)
	defer m.active.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "player session panicked", "error", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	if err := m.runner.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

// Active returns the number of connections currently being served.
func (m *ConnectionManager) Active() int {
	return int(m.active.Load())
}
