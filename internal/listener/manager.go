package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner plays one text-console session over a connection.
type SessionRunner interface {
	RunSession(ctx context.Context, rw io.ReadWriter) error
}

// ConnectionManager hands accepted console connections to a SessionRunner.
type ConnectionManager struct {
	runner SessionRunner
}

func NewConnectionManager(runner SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: runner,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runner.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
