// Package listener accepts player connections over telnet, ssh and
// websockets.
package listener

import (
	"context"
	"io"
	"log/slog"
)

// ConsoleRunner plays a session over a line-based connection.
type ConsoleRunner interface {
	Run(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager hands terminal connections to the console.
type ConnectionManager struct {
	console ConsoleRunner
}

func NewConnectionManager(console ConsoleRunner) *ConnectionManager {
	return &ConnectionManager{
		console: console,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.console.Run(ctx, newLineEndingReadWriter(conn)); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
