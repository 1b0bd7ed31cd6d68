// Package logging defines the structured-logging interface shared by the
// server and the client. The variadic args are key/value pairs in slog
// convention:
//
//	log.Info(ctx, "starting server", "addr", addr)
package logging

import "context"

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key/value
	// pairs.
	With(args ...any) Logger
}

// Nop discards everything. Handy default for tests and optional components.
type Nop struct{}

func (Nop) Info(ctx context.Context, msg string, args ...any)  {}
func (Nop) Warn(ctx context.Context, msg string, args ...any)  {}
func (Nop) Error(ctx context.Context, msg string, args ...any) {}
func (n Nop) With(args ...any) Logger                          { return n }
