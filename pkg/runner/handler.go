package runner

import (
	"context"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (panel host) modes.
type IOHandler interface {
	// Input blocks until the next request is available.
	// It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (Request, error)

	// SystemOutput presents a meta-message to the user (command results, notices).
	// This is distinct from turn rendering, which belongs to the surface.
	SystemOutput(ctx context.Context, msg string) error
}

// ErrorOutputter is implemented by handlers that present errors differently
// from other system messages.
type ErrorOutputter interface {
	ErrorOutput(ctx context.Context, msg string) error
}
