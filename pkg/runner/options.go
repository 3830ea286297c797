package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInputHandler configures the IOHandler requests are read from.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.handler = handler
	}
}

// WithClipboard sets the terminal that receives clipboard copies.
// Without it /copy reports that no clipboard is available.
func WithClipboard(w io.Writer) Option {
	return func(r *Runner) {
		r.clipboard = w
	}
}

// WithSaveDir sets the directory relative save paths resolve against.
func WithSaveDir(dir string) Option {
	return func(r *Runner) {
		r.saveDir = dir
	}
}

// WithBackendConfigurer enables /backend.
func WithBackendConfigurer(c BackendConfigurer) Option {
	return func(r *Runner) {
		r.backend = c
	}
}

// WithEditorState enables /file and /detach, and lets requests carry their
// own editor snapshot. state should also be the relay's ContextProvider.
func WithEditorState(state *EditorState) Option {
	return func(r *Runner) {
		r.editor = state
	}
}
