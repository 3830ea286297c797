package relay

import (
	"log/slog"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
)

// Option configures a Relay.
type Option func(*Relay)

// WithConfigSource sets where the backend configuration is read from on each exchange.
func WithConfigSource(src ports.ConfigSource) Option {
	return func(r *Relay) {
		r.config = src
	}
}

// WithContextProvider sets the editor context snapshot taken at submission time.
func WithContextProvider(p ports.ContextProvider) Option {
	return func(r *Relay) {
		r.contextProvider = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithHooks adds lifecycle hooks. Multiple calls accumulate.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Relay) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithHistoryLimit sends up to n previously resolved turns along with each
// submission. Zero sends an empty history.
func WithHistoryLimit(n int) Option {
	return func(r *Relay) {
		r.historyLimit = max(n, 0)
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(r *Relay) {
		r.sessionID = id
	}
}
