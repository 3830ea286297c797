package aicode

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/backend"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/aretw0/aicode/pkg/relay"
)

type settings struct {
	config       ports.ConfigSource
	context      ports.ContextProvider
	exchanger    ports.Exchanger
	httpClient   *http.Client
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	historyLimit int
}

// Option configures New.
type Option func(*settings)

// WithConfigSource sets where the backend location is read from on every
// exchange. The default is the reference backend at 127.0.0.1:8000.
func WithConfigSource(src ports.ConfigSource) Option {
	return func(s *settings) { s.config = src }
}

// WithBackend pins the backend configuration.
func WithBackend(cfg domain.BackendConfig) Option {
	return WithConfigSource(ports.StaticConfig(cfg))
}

// WithContextProvider supplies the editor context sent with each message.
func WithContextProvider(p ports.ContextProvider) Option {
	return func(s *settings) { s.context = p }
}

// WithExchanger replaces the HTTP backend client.
func WithExchanger(ex ports.Exchanger) Option {
	return func(s *settings) { s.exchanger = ex }
}

// WithHTTPClient sets the client used by the default exchanger.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) { s.hooks = s.hooks.Merge(hooks) }
}

// WithLogger sets a structured logger for the relay and the backend client.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithHistoryLimit sends the last n resolved turns as history.
func WithHistoryLimit(n int) Option {
	return func(s *settings) { s.historyLimit = n }
}

// New wires a chat session: a Relay rendering on surface and exchanging with
// the backend over HTTP.
func New(surface ports.Surface, opts ...Option) *relay.Relay {
	s := &settings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	ex := s.exchanger
	if ex == nil {
		clientOpts := []backend.Option{
			backend.WithLogger(s.logger),
			backend.WithUserAgent(UserAgent()),
		}
		if s.httpClient != nil {
			clientOpts = append(clientOpts, backend.WithHTTPClient(s.httpClient))
		}
		ex = backend.New(clientOpts...)
	}

	relayOpts := []relay.Option{
		relay.WithLogger(s.logger),
		relay.WithHooks(s.hooks),
		relay.WithHistoryLimit(s.historyLimit),
	}
	if s.config != nil {
		relayOpts = append(relayOpts, relay.WithConfigSource(s.config))
	}
	if s.context != nil {
		relayOpts = append(relayOpts, relay.WithContextProvider(s.context))
	}
	return relay.New(ex, surface, relayOpts...)
}
