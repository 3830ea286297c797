package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/aicode"
	"github.com/aretw0/aicode/internal/config"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/observability"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/aretw0/aicode/pkg/relay"
	"github.com/aretw0/aicode/pkg/runner"
)

// openStore loads the configuration with the command-line flags applied on
// top. An explicit --config must exist.
func openStore(opts ChatOptions, logger *slog.Logger) (*config.Store, error) {
	path := opts.ConfigPath
	storeOpts := []config.StoreOption{config.WithStoreLogger(logger)}
	if path != "" {
		storeOpts = append(storeOpts, config.WithRequiredFile())
	} else {
		path = config.Path()
	}
	storeOpts = append(storeOpts, config.WithOverride(flagOverrides(opts)))

	store, err := config.Open(path, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return store, nil
}

func flagOverrides(opts ChatOptions) func(*config.Config) {
	return func(c *config.Config) {
		if opts.Host != "" {
			c.Backend.Host = opts.Host
		}
		if opts.Port != 0 {
			c.Backend.Port = opts.Port
		}
		if opts.Timeout != 0 {
			c.Backend.Timeout = opts.Timeout
		}
		if opts.Retries != 0 {
			c.Backend.Retries = opts.Retries
		}
		if opts.HistoryLimit != 0 {
			c.HistoryLimit = opts.HistoryLimit
		}
	}
}

// newEditorState attaches opts.File, if any.
func newEditorState(opts ChatOptions) (*runner.EditorState, error) {
	editor := runner.NewEditorState()
	if err := editor.Attach(opts.File); err != nil {
		return nil, err
	}
	return editor, nil
}

// createSession wires the relay with logging and metrics hooks. The editor
// state supplies the context sent with each message.
func createSession(surface ports.Surface, store *config.Store, editor *runner.EditorState, metrics *observability.Metrics, logger *slog.Logger) *relay.Relay {
	hooks := observability.LogHooks(logger)
	if metrics != nil {
		hooks = metrics.Hooks().Merge(hooks)
	}
	return aicode.New(surface,
		aicode.WithConfigSource(store),
		aicode.WithContextProvider(editor),
		aicode.WithLogger(logger),
		aicode.WithLifecycleHooks(hooks),
		aicode.WithHistoryLimit(store.Config().HistoryLimit),
	)
}

// describeBackend is the banner line for cfg.
func describeBackend(cfg domain.BackendConfig) string {
	return cfg.BaseURL()
}
