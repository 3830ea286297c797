package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/aicode/internal/config"
	backendhttp "github.com/aretw0/aicode/pkg/adapters/http"
	"github.com/aretw0/aicode/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/sourcegraph/conc"
)

// background runs the helpers of a chat session (config reload, metrics
// endpoint) until stop is called.
type background struct {
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func startBackground(ctx context.Context, opts ChatOptions, store *config.Store, metrics *observability.Metrics, logger *slog.Logger) *background {
	ctx, cancel := context.WithCancel(ctx)
	b := &background{cancel: cancel}

	if opts.WatchConfig && store.Path() != "" {
		b.wg.Go(func() {
			if err := store.Watch(ctx); err != nil {
				logger.Warn("Config watch stopped", "err", err)
			}
		})
	}

	if opts.MetricsAddr != "" && metrics != nil {
		r := chi.NewRouter()
		r.Handle("/metrics", metrics.Handler())
		b.wg.Go(func() {
			if err := backendhttp.ListenAndServe(ctx, opts.MetricsAddr, r, logger); err != nil {
				logger.Error("Metrics server failed", "addr", opts.MetricsAddr, "err", err)
			}
		})
	}
	return b
}

func (b *background) stop() {
	b.cancel()
	b.wg.Wait()
}
