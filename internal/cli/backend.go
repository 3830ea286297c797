package cli

import (
	"context"
	"io"
	"os"

	backendhttp "github.com/aretw0/aicode/pkg/adapters/http"
	"github.com/aretw0/aicode/pkg/observability"
)

// BackendOptions configures the reference backend.
type BackendOptions struct {
	Addr   string
	Debug  bool
	Stderr io.Writer
}

// RunBackend serves the reference backend until interrupted.
func RunBackend(ctx context.Context, opts BackendOptions) error {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	logger := createLogger(opts.Stderr, opts.Debug, "info", false)

	handler, err := backendhttp.NewHandler(
		backendhttp.WithLogger(logger),
		backendhttp.WithMetrics(observability.NewMetrics()),
	)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()
	return backendhttp.ListenAndServe(sigCtx, opts.Addr, handler, logger)
}
