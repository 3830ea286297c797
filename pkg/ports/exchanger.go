package ports

import (
	"context"

	"github.com/aretw0/aicode/pkg/domain"
)

// Exchanger performs the single network exchange of a turn.
// Implementations are stateless per call and must not retain the payload.
type Exchanger interface {
	Exchange(ctx context.Context, payload domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, payload domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error)

func (f ExchangerFunc) Exchange(ctx context.Context, payload domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error) {
	return f(ctx, payload, cfg)
}
