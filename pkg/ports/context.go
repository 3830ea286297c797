package ports

import (
	"context"

	"github.com/aretw0/aicode/pkg/domain"
)

// ContextProvider snapshots the user's current editing surface.
// Failures are not errors: an empty EditorContext is a valid answer.
type ContextProvider interface {
	EditorContext(ctx context.Context) domain.EditorContext
}

// ContextProviderFunc adapts a function to ContextProvider.
type ContextProviderFunc func(ctx context.Context) domain.EditorContext

func (f ContextProviderFunc) EditorContext(ctx context.Context) domain.EditorContext {
	return f(ctx)
}
