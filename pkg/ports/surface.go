package ports

import (
	"context"

	"github.com/aretw0/aicode/pkg/domain"
)

// Surface renders the lifecycle of turns. For a given TurnID the relay calls
// AddUserMessage, AddPendingPlaceholder and ResolvePlaceholder in that order,
// exactly once each. Across TurnIDs resolutions arrive in completion order, so
// implementations must key updates by TurnID.
//
// ResolvePlaceholder may be called from a goroutine other than the submitter's.
type Surface interface {
	AddUserMessage(ctx context.Context, id domain.TurnID, text string) error
	AddPendingPlaceholder(ctx context.Context, id domain.TurnID) error
	ResolvePlaceholder(ctx context.Context, id domain.TurnID, content domain.RenderedContent) error
}

// ErrorNotifier is an optional Surface capability for announcing hard failures
// (HTTP and connection errors) besides rendering them in the placeholder.
type ErrorNotifier interface {
	NotifyError(ctx context.Context, msg string) error
}
