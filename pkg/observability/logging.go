package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/aicode/pkg/domain"
)

// LogHooks returns lifecycle hooks that log each transition.
// Submissions log at Debug; failed turns at Warn; resolved turns at Info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnSubmitted: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn_submitted",
				"session_id", e.SessionID,
				"turn", e.TurnID.String(),
			)
		},
		OnTurnSettled: func(ctx context.Context, e *domain.TurnEvent) {
			level := slog.LevelInfo
			if e.Status == domain.StatusFailed {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "turn_settled",
				"session_id", e.SessionID,
				"turn", e.TurnID.String(),
				"status", e.Status,
				"kind", e.Kind,
				"error_kind", e.ErrorKind,
				"duration", e.Duration,
			)
		},
	}
}
