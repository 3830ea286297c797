package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventTurnSubmitted EventType = "turn_submitted"
	EventTurnSettled   EventType = "turn_settled"
)

// TurnEvent describes a turn lifecycle transition.
type TurnEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	SessionID string        `json:"session_id"`
	TurnID    TurnID        `json:"turn_id"`
	Status    TurnStatus    `json:"status"`
	Kind      ContentKind   `json:"kind,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for relay observability.
// Hooks run synchronously on the goroutine emitting the event and must not block.
type LifecycleHooks struct {
	OnTurnSubmitted func(context.Context, *TurnEvent)
	OnTurnSettled   func(context.Context, *TurnEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTurnSubmitted: chain(h.OnTurnSubmitted, other.OnTurnSubmitted),
		OnTurnSettled:   chain(h.OnTurnSettled, other.OnTurnSettled),
	}
}

func chain(a, b func(context.Context, *TurnEvent)) func(context.Context, *TurnEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *TurnEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
