package domain

import (
	"strconv"
	"time"
)

// TurnID correlates a user submission with its later resolution.
// IDs are issued sequentially by a Relay starting at 1 and are never reused.
type TurnID uint64

// String renders the ID as the placeholder element id used by the panel protocol.
func (id TurnID) String() string {
	return "response-" + strconv.FormatUint(uint64(id), 10)
}

// TurnStatus is the lifecycle stage of a Turn.
type TurnStatus string

const (
	StatusPending  TurnStatus = "pending"  // Exchange outstanding
	StatusResolved TurnStatus = "resolved" // Backend replied with a recognised payload
	StatusFailed   TurnStatus = "failed"   // Exchange failed; Result carries the user-facing message
)

// Terminal reports whether the status is a settled one.
func (s TurnStatus) Terminal() bool {
	return s == StatusResolved || s == StatusFailed
}

// Turn is one user submission and its reply.
type Turn struct {
	ID       TurnID
	UserText string
	Status   TurnStatus

	// Result is nil while Pending. For Failed turns it holds the Text variant
	// with a human-readable error message.
	Result *RenderedContent

	// Err is the classified exchange error of a Failed turn.
	Err error

	SubmittedAt time.Time
	SettledAt   time.Time
}

// NewTurn creates a Pending turn.
func NewTurn(id TurnID, userText string) *Turn {
	return &Turn{
		ID:          id,
		UserText:    userText,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
}

// Snapshot returns a copy that shares no mutable memory with t.
func (t *Turn) Snapshot() Turn {
	cp := *t
	if t.Result != nil {
		res := t.Result.Clone()
		cp.Result = &res
	}
	return cp
}

// Duration returns the time between submission and settlement (zero while pending).
func (t Turn) Duration() time.Duration {
	if t.SettledAt.IsZero() {
		return 0
	}
	return t.SettledAt.Sub(t.SubmittedAt)
}
