package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

// ErrUnknownTurn is returned when a TurnID was never issued by the relay.
var ErrUnknownTurn = errors.New("unknown turn")

type entry struct {
	turn *domain.Turn
	done chan struct{}
}

// Relay correlates submissions with their asynchronous replies.
// All methods are safe for concurrent use.
type Relay struct {
	exchanger       ports.Exchanger
	surface         ports.Surface
	config          ports.ConfigSource
	contextProvider ports.ContextProvider
	logger          *slog.Logger
	hooks           domain.LifecycleHooks
	historyLimit    int
	sessionID       string

	mu      sync.Mutex
	lastID  domain.TurnID
	entries map[domain.TurnID]*entry
	order   []domain.TurnID
	closed  bool

	inflight conc.WaitGroup
}

// New creates a Relay that exchanges through ex and renders on surface.
func New(ex ports.Exchanger, surface ports.Surface, opts ...Option) *Relay {
	r := &Relay{
		exchanger:       ex,
		surface:         surface,
		config:          ports.StaticConfig(domain.DefaultBackendConfig()),
		contextProvider: ports.ContextProviderFunc(func(context.Context) domain.EditorContext { return domain.EditorContext{} }),
		logger:          logging.NewNop(),
		entries:         make(map[domain.TurnID]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	return r
}

// SessionID identifies this relay in logs and events.
func (r *Relay) SessionID() string { return r.sessionID }

// SubmitTurn accepts a user submission. It returns false, with no events and
// no state change, when text is empty after trimming whitespace or the relay
// is closed.
func (r *Relay) SubmitTurn(text string) (domain.TurnID, bool) {
	id, err := r.Submit(context.Background(), text)
	return id, err == nil
}

// Submit is SubmitTurn with a context and the rejection reason.
// The exchange outlives ctx: cancelling it does not abort the turn.
func (r *Relay) Submit(ctx context.Context, text string) (domain.TurnID, error) {
	if strings.TrimSpace(text) == "" {
		return 0, domain.ErrEmptySubmission
	}

	cfg := r.config.Backend()
	editor := r.contextProvider.EditorContext(ctx)
	start := make(chan struct{})

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, domain.ErrRelayClosed
	}
	r.lastID++
	id := r.lastID
	e := &entry{turn: domain.NewTurn(id, text), done: make(chan struct{})}
	payload := domain.OutboundPayload{Message: text, Context: editor, History: r.historyLocked()}
	r.entries[id] = e
	r.order = append(r.order, id)

	exCtx := context.WithoutCancel(ctx)
	r.inflight.Go(func() {
		<-start
		r.run(exCtx, e, payload, cfg)
	})
	r.mu.Unlock()

	r.logger.Debug("turn submitted", "session_id", r.sessionID, "turn", id.String(), "url", cfg.ChatURL())
	r.emit(ctx, "add_user_message", id, r.surface.AddUserMessage(ctx, id, text))
	r.emit(ctx, "add_pending_placeholder", id, r.surface.AddPendingPlaceholder(ctx, id))
	if r.hooks.OnTurnSubmitted != nil {
		r.hooks.OnTurnSubmitted(ctx, &domain.TurnEvent{
			Timestamp: e.turn.SubmittedAt,
			Type:      domain.EventTurnSubmitted,
			SessionID: r.sessionID,
			TurnID:    id,
			Status:    domain.StatusPending,
		})
	}
	close(start)
	return id, nil
}

func (r *Relay) run(ctx context.Context, e *entry, payload domain.OutboundPayload, cfg domain.BackendConfig) {
	content, err := r.exchange(ctx, payload, cfg)
	r.settle(ctx, e, content, err, cfg)
}

func (r *Relay) exchange(ctx context.Context, payload domain.OutboundPayload, cfg domain.BackendConfig) (content domain.RenderedContent, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("exchange panicked: %v", p)
		}
	}()
	content, err = r.exchanger.Exchange(ctx, payload, cfg)
	if err == nil {
		if verr := content.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", domain.ErrUnrecognizedResponse, verr)
		}
	}
	return content, err
}

func (r *Relay) settle(ctx context.Context, e *entry, content domain.RenderedContent, err error, cfg domain.BackendConfig) {
	var msg string
	if err != nil {
		msg = domain.UserMessage(err, cfg)
		content = domain.NewText(msg)
	}

	r.mu.Lock()
	turn := e.turn
	turn.SettledAt = time.Now()
	result := content.Clone()
	turn.Result = &result
	if err != nil {
		turn.Status = domain.StatusFailed
		turn.Err = err
	} else {
		turn.Status = domain.StatusResolved
	}
	event := &domain.TurnEvent{
		Timestamp: turn.SettledAt,
		Type:      domain.EventTurnSettled,
		SessionID: r.sessionID,
		TurnID:    turn.ID,
		Status:    turn.Status,
		Kind:      content.Kind,
		ErrorKind: domain.ErrorKind(err),
		Duration:  turn.Duration(),
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("exchange failed", "session_id", r.sessionID, "turn", turn.ID.String(), "err_kind", event.ErrorKind, "err", err)
	} else {
		r.logger.Debug("turn resolved", "session_id", r.sessionID, "turn", turn.ID.String(), "kind", content.Kind, "duration", event.Duration)
	}

	r.emit(ctx, "resolve_placeholder", turn.ID, r.surface.ResolvePlaceholder(ctx, turn.ID, content))
	if err != nil && domain.IsHardFailure(err) {
		if notifier, ok := r.surface.(ports.ErrorNotifier); ok {
			r.emit(ctx, "notify_error", turn.ID, notifier.NotifyError(ctx, msg))
		}
	}
	if r.hooks.OnTurnSettled != nil {
		r.hooks.OnTurnSettled(ctx, event)
	}
	close(e.done)
}

func (r *Relay) emit(ctx context.Context, event string, id domain.TurnID, err error) {
	if err != nil {
		r.logger.WarnContext(ctx, "surface rejected event", "event", event, "turn", id.String(), "err", err)
	}
}

// historyLocked builds the history of the last historyLimit resolved turns.
// Callers must hold r.mu.
func (r *Relay) historyLocked() []domain.HistoryEntry {
	if r.historyLimit == 0 {
		return nil
	}
	var picked []*domain.Turn
	for i := len(r.order) - 1; i >= 0 && len(picked) < r.historyLimit; i-- {
		t := r.entries[r.order[i]].turn
		if t.Status == domain.StatusResolved {
			picked = append(picked, t)
		}
	}
	history := make([]domain.HistoryEntry, 0, 2*len(picked))
	for i := len(picked) - 1; i >= 0; i-- {
		t := picked[i]
		history = append(history,
			domain.HistoryEntry{Role: domain.RoleUser, Content: t.UserText},
			domain.HistoryEntry{Role: domain.RoleAssistant, Content: t.Result.Summary()},
		)
	}
	return history
}

// Turn returns a copy of the turn with the given id.
func (r *Relay) Turn(id domain.TurnID) (domain.Turn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.Turn{}, false
	}
	return e.turn.Snapshot(), true
}

// Turns returns copies of all turns in submission order.
func (r *Relay) Turns() []domain.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Turn, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].turn.Snapshot())
	}
	return out
}

// Await blocks until the turn settles or ctx is done.
func (r *Relay) Await(ctx context.Context, id domain.TurnID) (domain.Turn, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return domain.Turn{}, fmt.Errorf("%w: %s", ErrUnknownTurn, id)
	}
	select {
	case <-e.done:
	case <-ctx.Done():
		return domain.Turn{}, ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return e.turn.Snapshot(), nil
}

// Pending returns the number of turns still waiting for their reply.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.turn.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// Wait blocks until every exchange started so far has settled.
func (r *Relay) Wait() {
	r.inflight.Wait()
}

// Close refuses further submissions and waits for in-flight exchanges.
// In-flight exchanges are not cancelled.
func (r *Relay) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.Wait()
	return nil
}
