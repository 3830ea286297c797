package testutils

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/stretchr/testify/require"
)

// BackendConfigFor returns a BackendConfig pointing at the server listening on rawURL
// (typically httptest.Server.URL). It fails the test immediately on error.
func BackendConfigFor(t *testing.T, rawURL string) domain.BackendConfig {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err, "parsing server url")
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err, "parsing server port")

	cfg := domain.DefaultBackendConfig()
	cfg.Host = u.Hostname()
	cfg.Port = port
	cfg.RetryBackoff = time.Millisecond
	return cfg
}

// Recorder is a ports.Surface that keeps every event it receives, formatted as
// "<kind>:<turn id>".
type Recorder struct {
	mu       sync.Mutex
	events   []string
	texts    map[domain.TurnID]string
	resolved map[domain.TurnID]domain.RenderedContent
	errors   []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		texts:    make(map[domain.TurnID]string),
		resolved: make(map[domain.TurnID]domain.RenderedContent),
	}
}

func (r *Recorder) AddUserMessage(_ context.Context, id domain.TurnID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[id] = text
	r.events = append(r.events, "user:"+id.String())
	return nil
}

func (r *Recorder) AddPendingPlaceholder(_ context.Context, id domain.TurnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "placeholder:"+id.String())
	return nil
}

func (r *Recorder) ResolvePlaceholder(_ context.Context, id domain.TurnID, content domain.RenderedContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[id] = content.Clone()
	r.events = append(r.events, "resolved:"+id.String())
	return nil
}

// Events returns the events received so far.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// UserText returns the text shown for a turn's user message.
func (r *Recorder) UserText(id domain.TurnID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texts[id]
}

// Resolved returns the content a turn's placeholder was resolved with.
func (r *Recorder) Resolved(id domain.TurnID) (domain.RenderedContent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.resolved[id]
	return c, ok
}

// Errors returns the messages received through NotifyError.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Notifying wraps the recorder so that it also implements ports.ErrorNotifier.
func (r *Recorder) Notifying() *NotifyingRecorder {
	return &NotifyingRecorder{Recorder: r}
}

// NotifyingRecorder is a Recorder that also records error notifications.
type NotifyingRecorder struct {
	*Recorder
}

func (n *NotifyingRecorder) NotifyError(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
	return nil
}
