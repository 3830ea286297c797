// Package text renders a chat session as plain terminal lines.
package text

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/aicode/internal/presentation/tui"
	"github.com/aretw0/aicode/pkg/domain"
)

// ThinkingText is shown while a reply is pending.
const ThinkingText = "AIcode is thinking..."

// Surface prints turn events as lines prefixed with the turn id, so that
// replies arriving out of order stay attributable.
type Surface struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	render tui.CodeRenderer
}

// Option configures a Surface.
type Option func(*Surface)

// WithErrorWriter also writes hard failures to w (typically Stderr).
func WithErrorWriter(w io.Writer) Option {
	return func(s *Surface) {
		s.errOut = w
	}
}

// WithCodeRenderer sets how code suggestions are displayed.
func WithCodeRenderer(r tui.CodeRenderer) Option {
	return func(s *Surface) {
		s.render = r
	}
}

// New creates a Surface writing to out.
func New(out io.Writer, opts ...Option) *Surface {
	s := &Surface{out: out, render: tui.PlainRenderer()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) AddUserMessage(_ context.Context, _ domain.TurnID, text string) error {
	return s.printf("You: %s\n", text)
}

func (s *Surface) AddPendingPlaceholder(_ context.Context, id domain.TurnID) error {
	return s.printf("[%s] %s\n", id, ThinkingText)
}

func (s *Surface) ResolvePlaceholder(_ context.Context, id domain.TurnID, content domain.RenderedContent) error {
	return content.Match(
		func(t domain.TextContent) error {
			return s.printf("[%s] AIcode: %s\n", id, t.Body)
		},
		func(c domain.CodeSuggestion) error {
			rendered, err := s.render(c)
			if err != nil {
				rendered = tui.FenceCode(c)
			}
			return s.printf("[%s] AIcode:\n%s\n", id, strings.TrimRight(rendered, "\n"))
		},
	)
}

// NotifyError writes msg to the error writer, if any.
func (s *Surface) NotifyError(_ context.Context, msg string) error {
	if s.errOut == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.errOut, msg)
	return err
}

func (s *Surface) printf(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, format, args...)
	return err
}
