package tui

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/runner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPanelClosed is returned when posting to a panel whose program has exited.
var ErrPanelClosed = errors.New("panel closed")

// eventBuffer bounds how many surface events may wait for the program.
const eventBuffer = 256

// Messages posted to the program.
type (
	UserMsg struct {
		ID   domain.TurnID
		Text string
	}
	PlaceholderMsg struct {
		ID domain.TurnID
	}
	ResolvedMsg struct {
		ID      domain.TurnID
		Content domain.RenderedContent
	}
	NoticeMsg struct {
		Text  string
		Error bool
	}
	panelClosedMsg struct{}
)

// Panel implements ports.Surface, ports.ErrorNotifier and runner.IOHandler on
// top of two channels shared with a Model.
type Panel struct {
	events chan tea.Msg
	lines  chan string

	closed    chan struct{}
	closeOnce sync.Once
}

// NewPanel creates an open Panel.
func NewPanel() *Panel {
	return &Panel{
		events: make(chan tea.Msg, eventBuffer),
		lines:  make(chan string),
		closed: make(chan struct{}),
	}
}

// Events exposes posted messages, in order.
func (p *Panel) Events() <-chan tea.Msg { return p.events }

// Close stops Input and makes further posts fail. It is idempotent.
func (p *Panel) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

func (p *Panel) post(ctx context.Context, msg tea.Msg) error {
	select {
	case <-p.closed:
		return ErrPanelClosed
	default:
	}
	select {
	case p.events <- msg:
		return nil
	case <-p.closed:
		return ErrPanelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Panel) AddUserMessage(ctx context.Context, id domain.TurnID, text string) error {
	return p.post(ctx, UserMsg{ID: id, Text: text})
}

func (p *Panel) AddPendingPlaceholder(ctx context.Context, id domain.TurnID) error {
	return p.post(ctx, PlaceholderMsg{ID: id})
}

func (p *Panel) ResolvePlaceholder(ctx context.Context, id domain.TurnID, content domain.RenderedContent) error {
	return p.post(ctx, ResolvedMsg{ID: id, Content: content.Clone()})
}

func (p *Panel) NotifyError(ctx context.Context, msg string) error {
	return p.post(ctx, NoticeMsg{Text: msg, Error: true})
}

func (p *Panel) SystemOutput(ctx context.Context, msg string) error {
	return p.post(ctx, NoticeMsg{Text: msg})
}

func (p *Panel) ErrorOutput(ctx context.Context, msg string) error {
	return p.post(ctx, NoticeMsg{Text: msg, Error: true})
}

// Input returns the next line submitted in the program, parsed with runner.ParseLine.
func (p *Panel) Input(ctx context.Context) (runner.Request, error) {
	select {
	case line := <-p.lines:
		return runner.ParseLine(line)
	case <-p.closed:
		return runner.Request{}, io.EOF
	case <-ctx.Done():
		return runner.Request{}, ctx.Err()
	}
}

// send hands a line to Input without blocking the update loop.
func (p *Panel) send(line string) tea.Cmd {
	return func() tea.Msg {
		select {
		case p.lines <- line:
		case <-p.closed:
		}
		return nil
	}
}

// waitForEvent delivers the next posted message to the program.
func (p *Panel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.events:
			return msg
		case <-p.closed:
			return panelClosedMsg{}
		}
	}
}
