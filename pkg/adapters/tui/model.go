package tui

import (
	"strings"

	presentation "github.com/aretw0/aicode/internal/presentation/tui"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/runner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	inputHeight  = 3 // input line plus its border
)

type entryKind int

const (
	entryUser entryKind = iota
	entryReply
	entryNotice
)

type entry struct {
	kind    entryKind
	id      domain.TurnID
	text    string
	content *domain.RenderedContent
	isError bool
}

func (e entry) pending() bool { return e.kind == entryReply && e.content == nil }

// Model is the bubbletea model of the panel.
type Model struct {
	panel  *Panel
	render presentation.CodeRenderer
	title  string
	styles styles

	entries []entry
	replies map[domain.TurnID]int

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTitle sets the header text.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.title = title
	}
}

// WithCodeRenderer sets how code suggestions are displayed.
func WithCodeRenderer(r presentation.CodeRenderer) ModelOption {
	return func(m *Model) {
		m.render = r
	}
}

// NewModel creates a Model fed by panel.
func NewModel(panel *Panel, opts ...ModelOption) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Ask AIcode anything. /help lists commands."
	input.CharLimit = runner.DefaultMaxInputSize
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))

	m := Model{
		panel:    panel,
		render:   presentation.PlainRenderer(),
		title:    "AIcode",
		styles:   newStyles(),
		replies:  make(map[domain.TurnID]int),
		viewport: viewport.New(0, 0),
		input:    input,
		spinner:  sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.panel.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-inputHeight, 1)
		m.input.Width = max(msg.Width-6, 10)
		m.refresh()

	case UserMsg:
		m.entries = append(m.entries, entry{kind: entryUser, id: msg.ID, text: msg.Text})
		m.refresh()
		cmds = append(cmds, m.panel.waitForEvent())

	case PlaceholderMsg:
		m.replies[msg.ID] = len(m.entries)
		m.entries = append(m.entries, entry{kind: entryReply, id: msg.ID})
		m.refresh()
		cmds = append(cmds, m.panel.waitForEvent())

	case ResolvedMsg:
		content := msg.Content
		if idx, ok := m.replies[msg.ID]; ok {
			m.entries[idx].content = &content
		} else {
			m.replies[msg.ID] = len(m.entries)
			m.entries = append(m.entries, entry{kind: entryReply, id: msg.ID, content: &content})
		}
		m.refresh()
		cmds = append(cmds, m.panel.waitForEvent())

	case NoticeMsg:
		m.entries = append(m.entries, entry{kind: entryNotice, text: msg.Text, isError: msg.Error})
		m.refresh()
		cmds = append(cmds, m.panel.waitForEvent())

	case panelClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.hasPending() {
			m.refresh()
		}
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.panel.Close()
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			return m, m.panel.send(line)
		case "ctrl+y":
			return m, m.panel.send("/copy")
		case "ctrl+s":
			return m, m.panel.send("/save")
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.styles.header.Render(m.title)
	if pending := m.pendingCount(); pending > 0 {
		header += " " + m.spinner.View() + m.styles.muted.Render(" waiting for replies")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.styles.input.Render(m.input.View()),
	)
}

// Transcript renders every entry, oldest first.
func (m Model) Transcript() string {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderEntry(e))
	}
	return b.String()
}

func (m Model) renderEntry(e entry) string {
	switch e.kind {
	case entryUser:
		return m.styles.user.Render("You") + ": " + m.wrap(e.text)
	case entryNotice:
		if e.isError {
			return m.styles.errorText.Render(m.wrap(e.text))
		}
		return m.styles.muted.Render(m.wrap(e.text))
	}

	label := m.styles.assistant.Render("AIcode") + m.styles.muted.Render(" ["+e.id.String()+"]")
	if e.pending() {
		return label + "\n" + m.spinner.View() + " " + m.styles.muted.Render("AIcode is thinking...")
	}
	var body string
	_ = e.content.Match(
		func(t domain.TextContent) error {
			body = m.wrap(t.Body)
			return nil
		},
		func(c domain.CodeSuggestion) error {
			rendered, err := m.render(c)
			if err != nil {
				rendered = presentation.FenceCode(c)
			}
			body = rendered
			return nil
		},
	)
	return label + "\n" + body
}

func (m Model) wrap(s string) string {
	if m.viewport.Width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(s)
}

func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.Transcript())
	if atBottom || m.viewport.Height == 0 {
		m.viewport.GotoBottom()
	}
}

func (m Model) hasPending() bool { return m.pendingCount() > 0 }

func (m Model) pendingCount() int {
	n := 0
	for _, e := range m.entries {
		if e.pending() {
			n++
		}
	}
	return n
}
