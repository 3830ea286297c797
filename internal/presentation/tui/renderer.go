package tui

import (
	"strings"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// CodeRenderer renders a code suggestion for display.
type CodeRenderer func(domain.CodeSuggestion) (string, error)

// FenceCode renders a code suggestion as markdown: the explanation followed by
// a fenced block tagged with the language.
func FenceCode(cs domain.CodeSuggestion) string {
	var b strings.Builder
	if cs.Body != "" {
		b.WriteString(cs.Body)
		b.WriteString("\n\n")
	}
	fence := "```"
	for strings.Contains(cs.Code, fence) {
		fence += "`"
	}
	b.WriteString(fence)
	b.WriteString(cs.Language)
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(cs.Code, "\n"))
	b.WriteByte('\n')
	b.WriteString(fence)
	return b.String()
}

// PlainRenderer returns FenceCode unchanged. Used when output is not a terminal.
func PlainRenderer() CodeRenderer {
	return func(cs domain.CodeSuggestion) (string, error) {
		return FenceCode(cs), nil
	}
}

// NewRenderer returns a CodeRenderer that highlights the fenced block with
// glamour, wrapping at width columns (0 keeps glamour's default).
// It falls back to PlainRenderer if glamour cannot be initialised.
func NewRenderer(width int) CodeRenderer {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return PlainRenderer()
	}
	return func(cs domain.CodeSuggestion) (string, error) {
		out, err := r.Render(FenceCode(cs))
		if err != nil {
			return FenceCode(cs), err
		}
		return strings.Trim(out, "\n"), nil
	}
}
