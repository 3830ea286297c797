package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	muted     lipgloss.Style
	errorText lipgloss.Style
	input     lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("#22d3ee")
	green := lipgloss.Color("#4ade80")
	muted := lipgloss.Color("#7f8ea3")
	pink := lipgloss.Color("#fb7185")

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0f172a")).
			Background(accent).
			Padding(0, 1),
		user:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(green).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		errorText: lipgloss.NewStyle().Foreground(pink).Bold(true),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
	}
}
