package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`     _    ___               _      `,
	`    / \  |_ _|___ ___   __| | ___ `,
	`   / _ \  | |/ __/ _ \ / _' |/ _ \`,
	`  / ___ \ | | (_| (_) | (_| |  __/`,
	` /_/   \_\___\___\___/ \__,_|\___|`,
}

var bannerColors = []string{"#38bdf8", "#22d3ee", "#2dd4bf", "#34d399", "#4ade80"}

// PrintBanner writes the AIcode banner, the version and the backend URL to w.
// Colours degrade to plain text when w is not a colour terminal.
func PrintBanner(w io.Writer, version, backendURL string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	meta := fmt.Sprintf("  v%s  backend %s  (type /help for commands)", strings.TrimSpace(version), backendURL)
	fmt.Fprintln(w, out.String(meta).Faint())
	fmt.Fprintln(w)
}
