package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how the chat session is presented.
type Mode string

const (
	ModeAuto  Mode = "auto"  // TUI on a terminal, text otherwise
	ModeTUI   Mode = "tui"   // full-screen panel
	ModeText  Mode = "text"  // line-oriented transcript
	ModeJSONL Mode = "jsonl" // panel message protocol, one JSON object per line
)

// Modes lists the accepted --mode values.
var Modes = []Mode{ModeAuto, ModeTUI, ModeText, ModeJSONL}

// ResolveMode turns the requested mode into a concrete one.
func ResolveMode(requested string, interactive bool) (Mode, error) {
	switch m := Mode(requested); m {
	case "", ModeAuto:
		if interactive {
			return ModeTUI, nil
		}
		return ModeText, nil
	case ModeTUI, ModeText, ModeJSONL:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want one of %v)", requested, Modes)
	}
}

// isTerminal reports whether both ends of the session are a terminal.
func isTerminal(in io.Reader, out io.Writer) bool {
	return fileIsTerminal(in) && fileIsTerminal(out)
}

func fileIsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of out, or 0 when unknown.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
