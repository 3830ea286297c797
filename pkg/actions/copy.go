package actions

import (
	"errors"
	"io"

	"github.com/muesli/termenv"
)

// ErrNoCode is returned when there is no code to act on.
var ErrNoCode = errors.New("no code to act on")

// CopyCode places code on the system clipboard of the terminal attached to w
// using an OSC52 escape sequence. Terminals without OSC52 support ignore it.
func CopyCode(w io.Writer, code string) error {
	if code == "" {
		return ErrNoCode
	}
	termenv.NewOutput(w).Copy(code)
	return nil
}
