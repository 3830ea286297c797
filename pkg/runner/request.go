package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/aicode/pkg/domain"
)

// RequestKind identifies what a Request asks the runner to do.
type RequestKind int

const (
	RequestChat RequestKind = iota
	RequestCopy
	RequestSave
	RequestBackend
	RequestTurns
	RequestHelp
	RequestFile
	RequestDetach
	RequestExit
)

// Request is one unit of user input.
type Request struct {
	Kind RequestKind

	// Text is the chat message, or host:port for RequestBackend.
	Text string

	// Turn selects the code suggestion to act on. Zero picks the latest one.
	Turn domain.TurnID

	// Code and Language carry code supplied by the host itself (panel copy/save
	// buttons). When Code is set, Turn is ignored.
	Code     string
	Language string

	// Path is the destination of RequestSave, or the file of RequestFile.
	// Empty picks a default name or shows the attached file.
	Path string

	// Context is the editor snapshot a panel host sent with a chat message.
	// It replaces the attached file for that message only.
	Context *domain.EditorContext
}

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedRequest = errors.New("malformed request")
)

// ParseLine turns a line of terminal input into a Request.
//
//	exit | quit               end the session
//	/copy [N]                 copy code of turn N (default latest)
//	/save [N] [path]          save code of turn N
//	/backend [host:port]      show or switch the backend
//	/file [path]              show or attach the file sent as editor context
//	/detach                   stop sending the attached file
//	/turns                    list turns
//	/help                     list commands
//
// Anything else, including a line starting with an unknown /word, is chat
// text and is kept as typed apart from the line terminator.
func ParseLine(line string) (Request, error) {
	raw := strings.TrimRight(line, "\r\n")
	text := strings.TrimSpace(raw)
	switch text {
	case "exit", "quit":
		return Request{Kind: RequestExit}, nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Request{Kind: RequestChat, Text: raw}, nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "/copy":
		req := Request{Kind: RequestCopy}
		if len(args) > 1 {
			return Request{}, fmt.Errorf("%w: usage: /copy [N]", ErrMalformedRequest)
		}
		if len(args) == 1 {
			id, ok := ParseTurnID(args[0])
			if !ok {
				return Request{}, fmt.Errorf("%w: %q is not a turn number", ErrMalformedRequest, args[0])
			}
			req.Turn = id
		}
		return req, nil
	case "/save":
		req := Request{Kind: RequestSave}
		if len(args) > 0 {
			if id, ok := ParseTurnID(args[0]); ok {
				req.Turn = id
				args = args[1:]
			}
		}
		if len(args) > 1 {
			return Request{}, fmt.Errorf("%w: usage: /save [N] [path]", ErrMalformedRequest)
		}
		if len(args) == 1 {
			req.Path = args[0]
		}
		return req, nil
	case "/backend":
		if len(args) > 1 {
			return Request{}, fmt.Errorf("%w: usage: /backend [host:port]", ErrMalformedRequest)
		}
		req := Request{Kind: RequestBackend}
		if len(args) == 1 {
			req.Text = args[0]
		}
		return req, nil
	case "/file":
		// The path may contain spaces.
		return Request{Kind: RequestFile, Path: strings.TrimSpace(strings.TrimPrefix(text, cmd))}, nil
	case "/detach":
		return Request{Kind: RequestDetach}, nil
	case "/turns":
		return Request{Kind: RequestTurns}, nil
	case "/help":
		return Request{Kind: RequestHelp}, nil
	}
	return Request{Kind: RequestChat, Text: raw}, nil
}

// ParseTurnID accepts "N" or "response-N".
func ParseTurnID(s string) (domain.TurnID, bool) {
	s = strings.TrimPrefix(s, "response-")
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return domain.TurnID(n), true
}

const helpText = `Commands:
  /copy [N]             copy the code of turn N (default: latest) to the clipboard
  /save [N] [path]      save the code of turn N (default name: untitled.<language>)
  /backend [host:port]  show or switch the assistant backend
  /file [path]          show or attach the file sent with each message
  /detach               stop sending the attached file
  /turns                list the turns of this session
  /help                 show this help
  exit, quit            end the session`
