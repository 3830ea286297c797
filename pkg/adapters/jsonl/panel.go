package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/runner"
)

// Panel is both the Surface and the runner IOHandler of a JSON-lines host.
type Panel struct {
	reader *bufio.Reader

	mu  sync.Mutex
	enc *json.Encoder

	lines     chan lineResult
	startOnce sync.Once
}

type lineResult struct {
	line []byte
	err  error
}

// New creates a Panel reading commands from r and writing messages to w.
func New(r io.Reader, w io.Writer) *Panel {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Panel{
		reader: bufio.NewReader(r),
		enc:    enc,
	}
}

func (p *Panel) send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(msg)
}

func (p *Panel) AddUserMessage(_ context.Context, _ domain.TurnID, text string) error {
	return p.send(Message{Command: CmdAddUserMessage, Text: text})
}

func (p *Panel) AddPendingPlaceholder(_ context.Context, id domain.TurnID) error {
	return p.send(Message{Command: CmdAddAIMessagePlaceholder, ID: id.String()})
}

func (p *Panel) ResolvePlaceholder(_ context.Context, id domain.TurnID, content domain.RenderedContent) error {
	return content.Match(
		func(t domain.TextContent) error {
			return p.send(Message{Command: CmdUpdateAIMessage, ID: id.String(), Type: UpdateText, Content: t.Body})
		},
		func(c domain.CodeSuggestion) error {
			return p.send(Message{Command: CmdUpdateAIMessage, ID: id.String(), Type: UpdateCode, Content: CodeContent{
				Text:     c.Body,
				Code:     c.Code,
				Language: c.Language,
			}})
		},
	)
}

// NotifyError implements ports.ErrorNotifier.
func (p *Panel) NotifyError(_ context.Context, msg string) error {
	return p.send(Message{Command: CmdShowErrorMessage, Text: msg})
}

// SystemOutput implements runner.IOHandler.
func (p *Panel) SystemOutput(_ context.Context, msg string) error {
	return p.send(Message{Command: CmdShowInformationMessage, Text: msg})
}

// ErrorOutput implements runner.ErrorOutputter.
func (p *Panel) ErrorOutput(_ context.Context, msg string) error {
	return p.send(Message{Command: CmdShowErrorMessage, Text: msg})
}

func (p *Panel) initPump() {
	p.startOnce.Do(func() {
		p.lines = make(chan lineResult)
		go p.pump()
	})
}

func (p *Panel) pump() {
	defer close(p.lines)
	for {
		line, err := p.reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			p.lines <- lineResult{line: line}
		}
		if err != nil {
			if err != io.EOF {
				p.lines <- lineResult{err: err}
			}
			return
		}
	}
}

// Input implements runner.IOHandler. Blank lines are skipped.
func (p *Panel) Input(ctx context.Context) (runner.Request, error) {
	p.initPump()
	select {
	case <-ctx.Done():
		return runner.Request{}, ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return runner.Request{}, io.EOF
		}
		if res.err != nil {
			return runner.Request{}, res.err
		}
		return DecodeRequest(res.line)
	}
}

// DecodeRequest maps one inbound line to a runner.Request.
func DecodeRequest(line []byte) (runner.Request, error) {
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return runner.Request{}, fmt.Errorf("%w: %v", runner.ErrMalformedRequest, err)
	}
	switch msg.Command {
	case CmdSendMessage:
		return runner.Request{Kind: runner.RequestChat, Text: msg.Text, Context: msg.Context}, nil
	case CmdCopyCode, CmdSaveCode:
		req := runner.Request{Code: msg.Code, Language: msg.Language, Path: msg.Path, Kind: runner.RequestCopy}
		if msg.Command == CmdSaveCode {
			req.Kind = runner.RequestSave
		}
		if msg.Code == "" && msg.ID != "" {
			id, ok := runner.ParseTurnID(msg.ID)
			if !ok {
				return runner.Request{}, fmt.Errorf("%w: invalid id %q", runner.ErrMalformedRequest, msg.ID)
			}
			req.Turn = id
		}
		return req, nil
	case "":
		return runner.Request{}, fmt.Errorf("%w: missing command", runner.ErrMalformedRequest)
	}
	return runner.Request{}, fmt.Errorf("%w: %s", runner.ErrUnknownCommand, strings.TrimSpace(msg.Command))
}
