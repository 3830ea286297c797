package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TextHandler reads line-oriented terminal input.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	// Prompt is printed before each read. Empty disables it.
	Prompt string

	mu        sync.Mutex
	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithPrompt sets the input prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the reader goroutine so that Input can honour ctx while a
// read is blocked.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Back off so a persistently failing reader does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Input reads the next line and parses it with ParseLine.
func (h *TextHandler) Input(ctx context.Context) (Request, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	default:
		if h.Prompt != "" {
			h.write(h.Prompt)
		}
	}

	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return Request{}, io.EOF
		}
		if res.err != nil {
			return Request{}, res.err
		}
		return ParseLine(res.text)
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	h.write(fmt.Sprintf("[System] %s\n", msg))
	return nil
}

func (h *TextHandler) ErrorOutput(ctx context.Context, msg string) error {
	h.write(fmt.Sprintf("[Error] %s\n", msg))
	return nil
}

func (h *TextHandler) write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.Writer, s)
}
