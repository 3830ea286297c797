package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/actions"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
)

// Session is the part of the relay the runner drives.
type Session interface {
	Submit(ctx context.Context, text string) (domain.TurnID, error)
	Turns() []domain.Turn
	Pending() int
	Wait()
}

// BackendConfigurer reads and switches the backend at runtime.
type BackendConfigurer interface {
	ports.ConfigSource
	SetBackend(host string, port int) error
}

// Runner reads requests from an IOHandler until the user leaves.
type Runner struct {
	session   Session
	handler   IOHandler
	logger    *slog.Logger
	clipboard io.Writer
	saveDir   string
	backend   BackendConfigurer
	editor    *EditorState
}

// NewRunner creates a Runner for session. Without WithInputHandler it reads
// Stdin and writes Stdout.
func NewRunner(session Session, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		logger:  logging.NewNop(),
		saveDir: ".",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run executes the input loop until exit/quit, EOF or interrupt, then waits
// for pending replies. A second interrupt while waiting returns immediately.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		req, err := r.handler.Input(signals.Context())
		if err != nil {
			if recoverable(err) && signals.Context().Err() == nil {
				r.reportError(ctx, err)
				continue
			}
			if signals.Interrupted() {
				r.logger.Debug("runner input: interrupted", "err", signals.Context().Err())
				break
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("input error: %w", err)
		}

		if req.Kind == RequestExit {
			break
		}
		if err := r.Dispatch(ctx, req); err != nil {
			if errors.Is(err, domain.ErrRelayClosed) {
				return err
			}
			r.reportError(ctx, err)
		}
	}

	r.drain(ctx, signals)
	return nil
}

// drain waits for pending turns unless interrupted again.
func (r *Runner) drain(ctx context.Context, signals *SignalManager) {
	pending := r.session.Pending()
	if pending == 0 {
		return
	}
	_ = r.handler.SystemOutput(ctx, fmt.Sprintf("Waiting for %d pending %s. Press Ctrl+C to quit now.", pending, plural(pending, "reply", "replies")))

	signals.Rearm()
	done := make(chan struct{})
	go func() {
		r.session.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-signals.Context().Done():
		r.logger.Debug("runner: abandoned pending turns", "pending", r.session.Pending())
	}
}

// Dispatch executes a single request.
func (r *Runner) Dispatch(ctx context.Context, req Request) error {
	switch req.Kind {
	case RequestChat:
		return r.chat(ctx, req)
	case RequestCopy:
		return r.copyCode(ctx, req)
	case RequestSave:
		return r.saveCode(ctx, req)
	case RequestBackend:
		return r.switchBackend(ctx, req.Text)
	case RequestFile:
		return r.attachFile(ctx, req.Path)
	case RequestDetach:
		return r.detachFile(ctx)
	case RequestTurns:
		return r.handler.SystemOutput(ctx, r.listTurns())
	case RequestHelp:
		return r.handler.SystemOutput(ctx, helpText)
	case RequestExit:
		return nil
	}
	return fmt.Errorf("%w: kind %d", ErrUnknownCommand, req.Kind)
}

func (r *Runner) chat(ctx context.Context, req Request) error {
	clean, err := SanitizeInput(req.Text)
	if err != nil {
		return err
	}
	if req.Context != nil && r.editor != nil {
		r.editor.Use(*req.Context)
		defer r.editor.Release()
	}
	if _, err := r.session.Submit(ctx, clean); err != nil && !errors.Is(err, domain.ErrEmptySubmission) {
		return err
	}
	return nil
}

func (r *Runner) copyCode(ctx context.Context, req Request) error {
	if r.clipboard == nil {
		return errors.New("no clipboard available in this mode")
	}
	code, _, source, err := r.resolveCode(req)
	if err != nil {
		return err
	}
	if err := actions.CopyCode(r.clipboard, code); err != nil {
		return err
	}
	return r.handler.SystemOutput(ctx, fmt.Sprintf("Copied code from %s to the clipboard.", source))
}

func (r *Runner) saveCode(ctx context.Context, req Request) error {
	code, language, _, err := r.resolveCode(req)
	if err != nil {
		return err
	}
	path, err := actions.SaveCode(r.saveDir, req.Path, code, language)
	if err != nil {
		return err
	}
	return r.handler.SystemOutput(ctx, fmt.Sprintf("Saved code to %s.", path))
}

// resolveCode returns the code a copy/save request refers to and a label for it.
func (r *Runner) resolveCode(req Request) (code, language, source string, err error) {
	if req.Code != "" {
		return req.Code, req.Language, "panel", nil
	}
	turns := r.session.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		if req.Turn != 0 && t.ID != req.Turn {
			continue
		}
		if t.Result != nil && t.Result.Code != nil {
			return t.Result.Code.Code, t.Result.Code.Language, t.ID.String(), nil
		}
		if req.Turn != 0 {
			return "", "", "", fmt.Errorf("%w: %s has no code suggestion", actions.ErrNoCode, t.ID)
		}
	}
	if req.Turn != 0 {
		return "", "", "", fmt.Errorf("%w: no turn %s", actions.ErrNoCode, req.Turn)
	}
	return "", "", "", fmt.Errorf("%w: no code suggestion yet", actions.ErrNoCode)
}

func (r *Runner) switchBackend(ctx context.Context, addr string) error {
	if r.backend == nil {
		return errors.New("backend cannot be changed in this mode")
	}
	if addr == "" {
		return r.handler.SystemOutput(ctx, "Backend: "+r.backend.Backend().BaseURL())
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: invalid port %q", ErrMalformedRequest, portStr)
	}
	if err := r.backend.SetBackend(host, port); err != nil {
		return err
	}
	r.logger.Info("backend switched", "url", r.backend.Backend().BaseURL())
	return r.handler.SystemOutput(ctx, "Backend set to "+r.backend.Backend().BaseURL())
}

func (r *Runner) attachFile(ctx context.Context, path string) error {
	if r.editor == nil {
		return errors.New("files cannot be attached in this mode")
	}
	if path == "" {
		if f := r.editor.File(); f != "" {
			return r.handler.SystemOutput(ctx, "Attached file: "+f)
		}
		return r.handler.SystemOutput(ctx, "No file attached. Use /file <path>.")
	}
	if err := r.editor.Attach(path); err != nil {
		return err
	}
	r.logger.Debug("file attached", "path", r.editor.File())
	return r.handler.SystemOutput(ctx, "Attached "+r.editor.File()+". Its content is sent with each message.")
}

func (r *Runner) detachFile(ctx context.Context) error {
	if r.editor == nil || r.editor.File() == "" {
		return r.handler.SystemOutput(ctx, "No file attached.")
	}
	_ = r.editor.Attach("")
	return r.handler.SystemOutput(ctx, "File detached.")
}

func (r *Runner) listTurns() string {
	turns := r.session.Turns()
	if len(turns) == 0 {
		return "No turns yet."
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		kind := ""
		if t.Result != nil && t.Status == domain.StatusResolved {
			kind = " " + string(t.Result.Kind)
		}
		fmt.Fprintf(&b, "%s [%s%s] %s", t.ID, t.Status, kind, firstLine(t.UserText))
	}
	return b.String()
}

func (r *Runner) reportError(ctx context.Context, err error) {
	r.logger.Debug("runner: request failed", "err", err)
	if eo, ok := r.handler.(ErrorOutputter); ok {
		_ = eo.ErrorOutput(ctx, err.Error())
		return
	}
	_ = r.handler.SystemOutput(ctx, "Error: "+err.Error())
}

func recoverable(err error) bool {
	return errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrMalformedRequest) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
