package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/aicode"
	presentation "github.com/aretw0/aicode/internal/presentation/tui"
	"github.com/aretw0/aicode/pkg/adapters/jsonl"
	"github.com/aretw0/aicode/pkg/adapters/text"
	"github.com/aretw0/aicode/pkg/adapters/tui"
	"github.com/aretw0/aicode/pkg/observability"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/aretw0/aicode/pkg/runner"
	tea "github.com/charmbracelet/bubbletea"
)

// RunChat runs an interactive chat session until the user leaves.
func RunChat(ctx context.Context, opts ChatOptions) error {
	opts.setDefaults()

	mode, err := ResolveMode(opts.Mode, isTerminal(opts.Stdin, opts.Stdout))
	if err != nil {
		return err
	}

	// The TUI owns the screen: it only logs when asked to.
	logger := createLogger(opts.Stderr, opts.Debug, "info", opts.Quiet || (mode == ModeTUI && !opts.Debug))
	store, err := openStore(opts, logger)
	if err != nil {
		return err
	}
	if !opts.Debug && !opts.Quiet && mode != ModeTUI {
		logger = createLogger(opts.Stderr, false, store.Config().LogLevel, false)
	}
	logger.Debug("Config loaded", "path", store.Path(), "backend", store.Backend().Addr())

	editor, err := newEditorState(opts)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	metrics := observability.NewMetrics()
	bg := startBackground(sigCtx, opts, store, metrics, logger)
	defer bg.stop()

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithSaveDir(opts.SaveDir),
		runner.WithBackendConfigurer(store),
		runner.WithEditorState(editor),
	}

	switch mode {
	case ModeJSONL:
		panel := jsonl.New(opts.Stdin, opts.Stdout)
		session := createSession(panel, store, editor, metrics, logger)
		defer session.Close()
		runnerOpts = append(runnerOpts,
			runner.WithInputHandler(panel),
			// Stdout carries the protocol; OSC52 goes to the terminal hosting the process.
			runner.WithClipboard(opts.Stderr),
		)
		return handleExecutionError(runner.NewRunner(session, runnerOpts...).Run(sigCtx))

	case ModeText:
		if !opts.Quiet {
			presentation.PrintBanner(opts.Stdout, aicode.Version, describeBackend(store.Backend()))
		}
		surface := text.New(opts.Stdout,
			text.WithErrorWriter(opts.Stderr),
			text.WithCodeRenderer(codeRenderer(opts.Stdout)),
		)
		session := createSession(surface, store, editor, metrics, logger)
		defer session.Close()
		runnerOpts = append(runnerOpts,
			runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stdout)),
			runner.WithClipboard(opts.Stdout),
		)
		err := runner.NewRunner(session, runnerOpts...).Run(sigCtx)
		if sig := sigCtx.Signal(); sig != nil && !opts.Quiet {
			printSystemMessage(opts.Stdout, "Interrupted (%v).", sig)
		}
		return handleExecutionError(err)

	case ModeTUI:
		return runTUI(sigCtx, opts, store.Backend().BaseURL(), func(surface ports.Surface) runner.Session {
			return createSession(surface, store, editor, metrics, logger)
		}, runnerOpts)
	}
	return fmt.Errorf("unsupported mode %q", mode)
}

// runTUI runs the bubbletea program and the runner side by side. Quitting the
// program closes the panel, which ends the runner with EOF.
func runTUI(ctx context.Context, opts ChatOptions, backendURL string, newSession func(ports.Surface) runner.Session, runnerOpts []runner.Option) error {
	panel := tui.NewPanel()
	session := newSession(panel)
	if c, ok := session.(io.Closer); ok {
		defer c.Close()
	}

	model := tui.NewModel(panel,
		tui.WithTitle(fmt.Sprintf("AIcode %s · %s", aicode.Version, backendURL)),
		tui.WithCodeRenderer(codeRenderer(opts.Stdout)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runnerOpts = append(runnerOpts,
		runner.WithInputHandler(panel),
		runner.WithClipboard(opts.Stdout),
	)
	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.NewRunner(session, runnerOpts...).Run(runCtx)
		panel.Close()
	}()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithInput(opts.Stdin),
		tea.WithOutput(opts.Stdout),
	)
	_, progErr := program.Run()
	panel.Close()
	cancel()
	err := <-runErr

	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return fmt.Errorf("panel error: %w", progErr)
	}
	return handleExecutionError(err)
}

func codeRenderer(out io.Writer) presentation.CodeRenderer {
	if !fileIsTerminal(out) {
		return presentation.PlainRenderer()
	}
	return presentation.NewRenderer(terminalWidth(out))
}
