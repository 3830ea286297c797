package cli

import (
	"time"

	"github.com/aretw0/aicode"
	"github.com/aretw0/aicode/pkg/adapters/mcp"
	"github.com/aretw0/aicode/pkg/adapters/text"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Chat         ChatOptions
	ReplyTimeout time.Duration
}

// RunMCP serves the chat session over MCP on Stdin/Stdout. The transcript
// and logs go to Stderr.
func RunMCP(opts MCPOptions) error {
	chat := opts.Chat
	chat.setDefaults()
	stderr := chat.Stderr

	logger := createLogger(stderr, chat.Debug, "info", chat.Quiet)
	store, err := openStore(chat, logger)
	if err != nil {
		return err
	}

	editor, err := newEditorState(chat)
	if err != nil {
		return err
	}

	surface := text.New(stderr)
	session := createSession(surface, store, editor, nil, logger)
	defer session.Close()

	srv := mcp.NewServer(session, aicode.Version,
		mcp.WithLogger(logger),
		mcp.WithReplyTimeout(opts.ReplyTimeout),
	)
	logger.Info("MCP server listening on stdio", "backend", store.Backend().Addr())
	return srv.ServeStdio()
}
