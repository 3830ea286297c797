package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/internal/presentation/tui"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TurnsURI is the resource listing the session's turns.
const TurnsURI = "aicode://turns"

// Session is the part of the relay the MCP server drives.
type Session interface {
	Submit(ctx context.Context, text string) (domain.TurnID, error)
	Await(ctx context.Context, id domain.TurnID) (domain.Turn, error)
	Turns() []domain.Turn
}

// TurnView is the JSON shape of a turn returned by list_turns.
type TurnView struct {
	ID          string        `json:"id"`
	Message     string        `json:"message"`
	Status      string        `json:"status"`
	Reply       string        `json:"reply,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	Language    string        `json:"language,omitempty"`
	Error       string        `json:"error,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Duration    time.Duration `json:"duration_ns,omitempty"`
}

// Server exposes a chat session as MCP tools.
type Server struct {
	session   Session
	logger    *slog.Logger
	timeout   time.Duration
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. MCP over stdio owns Stdout, so it must not
// write there.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReplyTimeout bounds how long the chat tool waits for a reply.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates a new MCP Server instance.
func NewServer(session Session, version string, opts ...Option) *Server {
	s := &Server{
		session:   session,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("aicode-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("chat",
		mcp.WithDescription("Send a message to the AIcode assistant and wait for its reply."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message for the assistant")),
	), s.handleChat)

	s.mcpServer.AddTool(mcp.NewTool("list_turns",
		mcp.WithDescription("List the turns of this session as JSON."),
	), s.handleListTurns)

	s.mcpServer.AddTool(mcp.NewTool("get_code",
		mcp.WithDescription("Return the code of a turn's code suggestion. Defaults to the latest one."),
		mcp.WithString("id", mcp.Description("Turn number or placeholder id, e.g. 3 or response-3")),
	), s.handleGetCode)
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clean, err := runner.SanitizeInput(message)
	if err != nil {
		s.logger.Warn("MCP chat: input rejected", "err", err, "size", len(message))
		return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}

	id, err := s.session.Submit(ctx, clean)
	if errors.Is(err, domain.ErrEmptySubmission) {
		return mcp.NewToolResultError("message is empty"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("submit failed: %w", err)
	}

	waitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	turn, err := s.session.Await(waitCtx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: no reply: %v", id, err)), nil
	}

	reply := Render(turn)
	if turn.Status == domain.StatusFailed {
		return mcp.NewToolResultError(reply), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleListTurns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.turnsJSON()
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetCode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var want domain.TurnID
	if raw := request.GetString("id", ""); raw != "" {
		id, ok := runner.ParseTurnID(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid turn id %q", raw)), nil
		}
		want = id
	}

	turns := s.session.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		if want != 0 && t.ID != want {
			continue
		}
		if t.Result != nil && t.Result.Code != nil {
			return mcp.NewToolResultText(t.Result.Code.Code), nil
		}
		if want != 0 {
			break
		}
	}
	if want != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%s has no code suggestion", want)), nil
	}
	return mcp.NewToolResultError("no code suggestion yet"), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TurnsURI, "Session turns",
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.turnsJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TurnsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) turnsJSON() ([]byte, error) {
	turns := s.session.Turns()
	views := make([]TurnView, 0, len(turns))
	for _, t := range turns {
		views = append(views, View(t))
	}
	data, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("failed to encode turns: %w", err)
	}
	return data, nil
}

// View converts a turn to its JSON shape.
func View(t domain.Turn) TurnView {
	v := TurnView{
		ID:          t.ID.String(),
		Message:     t.UserText,
		Status:      string(t.Status),
		SubmittedAt: t.SubmittedAt,
		Duration:    t.Duration(),
	}
	if t.Result != nil {
		v.Kind = string(t.Result.Kind)
		v.Reply = Render(t)
		if t.Result.Code != nil {
			v.Language = t.Result.Code.Language
		}
	}
	if t.Err != nil {
		v.Error = t.Err.Error()
	}
	return v
}

// Render returns the reply of a settled turn as markdown text.
func Render(t domain.Turn) string {
	if t.Result == nil {
		return ""
	}
	var out string
	_ = t.Result.Match(
		func(c domain.TextContent) error {
			out = c.Body
			return nil
		},
		func(c domain.CodeSuggestion) error {
			out = tui.FenceCode(c)
			return nil
		},
	)
	return out
}
