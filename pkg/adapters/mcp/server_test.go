package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/aicode/internal/testutils"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/aretw0/aicode/pkg/relay"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(ctx context.Context, p domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error) {
	switch p.Message {
	case "code":
		return domain.NewCodeSuggestion("Here:", "print(1)", "python")
	case "fail":
		return domain.RenderedContent{}, &domain.HTTPError{Status: 500, Body: "boom"}
	case "slow":
		time.Sleep(200 * time.Millisecond)
	}
	return domain.NewText("echo " + p.Message), nil
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *relay.Relay) {
	t.Helper()
	r := relay.New(ports.ExchangerFunc(scripted), testutils.NewRecorder())
	t.Cleanup(func() { _ = r.Close() })
	return NewServer(r, "0.0.0-test", opts...), r
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestChat_Text(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleChat(context.Background(), call(map[string]any{"message": "hello"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "echo hello", text(t, res))
}

func TestChat_CodeIsFenced(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleChat(context.Background(), call(map[string]any{"message": "code"}))
	require.NoError(t, err)
	assert.Equal(t, "Here:\n\n```python\nprint(1)\n```", text(t, res))
}

func TestChat_FailureIsToolError(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleChat(context.Background(), call(map[string]any{"message": "fail"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: AIcode backend returned HTTP 500: boom", text(t, res))
}

func TestChat_InvalidArguments(t *testing.T) {
	s, r := newTestServer(t)

	res, err := s.handleChat(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleChat(context.Background(), call(map[string]any{"message": "   "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, r.Turns(), "blank messages create no turn")
}

func TestChat_ReplyTimeout(t *testing.T) {
	s, r := newTestServer(t, WithReplyTimeout(10*time.Millisecond))

	res, err := s.handleChat(context.Background(), call(map[string]any{"message": "slow"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "response-1")

	r.Wait()
	turn, ok := r.Turn(1)
	require.True(t, ok)
	assert.Equal(t, domain.StatusResolved, turn.Status, "the exchange still completes")
}

func TestListTurns(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleChat(ctx, call(map[string]any{"message": "hi"}))
	require.NoError(t, err)
	_, err = s.handleChat(ctx, call(map[string]any{"message": "fail"}))
	require.NoError(t, err)

	res, err := s.handleListTurns(ctx, call(nil))
	require.NoError(t, err)

	var views []TurnView
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "response-1", views[0].ID)
	assert.Equal(t, "resolved", views[0].Status)
	assert.Equal(t, "echo hi", views[0].Reply)
	assert.Equal(t, "failed", views[1].Status)
	assert.NotEmpty(t, views[1].Error)
}

func TestGetCode(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGetCode(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, _ = s.handleChat(ctx, call(map[string]any{"message": "code"}))
	_, _ = s.handleChat(ctx, call(map[string]any{"message": "hi"}))

	res, err = s.handleGetCode(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "print(1)", text(t, res))

	res, err = s.handleGetCode(ctx, call(map[string]any{"id": "response-1"}))
	require.NoError(t, err)
	assert.Equal(t, "print(1)", text(t, res))

	res, err = s.handleGetCode(ctx, call(map[string]any{"id": "2"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleGetCode(ctx, call(map[string]any{"id": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRender_Pending(t *testing.T) {
	assert.Empty(t, Render(domain.Turn{ID: 1, Status: domain.StatusPending}))
}
