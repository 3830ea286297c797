package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeSuggestion_RequiresCode(t *testing.T) {
	_, err := domain.NewCodeSuggestion("body", "", "go")
	assert.ErrorIs(t, err, domain.ErrEmptyCode)
}

func TestRenderedContent_Match(t *testing.T) {
	code, err := domain.NewCodeSuggestion("", "x := 1", "go")
	require.NoError(t, err)

	var seen []string
	onText := func(tc domain.TextContent) error { seen = append(seen, "text:"+tc.Body); return nil }
	onCode := func(cs domain.CodeSuggestion) error { seen = append(seen, "code:"+cs.Code); return nil }

	require.NoError(t, domain.NewText("hi").Match(onText, onCode))
	require.NoError(t, code.Match(onText, onCode))
	assert.Equal(t, []string{"text:hi", "code:x := 1"}, seen)
}

func TestRenderedContent_MatchRejectsInvalid(t *testing.T) {
	called := false
	mark := func() error { called = true; return nil }

	invalid := []domain.RenderedContent{
		{Kind: "image"},
		{Kind: domain.KindText},
		{Kind: domain.KindText, Text: &domain.TextContent{}, Code: &domain.CodeSuggestion{Code: "x"}},
		{Kind: domain.KindCodeSuggestion, Code: &domain.CodeSuggestion{}},
	}
	for _, c := range invalid {
		err := c.Match(func(domain.TextContent) error { return mark() }, func(domain.CodeSuggestion) error { return mark() })
		assert.Error(t, err)
	}
	assert.False(t, called)
}

func TestRenderedContent_CloneIsDeep(t *testing.T) {
	orig, err := domain.NewCodeSuggestion("b", "c", "l")
	require.NoError(t, err)
	cp := orig.Clone()
	cp.Code.Code = "changed"
	assert.Equal(t, "c", orig.Code.Code)
}

func TestRenderedContent_Summary(t *testing.T) {
	code, _ := domain.NewCodeSuggestion("explained", "ls", "sh")
	assert.Equal(t, "explained\nls", code.Summary())
	assert.Equal(t, "plain", domain.NewText("plain").Summary())
}

func TestOutboundPayload_HistoryIsNeverNull(t *testing.T) {
	body, err := domain.OutboundPayload{Message: "hi"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hi","context":{},"history":[]}`, string(body))
}

func TestOutboundPayload_ContextFields(t *testing.T) {
	body, err := domain.OutboundPayload{
		Message: "m",
		Context: domain.EditorContext{FileContent: "abc", FilePath: "/tmp/a.go"},
		History: []domain.HistoryEntry{{Role: domain.RoleUser, Content: "q"}},
	}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"m","context":{"fileContent":"abc","filePath":"/tmp/a.go"},"history":[{"role":"user","content":"q"}]}`, string(body))
}

func TestTurnID_String(t *testing.T) {
	assert.Equal(t, "response-7", domain.TurnID(7).String())
}

func TestTurn_SnapshotIsIndependent(t *testing.T) {
	turn := domain.NewTurn(1, "hi")
	res := domain.NewText("a")
	turn.Result = &res
	snap := turn.Snapshot()
	snap.Result.Text.Body = "b"
	assert.Equal(t, "a", turn.Result.Text.Body)
	assert.Equal(t, domain.StatusPending, snap.Status)
	assert.False(t, snap.Status.Terminal())
	assert.Zero(t, snap.Duration())
}

func TestUserMessage(t *testing.T) {
	cfg := domain.DefaultBackendConfig()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http", &domain.HTTPError{Status: 500, Body: "boom"}, "Error: AIcode backend returned HTTP 500: boom"},
		{"refused", &domain.ConnectionError{Kind: domain.ConnRefused, Addr: cfg.Addr()}, "Error: Connection to AIcode backend refused. Please ensure the backend server is running at http://127.0.0.1:8000."},
		{"other", &domain.ConnectionError{Kind: domain.ConnOther, Addr: cfg.Addr(), Err: errors.New("no such host")}, "Error: Could not connect to AIcode backend. Is the server running? (no such host)"},
		{"unrecognized", domain.ErrUnrecognizedResponse, "Received an unknown response type from AIcode backend."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.UserMessage(tt.err, cfg))
		})
	}
}

func TestErrorKindAndHardFailure(t *testing.T) {
	assert.Equal(t, "none", domain.ErrorKind(nil))
	assert.Equal(t, "http", domain.ErrorKind(&domain.HTTPError{Status: 404}))
	assert.Equal(t, "connection_refused", domain.ErrorKind(&domain.ConnectionError{Kind: domain.ConnRefused}))
	assert.Equal(t, "unrecognized", domain.ErrorKind(domain.ErrUnrecognizedResponse))
	assert.Equal(t, "internal", domain.ErrorKind(errors.New("x")))

	assert.True(t, domain.IsHardFailure(&domain.HTTPError{Status: 500}))
	assert.True(t, domain.IsHardFailure(&domain.ConnectionError{Kind: domain.ConnOther}))
	assert.False(t, domain.IsHardFailure(domain.ErrUnrecognizedResponse))
}

func TestBackendConfig_URLs(t *testing.T) {
	cfg := domain.BackendConfig{Host: "localhost", Port: 9000}
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL())
	assert.Equal(t, "http://localhost:9000/chat", cfg.ChatURL())
}
