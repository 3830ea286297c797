package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/aicode/internal/testutils"
	"github.com/aretw0/aicode/pkg/backend"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// refusingTransport fails every round trip the way a closed local port does.
type refusingTransport struct {
	calls atomic.Int32
}

func (rt *refusingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	rt.calls.Add(1)
	return nil, &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
}

func TestExchange_Text(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `{"response_type":"text","content":{"text":"hello"}}`))
	defer srv.Close()

	content, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, testutils.BackendConfigFor(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, domain.NewText("hello"), content)
}

func TestExchange_CodeSuggestion(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `{"response_type":"code_suggestion","content":{"text":"x","code":"print(1)","language":"python"}}`))
	defer srv.Close()

	content, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "code"}, testutils.BackendConfigFor(t, srv.URL))
	require.NoError(t, err)
	require.NotNil(t, content.Code)
	assert.Equal(t, "print(1)", content.Code.Code)
	assert.Equal(t, "python", content.Code.Language)
	assert.Equal(t, "x", content.Code.Body)
}

func TestExchange_SendsPayloadAndHeaders(t *testing.T) {
	var (
		gotBody    map[string]any
		gotHeaders http.Header
		gotPath    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		reply(http.StatusOK, `{"response_type":"text","content":{"text":"ok"}}`)(w, r)
	}))
	defer srv.Close()

	payload := domain.OutboundPayload{Message: "hi", Context: domain.EditorContext{FilePath: "/a.go"}}
	_, err := backend.New(backend.WithUserAgent("aicode/test")).Exchange(context.Background(), payload, testutils.BackendConfigFor(t, srv.URL))
	require.NoError(t, err)

	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "aicode/test", gotHeaders.Get("User-Agent"))
	assert.Equal(t, "hi", gotBody["message"])
	assert.Equal(t, []any{}, gotBody["history"])
	assert.Equal(t, map[string]any{"filePath": "/a.go"}, gotBody["context"])
}

func TestExchange_HTTPErrorKeepsBodyVerbatim(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer srv.Close()

	cfg := testutils.BackendConfigFor(t, srv.URL)
	cfg.Retries = 3
	_, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, cfg)

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Status)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Contains(t, domain.UserMessage(err, cfg), "500")
	assert.Contains(t, domain.UserMessage(err, cfg), "boom")
	assert.Equal(t, int32(1), calls.Load(), "HTTP errors must not be retried")
}

func TestExchange_UnknownResponseType(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `{"response_type":"image","content":{}}`))
	defer srv.Close()

	_, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, testutils.BackendConfigFor(t, srv.URL))
	assert.ErrorIs(t, err, domain.ErrUnrecognizedResponse)
}

func TestExchange_MalformedBodyIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `{"response_type":`))
	defer srv.Close()

	_, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, testutils.BackendConfigFor(t, srv.URL))
	var connErr *domain.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.ConnOther, connErr.Kind)
}

func TestExchange_ConnectionRefused(t *testing.T) {
	rt := &refusingTransport{}
	client := backend.New(backend.WithHTTPClient(&http.Client{Transport: rt}))
	cfg := domain.DefaultBackendConfig()

	_, err := client.Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, cfg)

	var connErr *domain.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.ConnRefused, connErr.Kind)
	assert.Contains(t, domain.UserMessage(err, cfg), "8000")
	assert.Equal(t, int32(1), rt.calls.Load())
}

func TestExchange_RetriesTransportFailures(t *testing.T) {
	rt := &refusingTransport{}
	client := backend.New(backend.WithHTTPClient(&http.Client{Transport: rt}))
	cfg := domain.DefaultBackendConfig()
	cfg.Retries = 2
	cfg.RetryBackoff = time.Millisecond

	_, err := client.Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, cfg)

	var connErr *domain.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.ConnRefused, connErr.Kind)
	assert.Equal(t, int32(3), rt.calls.Load())
}

func TestExchange_RetryRecovers(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `{"response_type":"text","content":{"text":"late"}}`))
	defer srv.Close()

	var calls atomic.Int32
	flaky := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return nil, &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
		}
		return http.DefaultTransport.RoundTrip(r)
	})
	cfg := testutils.BackendConfigFor(t, srv.URL)
	cfg.Retries = 1

	content, err := backend.New(backend.WithHTTPClient(&http.Client{Transport: flaky})).
		Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "late", content.Text.Body)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExchange_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testutils.BackendConfigFor(t, srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := backend.New().Exchange(context.Background(), domain.OutboundPayload{Message: "hi"}, cfg)
	var connErr *domain.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.ConnOther, connErr.Kind)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
