package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTurnSubmitted(ctx, &domain.TurnEvent{TurnID: 1})
	hooks.OnTurnSubmitted(ctx, &domain.TurnEvent{TurnID: 2})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TurnsSubmitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TurnsInFlight))

	hooks.OnTurnSettled(ctx, &domain.TurnEvent{TurnID: 1, Status: domain.StatusResolved, Kind: domain.KindText, Duration: 10 * time.Millisecond})
	hooks.OnTurnSettled(ctx, &domain.TurnEvent{TurnID: 2, Status: domain.StatusFailed, Kind: domain.KindText, ErrorKind: "connection_refused"})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.TurnsInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TurnsSettled.WithLabelValues("resolved", "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TurnsSettled.WithLabelValues("failed", "connection_refused")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ExchangeDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.TurnsSubmitted.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "aicode_turns_submitted_total 1")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)

	hooks.OnTurnSubmitted(context.Background(), &domain.TurnEvent{SessionID: "s", TurnID: 3})
	hooks.OnTurnSettled(context.Background(), &domain.TurnEvent{SessionID: "s", TurnID: 3, Status: domain.StatusFailed, ErrorKind: "http"})

	out := buf.String()
	assert.Contains(t, out, "turn_submitted")
	assert.Contains(t, out, "turn=response-3")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "error_kind=http")
}
