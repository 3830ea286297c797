package relay_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/aicode/internal/testutils"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
	"github.com/aretw0/aicode/pkg/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyWith(content domain.RenderedContent, err error) ports.ExchangerFunc {
	return func(context.Context, domain.OutboundPayload, domain.BackendConfig) (domain.RenderedContent, error) {
		return content, err
	}
}

func echo() ports.ExchangerFunc {
	return func(_ context.Context, p domain.OutboundPayload, _ domain.BackendConfig) (domain.RenderedContent, error) {
		return domain.NewText("echo: " + p.Message), nil
	}
}

func TestSubmitTurn_IDsAreUniqueAndIncreasing(t *testing.T) {
	r := relay.New(echo(), testutils.NewRecorder())

	var (
		mu  sync.Mutex
		ids []domain.TurnID
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, ok := r.SubmitTurn(fmt.Sprintf("msg %d", i))
			assert.True(t, ok)
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	r.Wait()

	seen := make(map[domain.TurnID]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.GreaterOrEqual(t, uint64(id), uint64(1))
		assert.LessOrEqual(t, uint64(id), uint64(50))
		seen[id] = true
	}
	assert.Len(t, seen, 50)

	turns := r.Turns()
	require.Len(t, turns, 50)
	for i := 1; i < len(turns); i++ {
		assert.Greater(t, turns[i].ID, turns[i-1].ID)
	}
}

func TestSubmitTurn_SequentialIDsStartAtOne(t *testing.T) {
	r := relay.New(echo(), testutils.NewRecorder())
	first, ok := r.SubmitTurn("a")
	require.True(t, ok)
	second, ok := r.SubmitTurn("b")
	require.True(t, ok)
	r.Wait()

	assert.Equal(t, domain.TurnID(1), first)
	assert.Equal(t, domain.TurnID(2), second)
}

func TestSubmitTurn_EmptyInputIsIgnored(t *testing.T) {
	rec := testutils.NewRecorder()
	called := false
	r := relay.New(ports.ExchangerFunc(func(context.Context, domain.OutboundPayload, domain.BackendConfig) (domain.RenderedContent, error) {
		called = true
		return domain.NewText("x"), nil
	}), rec)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, ok := r.SubmitTurn(text)
		assert.False(t, ok)
	}
	r.Wait()

	assert.Empty(t, rec.Events())
	assert.Empty(t, r.Turns())
	assert.False(t, called)

	_, err := r.Submit(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrEmptySubmission)

	id, ok := r.SubmitTurn("real")
	require.True(t, ok)
	assert.Equal(t, domain.TurnID(1), id, "rejected input must not consume an id")
	r.Wait()
}

func TestSubmitTurn_EventOrder(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(echo(), rec)

	id, ok := r.SubmitTurn("hi")
	require.True(t, ok)
	r.Wait()

	assert.Equal(t, []string{
		"user:" + id.String(),
		"placeholder:" + id.String(),
		"resolved:" + id.String(),
	}, rec.Events())
	assert.Equal(t, "hi", rec.UserText(id))
}

func TestSubmitTurn_TextRoundTrip(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(replyWith(domain.NewText("hello"), nil), rec)

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	content, ok := rec.Resolved(id)
	require.True(t, ok)
	assert.Equal(t, domain.NewText("hello"), content)

	turn, ok := r.Turn(id)
	require.True(t, ok)
	assert.Equal(t, domain.StatusResolved, turn.Status)
	assert.NoError(t, turn.Err)
	assert.False(t, turn.SettledAt.IsZero())
}

func TestSubmitTurn_CodeRoundTrip(t *testing.T) {
	code, err := domain.NewCodeSuggestion("x", "print(1)", "python")
	require.NoError(t, err)
	rec := testutils.NewRecorder()
	r := relay.New(replyWith(code, nil), rec)

	id, _ := r.SubmitTurn("code please")
	r.Wait()

	content, ok := rec.Resolved(id)
	require.True(t, ok)
	require.NotNil(t, content.Code)
	assert.Equal(t, "print(1)", content.Code.Code)
	assert.Equal(t, "python", content.Code.Language)
	assert.Equal(t, "x", content.Code.Body)
}

func TestSubmitTurn_UnrecognizedResponse(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(replyWith(domain.RenderedContent{}, fmt.Errorf("%w: response_type %q", domain.ErrUnrecognizedResponse, "image")), rec.Notifying())

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	content, ok := rec.Resolved(id)
	require.True(t, ok)
	assert.Equal(t, "Received an unknown response type from AIcode backend.", content.Text.Body)

	turn, _ := r.Turn(id)
	assert.Equal(t, domain.StatusFailed, turn.Status)
	assert.ErrorIs(t, turn.Err, domain.ErrUnrecognizedResponse)
	assert.Empty(t, rec.Errors(), "unrecognized replies are not announced")
}

func TestSubmitTurn_InvalidContentFailsClosed(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(replyWith(domain.RenderedContent{Kind: "image"}, nil), rec)

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	turn, _ := r.Turn(id)
	assert.Equal(t, domain.StatusFailed, turn.Status)
	assert.ErrorIs(t, turn.Err, domain.ErrUnrecognizedResponse)
}

func TestSubmitTurn_ConnectionRefused(t *testing.T) {
	cfg := domain.DefaultBackendConfig()
	rec := testutils.NewRecorder()
	refused := &domain.ConnectionError{Kind: domain.ConnRefused, Addr: cfg.Addr()}
	r := relay.New(replyWith(domain.RenderedContent{}, refused), rec.Notifying(), relay.WithConfigSource(ports.StaticConfig(cfg)))

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	content, _ := rec.Resolved(id)
	assert.Contains(t, content.Text.Body, "8000")
	assert.Contains(t, content.Text.Body, "refused")
	require.Len(t, rec.Errors(), 1)
	assert.Equal(t, content.Text.Body, rec.Errors()[0])

	turn, _ := r.Turn(id)
	assert.Equal(t, domain.StatusFailed, turn.Status)
}

func TestSubmitTurn_HTTPErrorBodyVerbatim(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(replyWith(domain.RenderedContent{}, &domain.HTTPError{Status: 500, Body: "boom"}), rec)

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	content, _ := rec.Resolved(id)
	assert.Contains(t, content.Text.Body, "500")
	assert.Contains(t, content.Text.Body, "boom")
}

func TestSubmitTurn_FailureDoesNotBlockLaterTurns(t *testing.T) {
	rec := testutils.NewRecorder()
	calls := 0
	var mu sync.Mutex
	r := relay.New(ports.ExchangerFunc(func(context.Context, domain.OutboundPayload, domain.BackendConfig) (domain.RenderedContent, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return domain.RenderedContent{}, &domain.HTTPError{Status: 503, Body: "down"}
		}
		return domain.NewText("up"), nil
	}), rec)

	first, _ := r.SubmitTurn("a")
	r.Wait()
	second, _ := r.SubmitTurn("b")
	r.Wait()

	t1, _ := r.Turn(first)
	t2, _ := r.Turn(second)
	assert.Equal(t, domain.StatusFailed, t1.Status)
	assert.Equal(t, domain.StatusResolved, t2.Status)
}

func TestSubmitTurn_OutOfOrderResolution(t *testing.T) {
	rec := testutils.NewRecorder()
	releaseFirst := make(chan struct{})
	r := relay.New(ports.ExchangerFunc(func(_ context.Context, p domain.OutboundPayload, _ domain.BackendConfig) (domain.RenderedContent, error) {
		if p.Message == "slow" {
			<-releaseFirst
		}
		return domain.NewText("re: " + p.Message), nil
	}), rec)

	slow, _ := r.SubmitTurn("slow")
	fast, _ := r.SubmitTurn("fast")

	_, err := r.Await(context.Background(), fast)
	require.NoError(t, err)
	_, resolved := rec.Resolved(slow)
	assert.False(t, resolved)
	assert.Equal(t, 1, r.Pending())

	close(releaseFirst)
	r.Wait()

	slowContent, _ := rec.Resolved(slow)
	fastContent, _ := rec.Resolved(fast)
	assert.Equal(t, "re: slow", slowContent.Text.Body)
	assert.Equal(t, "re: fast", fastContent.Text.Body)

	events := rec.Events()
	assert.Equal(t, "resolved:"+fast.String(), events[4])
	assert.Equal(t, "resolved:"+slow.String(), events[5])
}

func TestSubmitTurn_PanicBecomesFailedTurn(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(ports.ExchangerFunc(func(context.Context, domain.OutboundPayload, domain.BackendConfig) (domain.RenderedContent, error) {
		panic("kaboom")
	}), rec)

	id, _ := r.SubmitTurn("hi")
	r.Wait()

	turn, _ := r.Turn(id)
	assert.Equal(t, domain.StatusFailed, turn.Status)
	assert.ErrorContains(t, turn.Err, "kaboom")
}

func TestSubmitTurn_ConfigReadPerExchange(t *testing.T) {
	src := &mutableConfig{cfg: domain.DefaultBackendConfig()}
	var (
		mu   sync.Mutex
		seen []int
	)
	r := relay.New(ports.ExchangerFunc(func(_ context.Context, _ domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error) {
		mu.Lock()
		seen = append(seen, cfg.Port)
		mu.Unlock()
		return domain.NewText("ok"), nil
	}), testutils.NewRecorder(), relay.WithConfigSource(src))

	r.SubmitTurn("a")
	r.Wait()
	src.set(9000)
	r.SubmitTurn("b")
	r.Wait()

	assert.Equal(t, []int{8000, 9000}, seen)
}

func TestSubmitTurn_PayloadCarriesContextAndHistory(t *testing.T) {
	var (
		mu       sync.Mutex
		payloads []domain.OutboundPayload
	)
	ex := ports.ExchangerFunc(func(_ context.Context, p domain.OutboundPayload, _ domain.BackendConfig) (domain.RenderedContent, error) {
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		return domain.NewText("a:" + p.Message), nil
	})
	provider := ports.ContextProviderFunc(func(context.Context) domain.EditorContext {
		return domain.EditorContext{FilePath: "/src/main.go", FileContent: "package main"}
	})
	r := relay.New(ex, testutils.NewRecorder(), relay.WithContextProvider(provider), relay.WithHistoryLimit(1))

	for _, msg := range []string{"one", "two", "three"} {
		r.SubmitTurn(msg)
		r.Wait()
	}

	require.Len(t, payloads, 3)
	assert.Empty(t, payloads[0].History)
	assert.Equal(t, "/src/main.go", payloads[0].Context.FilePath)
	assert.Equal(t, []domain.HistoryEntry{
		{Role: domain.RoleUser, Content: "two"},
		{Role: domain.RoleAssistant, Content: "a:two"},
	}, payloads[2].History)
}

func TestSubmitTurn_DefaultHistoryIsEmpty(t *testing.T) {
	var last domain.OutboundPayload
	r := relay.New(ports.ExchangerFunc(func(_ context.Context, p domain.OutboundPayload, _ domain.BackendConfig) (domain.RenderedContent, error) {
		last = p
		return domain.NewText("ok"), nil
	}), testutils.NewRecorder())

	r.SubmitTurn("a")
	r.Wait()
	r.SubmitTurn("b")
	r.Wait()

	assert.Empty(t, last.History)
}

func TestHooks(t *testing.T) {
	var (
		mu     sync.Mutex
		events []domain.TurnEvent
	)
	record := func(_ context.Context, e *domain.TurnEvent) {
		mu.Lock()
		events = append(events, *e)
		mu.Unlock()
	}
	r := relay.New(echo(), testutils.NewRecorder(),
		relay.WithSessionID("s-1"),
		relay.WithHooks(domain.LifecycleHooks{OnTurnSubmitted: record, OnTurnSettled: record}),
	)

	r.SubmitTurn("hi")
	r.Wait()

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTurnSubmitted, events[0].Type)
	assert.Equal(t, domain.EventTurnSettled, events[1].Type)
	assert.Equal(t, domain.StatusResolved, events[1].Status)
	assert.Equal(t, domain.KindText, events[1].Kind)
	assert.Equal(t, "none", events[1].ErrorKind)
	assert.Equal(t, "s-1", events[1].SessionID)
}

func TestAwait(t *testing.T) {
	r := relay.New(echo(), testutils.NewRecorder())

	_, err := r.Await(context.Background(), 42)
	assert.ErrorIs(t, err, relay.ErrUnknownTurn)

	block := make(chan struct{})
	r2 := relay.New(ports.ExchangerFunc(func(context.Context, domain.OutboundPayload, domain.BackendConfig) (domain.RenderedContent, error) {
		<-block
		return domain.NewText("late"), nil
	}), testutils.NewRecorder())
	id, _ := r2.SubmitTurn("hi")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = r2.Await(ctx, id)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	turn, err := r2.Await(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "late", turn.Result.Text.Body)
}

func TestClose(t *testing.T) {
	rec := testutils.NewRecorder()
	r := relay.New(echo(), rec)
	id, _ := r.SubmitTurn("hi")
	require.NoError(t, r.Close())

	turn, _ := r.Turn(id)
	assert.True(t, turn.Status.Terminal(), "close waits for in-flight turns")

	_, ok := r.SubmitTurn("after")
	assert.False(t, ok)
	_, err := r.Submit(context.Background(), "after")
	assert.ErrorIs(t, err, domain.ErrRelayClosed)
	assert.Len(t, rec.Events(), 3)
}

type mutableConfig struct {
	mu  sync.Mutex
	cfg domain.BackendConfig
}

func (m *mutableConfig) Backend() domain.BackendConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *mutableConfig) set(port int) {
	m.mu.Lock()
	m.cfg.Port = port
	m.mu.Unlock()
}
