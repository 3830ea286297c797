package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/protocol"
	"github.com/sethvargo/go-retry"
)

// maxBodySize caps how much of a reply body is read.
const maxBodySize = 4 << 20

// Client performs exchanges with the assistant backend.
// It is safe for concurrent use and holds no per-turn state.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for exchange diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent on each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     logging.NewNop(),
		userAgent:  "aicode",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange sends payload to cfg.ChatURL() and returns the rendered reply.
func (c *Client) Exchange(ctx context.Context, payload domain.OutboundPayload, cfg domain.BackendConfig) (domain.RenderedContent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.RenderedContent{}, fmt.Errorf("encoding payload: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	backoff := retry.WithMaxRetries(uint64(max(cfg.Retries, 0)), retry.NewExponential(backoffBase(cfg)))

	var (
		content domain.RenderedContent
		lastErr error
		attempt int
	)
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var err error
		content, err = c.post(ctx, body, cfg)
		lastErr = err
		if err == nil {
			return nil
		}
		c.logger.Debug("exchange attempt failed", "url", cfg.ChatURL(), "attempt", attempt, "err_kind", domain.ErrorKind(err), "err", err)
		var connErr *domain.ConnectionError
		if errors.As(err, &connErr) && isTransport(connErr) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		// retry.Do reports the context error when it is cancelled between attempts.
		if lastErr != nil && !isClassified(err) {
			err = lastErr
		}
		if !isClassified(err) {
			err = &domain.ConnectionError{Kind: domain.ConnOther, Addr: cfg.Addr(), Err: err}
		}
		return domain.RenderedContent{}, err
	}
	return content, nil
}

func (c *Client) post(ctx context.Context, body []byte, cfg domain.BackendConfig) (domain.RenderedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.ChatURL(), bytes.NewReader(body))
	if err != nil {
		return domain.RenderedContent{}, &domain.ConnectionError{Kind: domain.ConnOther, Addr: cfg.Addr(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RenderedContent{}, classifyTransport(err, cfg.Addr())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.RenderedContent{}, classifyTransport(err, cfg.Addr())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RenderedContent{}, &domain.HTTPError{Status: resp.StatusCode, Body: string(raw)}
	}

	content, err := protocol.Decode(raw)
	if err != nil {
		var syntaxErr *protocol.SyntaxError
		if errors.As(err, &syntaxErr) {
			return domain.RenderedContent{}, &domain.ConnectionError{Kind: domain.ConnOther, Addr: cfg.Addr(), Err: err}
		}
		return domain.RenderedContent{}, err
	}
	return content, nil
}

func backoffBase(cfg domain.BackendConfig) time.Duration {
	if cfg.RetryBackoff > 0 {
		return cfg.RetryBackoff
	}
	return domain.DefaultBackendConfig().RetryBackoff
}

func isClassified(err error) bool {
	return domain.ErrorKind(err) != "internal"
}
