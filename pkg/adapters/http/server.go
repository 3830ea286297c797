package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/aicode/api"
	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/observability"
	"github.com/aretw0/aicode/pkg/protocol"
	"github.com/go-chi/chi/v5"
)

// RootMessage is the liveness reply of GET /.
const RootMessage = "AIcode Backend is running!"

// Server answers chat requests through a Responder.
type Server struct {
	responder Responder
	logger    *slog.Logger
	metrics   *observability.Metrics
	spec      []byte
}

// Option configures a Server.
type Option func(*Server)

// WithResponder replaces the Echo responder.
func WithResponder(r Responder) Option {
	return func(s *Server) {
		if r != nil {
			s.responder = r
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts replies and serves GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSpec replaces the embedded OpenAPI document.
func WithSpec(data []byte) Option {
	return func(s *Server) { s.spec = data }
}

// NewHandler builds the backend router.
func NewHandler(opts ...Option) (http.Handler, error) {
	s := &Server{
		responder: Echo,
		logger:    logging.NewNop(),
		spec:      api.OpenAPI,
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := LoadSpec(s.spec)
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(s.spec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Group(func(r chi.Router) {
		r.Use(validator.Middleware)
		r.Get("/", s.Root)
		r.Post("/chat", s.Chat)
	})
	return r, nil
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.OutboundPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationError{Detail: err.Error()})
		s.logger.Warn("Chat: invalid request body", "err", err)
		return
	}
	s.logger.Debug("Chat: received message",
		"message", req.Message,
		"file_path", req.Context.FilePath,
		"history", len(req.History))

	content, err := s.responder.Respond(r.Context(), req)
	if err != nil {
		var httpErr *domain.HTTPError
		if errors.As(err, &httpErr) {
			s.reply(w, httpErr.Status, "error", []byte(httpErr.Body), "text/plain; charset=utf-8")
			return
		}
		s.logger.Error("Chat: responder failed", "err", err)
		s.reply(w, http.StatusInternalServerError, "error", []byte(err.Error()), "text/plain; charset=utf-8")
		return
	}

	body, err := protocol.Encode(content)
	if err != nil {
		s.logger.Error("Chat: reply encode failed", "err", err)
		s.reply(w, http.StatusInternalServerError, "error", []byte(err.Error()), "text/plain; charset=utf-8")
		return
	}
	s.reply(w, http.StatusOK, string(content.Kind), body, "application/json")
}

func (s *Server) reply(w http.ResponseWriter, status int, responseType string, body []byte, contentType string) {
	if s.metrics != nil {
		s.metrics.BackendRequests.WithLabelValues(responseType).Inc()
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("Chat: reply write failed", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, User-Agent")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
