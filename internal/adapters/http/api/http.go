// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/perfsum/internal/domain/model"
	"github.com/okian/perfsum/pkg/logger"
)

// DefaultMaxUploadBytes bounds POST /upload-csv bodies unless overridden.
const DefaultMaxUploadBytes int64 = 10 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Process turns one uploaded CSV into summaries, or fails as a whole.
	Process(ctx context.Context, filename string, data []byte) ([]model.SummaryRecord, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	uploadHandler  *UploadHandler
	maxUploadBytes int64
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxUploadBytes caps the upload request body.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rootHandler = NewRootHandler()
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.uploadHandler = NewUploadHandler(deps, s.maxUploadBytes, s.logger)
	return s
}

// Router builds the chi router with middleware and every API route.
// Each path except / answers with and without a trailing slash.
func (s *Server) Router(ctx context.Context) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", NewKind(r.URL.Path, ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(r.Method+" "+r.URL.Path, ErrMethod))
	})

	r.Get("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	handleBoth(r, http.MethodGet, "/test-connection", MetricsMiddleware(s.rootHandler.HandleTestConnection, "test_connection"))
	handleBoth(r, http.MethodPost, "/upload-csv", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload_csv"))
	handleBoth(r, http.MethodGet, "/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	handleBoth(r, http.MethodGet, "/metrics", s.healthHandler.HandleMetrics)

	s.logger.Debug(ctx, "api routes registered", logger.Int("routes", len(r.Routes())))
	return r
}

func handleBoth(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, h)
	r.Method(method, pattern+"/", h)
}

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Detail: msg})
}
