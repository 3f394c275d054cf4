package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"convolens/internal/core/domain"
	"convolens/internal/logger"
)

// Pipeline is the part of the orchestrator the API drives.
type Pipeline interface {
	ProcessUpload(ctx context.Context, reader io.Reader, filename string, opts domain.Options) (domain.PipelineResult, error)
	ProcessURL(ctx context.Context, rawURL string, opts domain.Options) (domain.PipelineResult, error)
}

// Server holds the HTTP handlers and their dependencies
type Server struct {
	pipeline       Pipeline
	logger         logger.Logger
	maxUploadBytes int64
	version        string
}

// NewServer creates a new HTTP server. maxUploadMB caps the request body.
func NewServer(pipeline Pipeline, l logger.Logger, maxUploadMB int64, version string) *Server {
	return &Server{
		pipeline:       pipeline,
		logger:         l,
		maxUploadBytes: maxUploadMB << 20,
		version:        version,
	}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/analyze", s.analyzeHandler).Methods(http.MethodPost)

	return r
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info(r.Context(), "%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
