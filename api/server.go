// Package api - Thin HTTP adapter over the supply chain pipeline
// The API is ONLY responsible for: request decoding, pipeline invocation, output serialization.
// The API NEVER performs analysis logic.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"motor-supplychain/core/output"
	"motor-supplychain/core/pipeline"
	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

// Server is the API server
type Server struct {
	handler  *Handler
	router   chi.Router
	version  string
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewServer loads the reference tables and registers the routes
func NewServer(version string, opts pipeline.Options) (*Server, error) {
	handler, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		handler:  handler,
		router:   chi.NewRouter(),
		version:  version,
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "motor_supplychain",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "motor_supplychain",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(s.requests, s.latency)

	s.registerRoutes()
	return s, nil
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.instrument)

	// Core endpoints
	s.router.Post("/evaluate", s.handleEvaluate)
	s.router.Get("/health", s.handleHealth)

	// Supporting endpoints
	s.router.Get("/reference", s.handleReference)
	s.router.Get("/components", s.handleComponents)
	s.router.Get("/version", s.handleVersion)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// handleEvaluate handles POST /evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EvaluateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.handler.Evaluate(&req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, r, &EvaluateResponse{
		Report:     report,
		DurationMs: time.Since(start).Milliseconds(),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleReference handles GET /reference
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	p := s.handler.Pipeline()
	s.writeJSON(w, r, output.NewReferenceView(p.Prices(), p.Risk()), http.StatusOK)
}

// handleComponents handles GET /components
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]interface{}{
		"components": pipeline.Default().Names(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]string{
		"version":     s.version,
		"engine":      "motor-supplychain",
		"api_version": "v1",
	}, http.StatusOK)
}

// instrument counts requests per route pattern and status code
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// writeJSON encodes before writing the header so a failed encoding
// still reaches the client as an error response
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			logging.Warn("result is not representable in JSON", zap.Error(err))
			s.writeError(w, r, CodeNonFiniteResult,
				"evaluation produced a non-finite value: "+unsupported.Str, http.StatusUnprocessableEntity)
			return
		}
		logging.Error("failed to encode response", zap.Error(err))
		s.writeError(w, r, string(apperrors.TypeInternal), "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	s.writeJSON(w, r, &ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetReqID(r.Context()),
		},
	}, status)
}

// writeAppError maps typed errors to HTTP status codes
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		code   = string(apperrors.TypeInternal)
		status = http.StatusInternalServerError
	)
	switch {
	case apperrors.IsType(err, apperrors.TypeInput):
		code, status = string(apperrors.TypeInput), http.StatusBadRequest
	case apperrors.IsType(err, apperrors.TypeNotFound):
		code, status = string(apperrors.TypeNotFound), http.StatusNotFound
	default:
		logging.Error("evaluation failed", zap.Error(err))
	}
	s.writeError(w, r, code, err.Error(), status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
