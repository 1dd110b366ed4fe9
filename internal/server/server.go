// Package server exposes the resolution service over HTTP, along with
// health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/havenwell/waypoint/internal/models"
	"github.com/havenwell/waypoint/internal/postal"
	"github.com/havenwell/waypoint/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Locator is the service surface the HTTP layer depends on.
type Locator interface {
	Resolve(ctx context.Context, clientID, rawCode, countryHint string) (*models.ResolvedResponse, error)
	Health(ctx context.Context) service.Health
}

// resolveRequest is the JSON body of a lookup request.
type resolveRequest struct {
	Code        string `json:"code"`
	CountryHint string `json:"countryHint,omitempty"`
}

// Server wraps the HTTP listener and routes.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// NewServer creates an HTTP server with resolve, health and metrics
// routes.
func NewServer(addr string, locator Locator, reg *prometheus.Registry, log *slog.Logger) *Server {
	mux := http.NewServeMux()

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}

	mux.HandleFunc("POST /api/locator/resolve", srv.handleResolve(locator))
	mux.HandleFunc("GET /healthz", srv.handleHealth(locator))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return srv
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleResolve(locator Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "invalid_request",
				"message": "request body must be JSON with a code field",
			})
			return
		}

		response, err := locator.Resolve(r.Context(), clientID(r), req.Code, req.CountryHint)
		if err != nil {
			s.writeResolveError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// writeResolveError maps service errors onto the HTTP taxonomy:
// validation failures are 400, quota rejections 429 with retry
// guidance, anything else a generic 500.
func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *postal.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   verr.Reason,
			"message": "Postal code must be a US ZIP (12345) or Canadian postal code (A1A 1A1)",
		})
		return
	}

	var rateErr *service.RateLimitError
	if errors.As(err, &rateErr) {
		retryAfter := int(rateErr.RetryAfter.Seconds() + 0.5)
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":             "rate_limited",
			"message":           "Too many requests, please slow down",
			"retryAfterSeconds": retryAfter,
		})
		return
	}

	s.log.ErrorContext(r.Context(), "Lookup failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal_error",
	})
}

func (s *Server) handleHealth(locator Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := locator.Health(r.Context())

		status := http.StatusOK
		if !health.Ok {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, health)
	}
}

// clientID extracts the client identifier for rate limiting: the first
// hop of X-Forwarded-For set by the trusted proxy, falling back to the
// connection's remote address.
func clientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
