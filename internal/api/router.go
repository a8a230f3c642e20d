package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/aistocks/internal/api/handlers"
	"github.com/wonny/aistocks/pkg/config"
	"github.com/wonny/aistocks/pkg/logger"
)

// Handlers groups the endpoint handlers the router mounts
type Handlers struct {
	Dashboard *handlers.DashboardHandler
	Jobs      *handlers.JobsHandler
	Sessions  *handlers.SessionHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are registered only in this function
func NewRouter(cfg *config.Config, h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Dashboard endpoints
	api.HandleFunc("/catalog", h.Dashboard.GetCatalog).Methods("GET")
	api.HandleFunc("/records", h.Dashboard.GetRecords).Methods("GET")
	api.HandleFunc("/instruments", h.Dashboard.GetInstruments).Methods("GET")
	api.HandleFunc("/view", h.Dashboard.GetView).Methods("GET")
	api.HandleFunc("/value", h.Dashboard.GetValue).Methods("GET")

	// Job endpoints
	api.HandleFunc("/jobs", h.Jobs.GetJobs).Methods("GET")
	api.HandleFunc("/reload", h.Jobs.Reload).Methods("POST")

	if cfg.RateLimit.RPS > 0 {
		api.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)))
	}

	// Interactive sessions
	r.HandleFunc("/ws", h.Sessions.ServeWS).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "aistocks-api",
	})
}

// rateLimitMiddleware rejects requests beyond the process-wide token bucket
func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// The WebSocket upgrade needs the raw writer
			if r.URL.Path == "/ws" {
				next.ServeHTTP(w, r)
				log.WithFields(map[string]interface{}{
					"path":     r.URL.Path,
					"duration": time.Since(start).String(),
				}).Debug("WebSocket session ended")
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
