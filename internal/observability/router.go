package observability

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
)

// SnapshotSource provides the latest published world snapshot.
// Implementations must be safe to call from HTTP goroutines.
type SnapshotSource interface {
	Snapshot() *game.Snapshot
}

// RouterConfig contains the dependencies of the debug router
type RouterConfig struct {
	// Source is the snapshot publisher (required)
	Source SnapshotSource

	// Stats returns a JSON-encodable view of runtime counters. Optional.
	Stats func() any

	// CORSOrigins is an optional list of allowed origins for browser inspectors.
	// If empty, only localhost origins are allowed.
	CORSOrigins []string

	// RateLimitConfig is optional; DefaultRateLimitConfig is used when nil
	RateLimitConfig *RateLimitConfig

	// DisableLogging disables the request logger middleware (useful for tests)
	DisableLogging bool
}

// NewRouter builds the debug HTTP router. It starts no goroutines and opens
// no listeners, so it can be served with httptest directly.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Log, NoColor: true}))
	}
	r.Use(middleware.Recoverer)

	rlCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rlCfg = *cfg.RateLimitConfig
	}
	r.Use(NewIPRateLimiter(rlCfg).Middleware)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			snap := cfg.Source.Snapshot()
			if snap == nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot yet"})
				return
			}
			writeJSON(w, http.StatusOK, snap)
		})

		if cfg.Stats != nil {
			r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, cfg.Stats())
			})
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("debug response encode failed")
	}
}
