// Package status implements the read-only observability server:
// /health, /metrics (Prometheus), /api/v1/trends (latest trends.json),
// and /api/v1/history/{keyword} (a keyword's time series), mirroring
// the teacher's internal/api server but read-only over the pipeline's
// on-disk/in-memory state instead of Postgres/Elasticsearch.
package status

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"trendradar/internal/timeseries"
	"trendradar/pkg/logger"
	"trendradar/pkg/metrics"
)

// Config holds the status server's configuration.
type Config struct {
	Addr        string
	TrendsPath  string
	EnableCORS  bool
}

// Server serves the pipeline's observability endpoints.
type Server struct {
	config Config
	router *mux.Router
	store  *timeseries.Store
	reg    *prometheus.Registry
	log    *logger.Logger

	startedAt time.Time
}

// New builds a Server reading trend documents from config.TrendsPath
// and keyword history from store, exposing metrics registered on reg.
func New(config Config, store *timeseries.Store, reg *prometheus.Registry) *Server {
	s := &Server{
		config:    config,
		router:    mux.NewRouter(),
		store:     store,
		reg:       reg,
		log:       logger.Get().WithField("component", "status"),
		startedAt: time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler(s.reg)).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/trends", s.handleTrends).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/history/{keyword}", s.handleHistory).Methods(http.MethodGet)

	if s.config.EnableCORS {
		s.router.Use(corsMiddleware)
	}
	s.router.Use(loggingMiddleware(s.log))
}

// ListenAndServe starts the HTTP server on config.Addr, blocking until
// it errors. Server has no shutdown method; it runs until the process
// exits.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.config.Addr).Msg("status server listening")
	return http.ListenAndServe(s.config.Addr, s.router)
}

// Router exposes the underlying mux.Router for tests.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).String(),
		"time":   time.Now().Format(time.RFC3339),
	}

	if _, err := os.Stat(s.config.TrendsPath); err != nil {
		health["trends_file"] = "missing"
	} else {
		health["trends_file"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.config.TrendsPath)
	if err != nil {
		if os.IsNotExist(err) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{"total_trends": 0, "trends": []interface{}{}})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	keyword := mux.Vars(r)["keyword"]

	history := s.store.History(keyword)
	if history == nil {
		http.Error(w, "keyword not tracked", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("duration", time.Since(start)).Msg("status request")
		})
	}
}
