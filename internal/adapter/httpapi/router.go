// Package httpapi is the HTTP front door: the analysis endpoint, a small
// browser page and diagnostics.
package httpapi

import (
	"net/http"
	"time"

	"finance-agent/internal/application/port/input"
	"finance-agent/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const (
	defaultRequestTimeout = 120 * time.Second
	defaultMaxBodyBytes   = 1 << 20
)

type Config struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// AccessLog enables structured per-request logs.
	AccessLog bool
	// LLMKeySet and FMPKey feed the health endpoint.
	LLMKeySet bool
	FMPKey    string
}

type Server struct {
	analyzer input.Analyzer
	tools    output.ToolRegistry
	probe    output.MarketDataProbe
	logger   output.LoggerPort
	cfg      Config
}

func NewServer(
	analyzer input.Analyzer,
	tools output.ToolRegistry,
	probe output.MarketDataProbe,
	logger output.LoggerPort,
	cfg Config,
) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Server{
		analyzer: analyzer,
		tools:    tools,
		probe:    probe,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger("finance-agent", httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	r.Use(middleware.Recoverer)
	r.Use(withCORS)
	r.Use(s.limitBody)

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Use(withJSONHeaders)
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)

		r.Route("/debug", func(r chi.Router) {
			r.Get("/tools", s.handleListTools)
			r.Post("/tools/{name}", s.handleRunTool)
			r.Get("/fmp", s.handleProbe)
		})
	})

	return r
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// withCORS allows browser clients from any origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request body size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
