// Package api serves the REST and WebSocket interface of the binder.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/browser"

	"github.com/ramonehamilton/mtg-binder/internal/api/handlers"
	"github.com/ramonehamilton/mtg-binder/internal/api/websocket"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	logger     *slog.Logger

	// Browser auto-open configuration
	openBrowser bool
	frontendURL string

	// WebSocket hub for real-time events
	wsHub *websocket.Hub

	deps Dependencies
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	OpenBrowser bool   // Whether to auto-open browser on startup
	FrontendURL string // URL to open in browser; defaults to the server itself
	Logger      *slog.Logger
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		OpenBrowser: false,
		FrontendURL: "",
	}
}

// Dependencies holds the services the handlers are built on.
// Combos, Synergy, History and Auth are optional.
type Dependencies struct {
	Controller handlers.Controller
	Cards      handlers.CardSource
	Combos     handlers.ComboMatcher
	Synergy    handlers.SynergyMatcher
	History    handlers.HistorySource
	Auth       handlers.AuthURLSource
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Dependencies) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:      chi.NewRouter(),
		port:        cfg.Port,
		logger:      logger,
		openBrowser: cfg.OpenBrowser,
		frontendURL: cfg.FrontendURL,
		wsHub:       websocket.NewHub(logger),
		deps:        deps,
	}
	if s.frontendURL == "" {
		s.frontendURL = fmt.Sprintf("http://localhost:%d", s.port)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	// Upstream lookups (combos, synergy) may page through several requests
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// requestLogger logs each request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()))
	})
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" || (contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;")) {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "port", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	// Open browser after short delay to ensure server is ready
	if s.openBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := browser.OpenURL(s.frontendURL); err != nil {
				s.logger.Warn("Failed to open browser", "url", s.frontendURL, "error", err)
			} else {
				s.logger.Info("Opened browser", "url", s.frontendURL)
			}
		}()
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates an observer that can be registered with an
// EventDispatcher to forward events to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.Observer {
	return websocket.NewObserver(s.wsHub)
}
