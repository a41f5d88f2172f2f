package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nahidhasan98/changelog-notifier/internal/config"
	"github.com/nahidhasan98/changelog-notifier/internal/handlers"
	"github.com/nahidhasan98/changelog-notifier/internal/logger"
	"github.com/nahidhasan98/changelog-notifier/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        *logger.Logger
}

// New creates a new HTTP server with routes and the middleware chain applied
func New(cfg *config.Config, handler *handlers.Handler, log *logger.Logger) *Server {
	mw := middleware.New(log, cfg.Security.RateLimitPerMinute)
	mw.SetAPIKeys(cfg.Security.APIKeys)

	s := &Server{
		handler: chain(routes(handler), mw),
		log:     log,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// routes registers the API endpoints
func routes(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/generate-changelog", h.GenerateChangelog).Methods(http.MethodPost)
	r.HandleFunc("/commits/{owner}/{repo}", h.ListCommits).Methods(http.MethodGet)
	r.HandleFunc("/webhook/github", h.GitHubWebhook).Methods(http.MethodPost)
	r.HandleFunc("/webhook/gitea", h.GiteaWebhook).Methods(http.MethodPost)

	return r
}

// chain wraps the router so Recovery runs first and APIKeyAuth last
func chain(router http.Handler, mw *middleware.Middleware) http.Handler {
	handler := mw.APIKeyAuth(router)
	handler = mw.RateLimit(handler)
	handler = mw.CORS(handler)
	handler = mw.Security(handler)
	handler = mw.Logging(handler)
	handler = mw.RequestID(handler)
	handler = mw.Recovery(handler)
	return handler
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listen address and serves in the background. Serve errors
// other than a clean shutdown are sent to errChan.
func (s *Server) Start(errChan chan<- error) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.log.Infof("HTTP server listening on %s", ln.Addr())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server shutdown complete")
	return nil
}
