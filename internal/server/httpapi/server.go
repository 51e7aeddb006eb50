// Package httpapi exposes the auth service over HTTP with cookie-carried
// session tokens.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlevkov/authd/internal/logging"
	"github.com/mlevkov/authd/internal/server/models"
)

// AuthService is the business-logic surface the transport layer needs.
type AuthService interface {
	Register(ctx context.Context, email string, password string) (*models.User, error)
	ValidateLogin(ctx context.Context, email string, password string) bool
	CreateSession(ctx context.Context, email string) (string, error)
	ResolveSession(ctx context.Context, token string) (*models.User, error)
	DestroySession(ctx context.Context, userID string)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ApplyPasswordReset(ctx context.Context, token string, newPassword string) error
}

type Server struct {
	address    string
	logger     logging.Logger
	auth       AuthService
	cookieName string
	registry   *prometheus.Registry
	metrics    *Collector
}

func NewServer(address string, l logging.Logger, a AuthService, cookieName string) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		address:    address,
		logger:     l.With("module", "http_server"),
		auth:       a,
		cookieName: cookieName,
		registry:   registry,
		metrics:    NewCollector(registry),
	}
}

// Router assembles the route table. Split out from Run so tests can drive
// the handlers through httptest without a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoverer)
	r.Use(s.requestLogger)
	r.Use(s.instrument)

	r.Get("/", s.handleWelcome)
	r.Post("/users", s.handleRegister)
	r.Post("/sessions", s.handleLogin)
	r.Delete("/sessions", s.handleLogout)
	r.Get("/profile", s.handleProfile)
	r.Post("/reset_password", s.handleResetToken)
	r.Put("/reset_password", s.handleUpdatePassword)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
