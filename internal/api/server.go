package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mwhitfield/recordvault/internal/auth"
	"github.com/mwhitfield/recordvault/internal/infrastructure/config"
	"github.com/mwhitfield/recordvault/internal/infrastructure/database"
	"github.com/mwhitfield/recordvault/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.ServerConfig
	Security config.SecurityConfig
	TokenTTL time.Duration
	Logger   *logging.Logger
	DB       *database.DB // may be nil; data endpoints then answer 503
	Users    auth.UserRepository
	Version  string
}

// Server is the HTTP API server for recordvault.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg      config.ServerConfig
	secCfg   config.SecurityConfig
	tokenTTL time.Duration
	logger   *logging.Logger
	db       *database.DB
	users    auth.UserRepository
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. A nil DB is accepted:
// the server comes up anyway and the storage middleware answers 503 on the
// endpoints that need it.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Security.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if deps.DB != nil && deps.Users == nil {
		return nil, fmt.Errorf("user repository is required when a database is provided")
	}

	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}

	return &Server{
		cfg:      deps.Config,
		secCfg:   deps.Security,
		tokenTTL: ttl,
		logger:   deps.Logger,
		db:       deps.DB,
		users:    deps.Users,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("starting api server: %w", ctx.Err())
	default:
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
