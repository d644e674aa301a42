package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/devicelink/internal/auth"
	"github.com/nerrad567/devicelink/internal/device"
	"github.com/nerrad567/devicelink/internal/dispatch"
	"github.com/nerrad567/devicelink/internal/infrastructure/config"
	"github.com/nerrad567/devicelink/internal/infrastructure/logging"
	"github.com/nerrad567/devicelink/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker reports storage health. *database.DB satisfies it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Security   config.SecurityConfig
	Logger     *logging.Logger
	DB         HealthChecker
	Accounts   *auth.Service
	Registry   *device.Registry
	Telemetry  *telemetry.Store
	Dispatcher *dispatch.Dispatcher
	Version    string
}

// Server is the HTTP API server.
type Server struct {
	cfg        config.APIConfig
	secCfg     config.SecurityConfig
	logger     *logging.Logger
	db         HealthChecker
	accounts   *auth.Service
	registry   *device.Registry
	telemetry  *telemetry.Store
	dispatcher *dispatch.Dispatcher
	version    string

	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
}

// New creates a server. Nothing listens until Start is called.
//
// Parameters:
//   - deps: Services and settings; every service field is required
//
// Returns:
//   - *Server: Server ready to Start
//   - error: If a required dependency is missing
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger is required")
	case deps.DB == nil:
		return nil, fmt.Errorf("database is required")
	case deps.Accounts == nil:
		return nil, fmt.Errorf("account service is required")
	case deps.Registry == nil:
		return nil, fmt.Errorf("device registry is required")
	case deps.Telemetry == nil:
		return nil, fmt.Errorf("telemetry store is required")
	case deps.Dispatcher == nil:
		return nil, fmt.Errorf("dispatcher is required")
	}

	return &Server{
		cfg:        deps.Config,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		db:         deps.DB,
		accounts:   deps.Accounts,
		registry:   deps.Registry,
		telemetry:  deps.Telemetry,
		dispatcher: deps.Dispatcher,
		version:    deps.Version,
	}, nil
}

// Start binds the listen address and serves in the background. A bind
// failure is returned; later serve errors are logged.
//
// Cancelling ctx closes open WebSocket streams; call Close to stop the
// listener.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.server = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port)),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
		BaseContext:       func(net.Listener) context.Context { return srvCtx },
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.cancel()
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	s.logger.Info("API server listening", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the server, waiting up to
// gracefulShutdownTimeout for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
