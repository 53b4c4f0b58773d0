package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/fileops/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/journal"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/monitoring"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests
const ShutdownTimeout = 10 * time.Second

// Deps are the components the server exposes
type Deps struct {
	Config   *config.Config
	Executor *executor.Executor
	Journal  *journal.Journal
	Metrics  *monitoring.Metrics
	Gatherer prometheus.Gatherer
	Logger   *logging.Logger
}

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *logging.Logger
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(d Deps) (*Server, error) {
	if d.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if d.Executor == nil {
		return nil, errors.New("server: executor is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	cfg := d.Config

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(monitoring.Middleware(d.Metrics))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	router.Use(middleware.CORS(corsCfg))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	// Register routes
	handlers, err := apihttp.NewHandlers(d.Executor, d.Journal, cfg.Server.Root, cfg.Audit.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	handlers.WithMetrics(d.Metrics).Register(router)

	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(monitoring.Handler(d.Gatherer)))
	}

	logger.Info("Server initialized successfully",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("root", handlers.Root()),
		zap.Strings("cors_origins", cfg.Server.CORSOrigins),
	)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		config: cfg,
	}, nil
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
