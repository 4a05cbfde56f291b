package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/config"
	handlers "github.com/GriffinCanCode/AgentOS/dock/internal/http"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/middleware"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/ptyhost"
	"github.com/GriffinCanCode/AgentOS/dock/internal/ws"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg      *config.Config
	log      *logging.Logger
	router   *gin.Engine
	ptys     *ptyhost.Manager
	registry *prometheus.Registry
	metrics  *monitoring.Metrics
}

// New creates a new server instance
func New(cfg *config.Config, log *logging.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)
	ptys := ptyhost.NewManager(log, metrics, ptyhost.WithDefaultShell(cfg.Server.Shell))

	if cfg.Logging.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log.Named("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	h := handlers.NewHandlers(ptys)
	wsHandler := ws.NewHandler(ptys, middleware.RateLimitConfig{
		RequestsPerSecond: cfg.Server.ResizeRate,
		Burst:             cfg.Server.ResizeBurst,
	}, log, metrics)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(monitoring.Handler(registry)))

	api := router.Group("/api/terminals")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	api.GET("", h.ListTerminals)
	api.GET("/ws", wsHandler.HandleTerminal)
	api.GET("/:id", h.GetTerminal)
	api.GET("/:id/output", h.TerminalOutput)
	api.POST("/:id/resize", h.ResizeTerminal)
	api.DELETE("/:id", h.KillTerminal)

	return &Server{
		cfg:      cfg,
		log:      log,
		router:   router,
		ptys:     ptys,
		registry: registry,
		metrics:  metrics,
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("terminal endpoint listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	// Hijacked websocket connections are not tracked by Shutdown; killing
	// the shells ends their handlers.
	s.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Close kills every shell
func (s *Server) Close() error {
	s.ptys.KillAll()
	return nil
}
