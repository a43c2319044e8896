// Package server exposes the tutor over HTTP. Every response is a JSON
// envelope with a success flag; failures carry a message and an error
// kind.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/tutor"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps configure a Server.
type Deps struct {
	Tutor  *tutor.Tutor
	Health Pinger
	Logger *zap.Logger
	Config config.ServerConfig
}

// Server is the HTTP API.
type Server struct {
	tutor   *tutor.Tutor
	health  Pinger
	logger  *zap.Logger
	cfg     config.ServerConfig
	metrics *metrics
	engine  *gin.Engine
}

// New builds the server and its routes.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Config.Mode != "" {
		gin.SetMode(d.Config.Mode)
	}

	s := &Server{
		tutor:   d.Tutor,
		health:  d.Health,
		logger:  d.Logger,
		cfg:     d.Config,
		metrics: newMetrics(),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), requestLogger(s.logger), s.metrics.middleware())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", s.metrics.handler())

	gen := r.Group("/")
	if rl := s.cfg.RateLimit; rl.MaxRequests > 0 && rl.Window > 0 {
		gen.Use(s.rateLimit(newClientLimiter(rl.MaxRequests, rl.Window)))
	}
	gen.POST("/roadmap", s.handleRoadmap)
	gen.POST("/content", s.handleContent)
	gen.POST("/quiz", s.handleQuiz)
	gen.POST("/feedback", s.handleFeedback)

	r.POST("/capability", s.handleCapability)
	r.POST("/topics", s.handleTopics)
	r.POST("/learners", s.handleCreateLearner)
	r.GET("/learners", s.handleListLearners)
	r.GET("/learners/:id", s.handleGetLearner)

	r.NoRoute(func(c *gin.Context) {
		s.abort(c, tutor.KindNotFound, "no such endpoint")
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
