// Package api serves a Store over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/rogersnm/todos/internal/logging"
	"github.com/rogersnm/todos/internal/metrics"
	"github.com/rogersnm/todos/internal/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	store   store.Store
	logger  *log.Logger
	metrics *metrics.Metrics
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics enables the request metrics middleware and the /metrics route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func New(st store.Store, opts ...Option) *Server {
	s := &Server{store: st, logger: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router. Each call returns an independent engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.recovered))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.NoRoute(s.noRoute)

	todos := r.Group("/todos")
	todos.GET("", s.findAll)
	todos.POST("", s.create)
	todos.GET("/:id", s.findOne)
	todos.PATCH("/:id", s.update)
	todos.DELETE("/:id", s.remove)

	r.GET("/api", s.openAPIJSON)
	r.GET("/api/openapi.yaml", s.openAPIYAML)
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "id_policy", s.store.Policy().Kind())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
