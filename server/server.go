// Package server exposes the viewer and the castkit registry over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reoring/castkit"
	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/internal/metrics"
	"github.com/reoring/castkit/middleware"
	"github.com/reoring/castkit/viewer"
)

// Below are the defaults of Options.
const (
	DefaultAddr            = "localhost:8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// Options are the options for the server. Zero values fall back to defaults.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	Logger          logging.Logger
	Metrics         *metrics.Metrics
}

// Server serves the pokeview JSON API.
type Server struct {
	options    Options
	viewer     *viewer.Viewer
	caster     *castkit.Caster
	logger     logging.Logger
	metrics    *metrics.Metrics
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
}

// New creates an instance of Server.
func New(v *viewer.Viewer, options Options) *Server {
	if options.Addr == "" {
		options.Addr = DefaultAddr
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = DefaultShutdownTimeout
	}
	if options.MaxBodyBytes == 0 {
		options.MaxBodyBytes = middleware.DefaultMaxBodyBytes
	}
	if options.Logger == nil {
		options.Logger = logging.New("server")
	}

	s := &Server{
		options: options,
		viewer:  v,
		caster:  v.Client().Caster(),
		logger:  options.Logger,
		metrics: options.Metrics,
	}
	s.router = s.newRouter()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.options.Addr, err)
	}
	s.listener = lis

	go func() {
		s.logger.Infof("serving HTTP on %s", lis.Addr())
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP server Serve: %v", err)
		}
	}()
	return nil
}

// Addr returns the address the server listens on, once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.options.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown shuts down the server. A graceful shutdown waits up to
// ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		s.logger.Errorf("HTTP server Close: %v", err)
	}
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(s.logger, s.metrics))
	r.NoRoute(func(c *gin.Context) {
		middleware.Abort(c, http.StatusNotFound, middleware.NewError(middleware.CodeNotFound, "no such route"))
	})

	r.GET("/healthz", s.healthz)
	if reg := s.metrics.Registry(); reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/pokemon", s.listPokemon)
	api.GET("/pokemon/:id", s.getProfile)
	api.GET("/pokemon/:id/sprite", s.getSprite)
	api.GET("/schema", s.getSchema)
	api.GET("/schema/:type", s.getTypeSchema)

	opt := middleware.DefaultParseOpt()
	opt.MaxBytes = s.options.MaxBodyBytes
	api.POST("/cast/:type", middleware.CastParam(s.caster, "type", opt), s.cast)
	return r
}
