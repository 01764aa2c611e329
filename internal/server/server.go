package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hcnaf/Logging-MentoringProgram/internal/aggregator"
	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/controller"
	"github.com/hcnaf/Logging-MentoringProgram/internal/hub"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/repository"
	"github.com/hcnaf/Logging-MentoringProgram/internal/web"
)

// Options carries the server's dependencies.
type Options struct {
	Addr            string
	Debug           bool
	ShutdownTimeout time.Duration
	Repository      repository.SessionRepository
	Pipeline        *logpipe.Pipeline
	Hub             *hub.Hub
	Aggregator      *aggregator.Aggregator
	Clock           clock.Clock
}

// Server holds the Gin engine and the HTTP listener.
type Server struct {
	engine          *gin.Engine
	http            *http.Server
	hub             *hub.Hub
	aggregator      *aggregator.Aggregator
	log             *logpipe.Logger
	shutdownTimeout time.Duration
	debug           bool
}

// New creates the web server with every route registered.
func New(opts Options) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	engine := gin.New()
	engine.Use(RequestLogger(opts.Pipeline.Logger("gin")), gin.Recovery())
	engine.SetHTMLTemplate(web.Templates())

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:          engine,
		hub:             opts.Hub,
		aggregator:      opts.Aggregator,
		log:             opts.Pipeline.Logger("server"),
		shutdownTimeout: opts.ShutdownTimeout,
		debug:           opts.Debug,
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          NewErrorLog(opts.Pipeline.Logger("net/http")),
	}

	s.setupRoutes(opts)
	return s
}

// Handler exposes the engine, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes(opts Options) {
	home := controller.NewHomeController(opts.Repository, opts.Pipeline.Logger("controller.home"), opts.Clock)
	session := controller.NewSessionController(opts.Repository, opts.Pipeline.Logger("controller.session"))
	ideas := controller.NewIdeasController(opts.Repository, opts.Pipeline.Logger("controller.ideas"), opts.Clock)

	// Pages.
	s.engine.GET("/", home.Index)
	s.engine.POST("/", home.Create)
	s.engine.GET("/session", session.Index)
	s.engine.GET("/session/:id", session.Index)
	s.engine.GET("/logs", func(c *gin.Context) {
		c.HTML(http.StatusOK, "logs.html", nil)
	})
	s.engine.StaticFS("/static", http.FS(web.Static()))

	// Ideas API.
	api := s.engine.Group("/api")
	api.GET("/ideas/forsession/:id", ideas.ForSession)
	api.POST("/ideas/create", ideas.Create)

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.aggregator.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"uptime":       stats.Uptime,
			"eps":          stats.EPS,
			"live_clients": stats.LiveClients,
			"dropped_live": stats.DroppedLive,
		})
	})

	// Metrics API.
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.aggregator.Snapshot())
	})

	// Live log stream.
	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints, debug mode only.
	if s.debug {
		s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
		s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
		s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
		s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
		s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Live streams never finish on their own; closing the hub ends them.
	s.http.RegisterOnShutdown(func() {
		if err := s.hub.Close(); err != nil {
			log.Printf("server: close hub: %v", err)
		}
	})
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Error("graceful shutdown failed", "error", err)
		return err
	}
	s.log.Info("server stopped")
	return nil
}
