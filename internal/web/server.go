// Package web serves the topology, live stats and the websocket update
// channel to browser viewers.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rusenback/netviz/internal/hub"
	"github.com/rusenback/netviz/internal/model"
	"github.com/rusenback/netviz/internal/monitor"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
)

// Options configures a Server
type Options struct {
	Listen    string
	StaticDir string // serves index.html and status.html when set
	Topology  *model.Topology
	Hub       *hub.Hub
	Stats     monitor.StatsFetcher
	Gatherer  prometheus.Gatherer
	Logger    *log.Logger
}

// Server is the HTTP side of the service
type Server struct {
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "web: ", log.LstdFlags)
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/topology", s.getTopology)
	r.GET("/api/stats", s.getStats)
	r.GET("/ws", s.serveWS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "subscribers": s.opts.Hub.Len()})
	})

	if s.opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if dir := s.opts.StaticDir; dir != "" {
		r.StaticFile("/", filepath.Join(dir, "index.html"))
		r.StaticFile("/status", filepath.Join(dir, "status.html"))
		r.Static("/static", filepath.Join(dir, "static"))
	}
	return r
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Server listening on %s", s.opts.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getTopology(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Topology)
}

// getStats polls every resource live, outside the monitor loop
func (s *Server) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, monitor.FetchAll(c.Request.Context(), s.opts.Topology, s.opts.Stats))
}
