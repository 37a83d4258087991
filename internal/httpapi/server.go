// Package httpapi exposes the service layer over HTTP. It is a thin
// adapter: handlers decode, call the service, and map the service's error
// taxonomy onto status codes. No domain logic lives here.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larderhq/larder/internal/service"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New builds a Server serving the recipe routes on addr.
func New(addr string, svc *service.Service, logger *slog.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	h := &recipeHandler{svc: svc, logger: logger}
	h.registerRoutes(engine)

	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &Server{
		engine: engine,
		http:   &http.Server{Addr: addr, Handler: engine},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the route handler, for tests driving the API through
// httptest without a listener.
func (s *Server) Handler() http.Handler { return s.engine }

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
