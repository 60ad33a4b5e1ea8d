package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/common/http/handler"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/response"
)

const ReleaseMode = "release"

type Server struct {
	engine *gin.Engine
	logger *zap.Logger
}

func New(mode string, logger *zap.Logger) *Server {
	if mode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), requestLogger(logger))

	return &Server{
		engine: r,
		logger: logger,
	}
}

// SetupRoutes mounts the token API, health check and metrics endpoint.
func (s *Server) SetupRoutes(h *TokenHandler, gatherer prometheus.Gatherer) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.engine.Group("/v1")
	{
		v1.POST("/tokens", handler.WrapCode(response.CodeCreated, h.Issue))
		v1.GET("/tokens", handler.Wrap(h.List))
		v1.POST("/tokens/serve", handler.Wrap(h.Serve))
		v1.GET("/tokens/next", handler.Wrap(h.Next))
		v1.GET("/serving", handler.Wrap(h.Serving))
		v1.GET("/stats", handler.Wrap(h.Stats))
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, address string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("rest server starting", zap.String("address", address))
	srvError := make(chan error, 1)
	go func() {
		srvError <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("rest server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-srvError:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		logger.Debug("request", fields...)
	}
}
