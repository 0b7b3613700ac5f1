package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth/middleware"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Routes is implemented by every HTTP service.
type Routes interface {
	RegisterRoutes(r gin.IRouter)
}

// HealthChecker reports whether the backing stores answer.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HTTPServer struct {
	server *http.Server
	router *gin.Engine
	logger *logger.Logger
}

// NewHTTPServer builds the router. prom and health may be nil.
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	prom *metrics.Prometheus,
	health HealthChecker,
	services ...Routes,
) *HTTPServer {
	if config.Server.Mode != "" {
		gin.SetMode(config.Server.Mode)
	}

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{
		SkipPaths: []string{"/health", config.Metrics.Path},
	}))
	router.Use(middleware.CORS(config.Server.CORSOrigins))
	if prom != nil && config.Metrics.Enabled {
		router.Use(prom.Middleware())
		router.GET(config.Metrics.Path, gin.WrapH(prom.Handler()))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				body["status"] = "degraded"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	})

	for _, s := range services {
		s.RegisterRoutes(router)
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              config.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
		logger: log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
