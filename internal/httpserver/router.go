package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kindle_sender/internal/domain"
)

// Trigger runs one delivery tick on demand.
type Trigger interface {
	RunOnce(ctx context.Context, now time.Time) (*domain.RunStats, error)
}

type Router struct {
	Engine *gin.Engine
	logger *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

func NewRouter(trigger Trigger, logger *slog.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	logger = logger.With("component", "http")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/tasks/deliver", deliverHandler(trigger, logger))

	return &Router{Engine: r, logger: logger}
}

// deliverHandler always answers 200; failures are visible in logs and
// send history only.
func deliverHandler(trigger Trigger, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("delivery triggered over http", "remote", c.ClientIP())

		// The run must not stop when the caller hangs up.
		ctx := context.WithoutCancel(c.Request.Context())

		stats, err := trigger.RunOnce(ctx, time.Now())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "aborted"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "stats": stats})
	}
}

// Run serves until Shutdown is called.
func (r *Router) Run(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.mu.Lock()
	r.server = server
	r.mu.Unlock()

	r.logger.Info("http server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	server := r.server
	r.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
