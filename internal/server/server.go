package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/handlers"
	"github.com/organize/tasktracker/internal/config"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/organize/tasktracker/pkg/metrics"
	"github.com/organize/tasktracker/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// Options is what every service engine is built from.
type Options struct {
	Config   *config.Config
	Verifier middleware.Verifier
	// Redis backs the shared rate limiter when RATE_LIMIT_USE_REDIS is set. May be nil.
	Redis  *redis.Client
	Checks map[string]ReadyCheck
	Title  string
	APIDoc string
}

// NewEngine builds the gin engine shared by all services: request logging,
// recovery, CORS, the auth gate, optional rate limiting, /health, /ready,
// /metrics and the swagger pages. Service routes are added by the caller.
func NewEngine(opts Options) *gin.Engine {
	cfg := opts.Config
	startTime := time.Now()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.AuthGate(opts.Verifier))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && opts.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(opts.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis (%.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory (%.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when every registered dependency answers
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}
		for name, check := range opts.Checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := check(ctx)
			cancel()
			deps[name] = err == nil
			if err != nil {
				logger.Warnf("readiness check %s failed: %v", name, err)
				ready = false
			}
		}
		body := gin.H{"status": "ready", "service": cfg.Service, "deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.APIDoc != "" {
		handlers.RegisterSwagger(r, opts.Title, opts.APIDoc)
	}
	return r
}

// APIGroup returns the protected /api group. When profiles is non-nil the
// caller's id and stored role are resolved from the user service first.
func APIGroup(r *gin.Engine, profiles middleware.ProfileFetcher) *gin.RouterGroup {
	api := r.Group("/api", middleware.RequirePrincipal())
	if profiles != nil {
		api.Use(middleware.ResolveProfile(profiles))
	}
	return api
}

// Run serves h until ctx is cancelled, then shuts down gracefully within
// cfg.ShutdownTimeout.
func Run(ctx context.Context, h http.Handler, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("shutting down (timeout %s)", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
