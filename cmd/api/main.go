package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classtrack/internal/attendance"
	"classtrack/internal/config"
	"classtrack/internal/httpapi"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/logging"
	"classtrack/internal/metrics"
	"classtrack/internal/observability"
	"classtrack/internal/queue"
	"classtrack/internal/roster"
	"classtrack/internal/store"
)

func main() {
	cfg := config.Load()

	logg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "classtrack-api")
	if err != nil {
		logg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer closeSentry()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, logg.Base); err != nil {
		logg.Sugar.Fatalw("http server failed", "err", err)
	}
}

func runHTTP(cfg config.App, logg *zap.Logger) error {
	db, err := store.NewDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	reportCache := store.NewReportCache(redisClient, cfg.ReportCacheTTL)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:events")
	}
	events := queue.NewEvents(q)

	rosterRepo := roster.NewRepository(db.Client)
	rosterSvc := roster.NewService(rosterRepo, events, reportCache)

	attRepo := attendance.NewRepository(db.Client)
	attSvc := attendance.NewService(attRepo, rosterRepo, rosterSvc, reportCache, events)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		started := time.Now()
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		metrics.ObserveDBPing(time.Since(started))
		redisHealthy := redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	limiter := httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	api := httpapi.New(rosterSvc, attSvc, logg, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	api.Register(r, limiter.GinMiddleware())

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Sugar().Infow("starting server", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Sugar().Fatalw("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Sugar().Warnw("server forced shutdown", "err", err)
	}

	logg.Info("server exited")
	return nil
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
