package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/api"
	"github.com/playpool/billiard/internal/api/handlers"
	"github.com/playpool/billiard/internal/cache"
	"github.com/playpool/billiard/internal/config"
	"github.com/playpool/billiard/internal/database"
	"github.com/playpool/billiard/internal/logger"
	"github.com/playpool/billiard/internal/migrations"
	"github.com/playpool/billiard/internal/redis"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/worker"
	"github.com/playpool/billiard/internal/ws"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Info("running DB migrations on startup")
		if err := migrations.RunMigrations(cfg.DatabaseURL, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Redis is optional: without it results are not cached and run events
	// stay on this instance.
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Warn("[CACHE] redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	runs := store.NewRuns(db)
	worker.StartRetentionWorker(ctx, runs,
		time.Duration(cfg.RunRetentionHours)*time.Hour,
		time.Duration(cfg.RetentionPollInterval)*time.Second, log)

	limits := api.LimitsFrom(cfg)
	hub := ws.NewHub(limits, websocketOrigin(cfg), log)
	go hub.Run(ctx)
	ws.StartRunEventSubscriber(ctx, rdb, hub)

	checks := []handlers.Check{{Name: "postgres", Probe: db.PingContext}}
	if rdb != nil {
		checks = append(checks, handlers.Check{Name: "redis", Probe: redisProbe(rdb)})
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	api.SetupRoutes(router, api.Deps{
		Config:    cfg,
		Log:       log,
		Cache:     cache.New(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second, log),
		Hub:       hub,
		Publisher: ws.NewPublisher(rdb, hub),
		Tables:    store.NewTables(db),
		Runs:      runs,
		Clients:   store.NewClients(db),
		Checks:    checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting billiard server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func redisProbe(rdb *goredis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func websocketOrigin(cfg *config.Config) string {
	if cfg.Environment == "development" {
		return ""
	}
	return cfg.FrontendURL
}
