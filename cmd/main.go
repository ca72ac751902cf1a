package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/config"
	"github.com/a704/dodream-backend/db/migrations"
	"github.com/a704/dodream-backend/internal/container"
	pginfra "github.com/a704/dodream-backend/internal/infrastructure/postgres"
	"github.com/a704/dodream-backend/internal/infrastructure/search"
	"github.com/a704/dodream-backend/internal/infrastructure/storage"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/internal/router"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.DB.DSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DB.MaxConns,
		MinConns:        cfg.DB.MinConns,
		MaxConnLifetime: cfg.DB.MaxConnLife,
	})
	if err != nil {
		logger.WithError(err).Fatal("postgres connect failed")
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.DB.DSN(), migrations.Source(cfg.DB.MigrationsDir), logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	c := &container.Container{
		Cfg:    cfg,
		Logger: logger,
		DB:     pool,
		JWT:    helpers.NewJWTManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
	}
	connectOptional(ctx, c)
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newEngine(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// connectOptional attaches the backends the API can run without. Each one
// that fails to connect is logged and left nil.
func connectOptional(ctx context.Context, c *container.Container) {
	cfg, logger := c.Cfg, c.Logger

	// Redis backs sessions and rate limits; without it tokens are stateless.
	if rdb, err := helpers.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.WithError(err).Warn("redis unavailable; sessions are stateless and rate limiting is off")
	} else {
		c.Redis = rdb
	}

	if cfg.Storage.Bucket == "" {
		logger.Warn("GCS_BUCKET not set; material uploads disabled")
	} else if client, err := storage.NewClient(ctx, cfg.Storage.CredentialsFile); err != nil {
		logger.WithError(err).Warn("gcs client init failed; material uploads disabled")
	} else {
		c.GCS = client
	}

	es, err := search.NewClient(cfg.Search)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch client init failed; teacher search disabled")
	}
	c.ES = es

	if cfg.Mail.Enabled {
		pub, err := helpers.NewRabbitPublisher(cfg.Mail.RabbitMQURL, cfg.Mail.Queue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; login notifications disabled")
		} else {
			c.Publisher = pub
		}
	}

	logger.WithFields(logrus.Fields{
		"redis":         c.Redis != nil,
		"gcs":           c.GCS != nil,
		"elasticsearch": c.ES != nil,
		"rabbitmq":      c.Publisher != nil,
	}).Info("optional backends")
}

func newEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if origins := c.Cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if c.Cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()
	return r
}
