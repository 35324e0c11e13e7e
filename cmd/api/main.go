package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/petcare-scheduler/internal/db"
	"github.com/BruksfildServices01/petcare-scheduler/internal/geocoding"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/routes"
	"github.com/BruksfildServices01/petcare-scheduler/internal/storage"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timezone.SetDefault(cfg.DefaultTimezone)
	if err := validators.Register(); err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	var (
		store   cache.Store
		limiter cache.WindowCounter
	)
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb, "petcare")
		limiter = cache.NewRedisWindowCounter(rdb)
	} else {
		log.Warn("REDIS_URL not set, using in-process cache and rate limiter")
		mem := cache.NewMemory()
		go mem.RunSweeper(ctx, time.Minute)
		store, limiter = mem, mem
	}

	var objects storage.ObjectStore = storage.Disabled{}
	if cfg.StorageEnabled() {
		objects = storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	} else {
		log.Warn("S3_BUCKET not set, image uploads are disabled")
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", health(db))

	geo := geocoding.NewClient(geocoding.Config{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		CacheTTL:  cfg.GeocoderCacheTTL,
	}, store, log)

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   log,
		Issuer:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Audit:    dispatcher,
		Store:    objects,
		Geocoder: geo,
		Limiter:  limiter,
		Cache:    store,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
