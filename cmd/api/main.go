// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kalastra-backend/internal/common/aws"
	"kalastra-backend/internal/common/config"
	"kalastra-backend/internal/common/database"
	"kalastra-backend/internal/common/deepgram"
	"kalastra-backend/internal/common/gemini"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/common/observability"
	"kalastra-backend/internal/common/storage"
	"kalastra-backend/internal/pipelines/ailisting"
	"kalastra-backend/internal/pipelines/manuallisting"
	"kalastra-backend/internal/products"
	"kalastra-backend/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting kalastra api",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init MinIO ---
	var minioClient *storage.MinIOClient
	err = retryWithBackoff(func() error {
		var err error
		minioClient, err = storage.NewMinIO(cfg.Storage.MinIO)
		if err != nil {
			return err
		}
		return minioClient.EnsureBucket(ctx, cfg.Storage.MinIO.ImageBucket)
	}, 10, 2*time.Second, zapLog, "MinIO connection")
	if err != nil {
		zapLog.Fatal("minio failed after retries", zap.Error(err))
	}
	zapLog.Info("MinIO connected successfully")

	// --- Init AWS notification clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}

	// --- Init vendor adapters ---
	transcriber := deepgram.NewClient(cfg.Vendors.Deepgram, log)

	geminiClient, err := gemini.NewClient(ctx, cfg.Vendors.Gemini, log)
	if err != nil {
		zapLog.Fatal("gemini client init failed", zap.Error(err))
	}
	defer geminiClient.Close()

	var enricher gemini.Enricher = geminiClient
	if cfg.Vendors.Gemini.CacheTTL > 0 {
		enricher = gemini.NewCachedEnricher(geminiClient, redis.Client,
			time.Duration(cfg.Vendors.Gemini.CacheTTL)*time.Second, log)
	}

	// --- Product layer ---
	store := products.NewPostgresStore(pg.DB, log)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	searchIndex := products.NewSearchIndex(esClient.Client, cfg.Database.Elasticsearch.ProductIndex, log)
	imageStore := products.NewListingImageStore(minioClient, cfg.Storage.MinIO.ImageBucket)
	notifier := products.NewNotifier(pg.DB, &cfg.Notifications, sesClient, snsClient, log)

	// Mirror every created product into the search index, best-effort.
	creator := products.NewIndexedStore(store, searchIndex, log)

	// --- Pipelines ---
	aiCfg := ailisting.FromAppConfig(cfg)
	if err := aiCfg.Validate(); err != nil {
		zapLog.Fatal("invalid ai listing config", zap.Error(err))
	}
	aiService := ailisting.NewService(ailisting.ServiceDependencies{
		Transcriber: transcriber,
		Enricher:    enricher,
		Images:      imageStore,
		Logger:      log,
	}, aiCfg)
	aiHandler := ailisting.NewHandler(ailisting.HandlerOptions{
		Service:       aiService,
		Config:        aiCfg,
		Logger:        log,
		Observability: obs,
	})

	manualCfg := manuallisting.FromAppConfig(cfg)
	if err := manualCfg.Validate(); err != nil {
		zapLog.Fatal("invalid manual listing config", zap.Error(err))
	}
	manualService := manuallisting.NewService(manuallisting.ServiceDependencies{
		Enricher: enricher,
		Store:    creator,
		Notifier: notifier,
		Logger:   log,
	}, manualCfg)
	manualHandler := manuallisting.NewHandler(manuallisting.HandlerOptions{
		Service:       manualService,
		Config:        manualCfg,
		Logger:        log,
		Observability: obs,
	})

	productHandler := products.NewHandler(store, searchIndex, log)

	// --- HTTP server ---
	router := server.NewRouter(server.RouterOptions{
		Logger:        zapLog,
		AIListing:     aiHandler,
		ManualListing: manualHandler,
		Products:      productHandler,
		HealthCheckers: map[string]func() error{
			"postgres":      func() error { return pg.Ping(ctx) },
			"elasticsearch": esClient.Ping,
			"redis":         func() error { return redis.Ping(ctx) },
			"minio":         func() error { return minioClient.Ping(ctx) },
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, draining requests...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}
	zapLog.Info("shutdown complete")
}
