package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helpapp/marketplace/internal/auth"
	"github.com/helpapp/marketplace/internal/cache"
	"github.com/helpapp/marketplace/internal/config"
	"github.com/helpapp/marketplace/internal/handler"
	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/queue"
	"github.com/helpapp/marketplace/internal/repository"
	"github.com/helpapp/marketplace/internal/repository/memory"
	"github.com/helpapp/marketplace/internal/router"
	"github.com/helpapp/marketplace/internal/service"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Storage ---
	ctx := context.Background()
	repos, store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	// --- Optional infrastructure ---
	rdb := config.NewRedisClient(cfg, logger)
	var catalogCache service.CatalogCache = cache.Disabled{}
	var scripter redis.Scripter
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		catalogCache = cache.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
		scripter = rdb
	}

	var publisher queue.Publisher = queue.NoopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = queue.NewAMQPPublisher(cfg.AMQPURL)
		logger.Info("publishing domain events to RabbitMQ")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecretKey, cfg.TokenTTL)

	// --- Initialize Services ---
	authService := service.NewAuthService(repos.Users, jwtUtil, cfg.InitialAdminEmail, logger)
	catalogService := service.NewCatalogService(repos.Services, catalogCache, logger)
	bookingService := service.NewBookingService(repos.Bookings, repos.Services, publisher, logger)
	reviewService := service.NewReviewService(repos.Reviews, repos.Bookings, publisher, logger)

	// --- Setup Gin Router ---
	engine := router.New(router.Deps{
		Auth:           authService,
		Catalog:        catalogService,
		Bookings:       bookingService,
		Reviews:        reviewService,
		Authenticator:  auth.NewAuthenticator(jwtUtil, repos.Users),
		Store:          store,
		RateLimit:      middleware.RateLimit(cfg.RateLimit, scripter, logger),
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         logger,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// openStorage returns the repositories for the configured driver, the
// health-check target and a cleanup func.
func openStorage(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (repository.Set, handler.Pinger, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return store.Set(), store, func() {}, nil
	}

	pool, err := config.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return repository.Set{}, nil, nil, err
	}
	if err := config.AutoMigrate(ctx, pool, logger); err != nil {
		pool.Close()
		return repository.Set{}, nil, nil, err
	}
	return repository.NewSet(pool), pool, pool.Close, nil
}
