package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crew-directory.backend/internal/config"
	"crew-directory.backend/internal/infrastructure/cache"
	"crew-directory.backend/internal/infrastructure/jobs"
	"crew-directory.backend/internal/infrastructure/repositories"
	"crew-directory.backend/internal/infrastructure/storage"
	"crew-directory.backend/internal/interfaces/http/handlers"
	"crew-directory.backend/internal/interfaces/http/middleware"
	"crew-directory.backend/internal/usecases"
	"crew-directory.backend/pkg/jwt"
	"crew-directory.backend/pkg/logger"
	"crew-directory.backend/pkg/redis"
)

// blobBackend is the asset store shared by the profile and news usecases
type blobBackend interface {
	usecases.BlobStorage
	usecases.AssetURLBuilder
	Close() error
}

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newBlobStore = func(ctx context.Context, cfg config.StorageConfig) (blobBackend, error) {
		return storage.NewBlobStore(ctx, cfg)
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL via GORM")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	defer blobs.Close()
	limits := storage.Limits{
		MaxPhotoBytes:    cfg.Storage.MaxPhotoBytes,
		MaxDocumentBytes: cfg.Storage.MaxDocumentBytes,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var cacheClient goredis.Cmdable
	if c := redis.GetClient(); c != nil {
		cacheClient = c
	}
	queryCache := cache.NewQueryCache(cacheClient, registry)

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	freelancerSource := repositories.NewFreelancerSource(db)
	freelancerWriter := repositories.NewFreelancerWriter(db)
	newsRepo := repositories.NewNewsRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Usecases
	resolver := usecases.NewFreelancerResolver(freelancerSource, freelancerWriter, queryCache, blobs, cfg.Cache.TTL)
	profileUsecase := usecases.NewProfileUsecase(userRepo, freelancerWriter, uow, resolver, blobs, limits)
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, redis.NewTokenDenylist())
	newsUsecase := usecases.NewNewsUsecase(newsRepo, queryCache, blobs, blobs, limits, cfg.Cache.TTL)
	submissionUsecase := usecases.NewSubmissionUsecase(submissionRepo)

	// Handlers
	freelancerHandler := handlers.NewFreelancerHandler(resolver)
	profileHandler := handlers.NewProfileHandler(profileUsecase, limits)
	authHandler := handlers.NewAuthHandler(authUsecase, handlers.CookieSettings{
		Secure:        cfg.Server.CookieSecure,
		AccessMaxAge:  cfg.JWT.AccessExpiry,
		RefreshMaxAge: cfg.JWT.RefreshExpiry,
	})
	newsHandler := handlers.NewNewsHandler(newsUsecase, cfg.Storage.MaxDocumentBytes)
	submissionHandler := handlers.NewSubmissionHandler(submissionUsecase)
	adminHandler := handlers.NewAdminHandler(resolver)

	// Background jobs
	warmupJob := jobs.NewCacheWarmupJob(resolver, cfg.Cache.WarmSchedule)
	if err := warmupJob.Start(ctx); err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(registry))

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		freelancerHandler: freelancerHandler,
		profileHandler:    profileHandler,
		authHandler:       authHandler,
		newsHandler:       newsHandler,
		submissionHandler: submissionHandler,
		adminHandler:      adminHandler,
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(context.Background(), "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(context.Background(), "Shutting down server")
			warmupJob.Stop()
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info(context.Background(), "Crew directory backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
