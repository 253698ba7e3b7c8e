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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"homematch/landlord-portal/landlord-portal-backend/internal/admin"
	"homematch/landlord-portal/landlord-portal-backend/internal/auth"
	"homematch/landlord-portal/landlord-portal-backend/internal/cache"
	"homematch/landlord-portal/landlord-portal-backend/internal/config"
	"homematch/landlord-portal/landlord-portal-backend/internal/draft"
	"homematch/landlord-portal/landlord-portal-backend/internal/listings"
	"homematch/landlord-portal/landlord-portal-backend/internal/notifications"
	"homematch/landlord-portal/landlord-portal-backend/internal/profile"
	"homematch/landlord-portal/landlord-portal-backend/internal/statussync"
	"homematch/landlord-portal/landlord-portal-backend/internal/verification"
	"homematch/landlord-portal/landlord-portal-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// GORM over the same connection pool for the read models
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to initialize gorm", zap.Error(err))
	}

	// Redis for drafts and last-observed statuses
	ctx := context.Background()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Evidence object store
	var s3Client storage.S3Client
	if cfg.Storage.UseMock {
		logger.Warn("Using in-memory object store, uploads will not persist")
		s3Client = storage.NewMockS3Client()
	} else {
		s3Client, err = storage.NewS3Client(ctx, cfg.Storage.Region)
		if err != nil {
			logger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
	}

	// Wire modules
	verificationRepo := verification.NewRepository(db)
	draftStore := draft.NewRedisStore(redisClient, cfg.Redis.DraftTTL)
	storageProvider := verification.NewStorageProvider(s3Client, cfg.Storage.EvidenceBucket)

	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo)

	verificationService := verification.NewService(verificationRepo, draftStore, storageProvider, profileService, logger)

	notificationService, err := notifications.NewService(gormDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", zap.Error(err))
	}

	observationStore := statussync.NewRedisObservationStore(redisClient)
	synchronizer := statussync.NewSynchronizer(
		func(ctx context.Context, landlordID string) (string, string, error) {
			id, err := uuid.Parse(landlordID)
			if err != nil {
				return "", "", err
			}
			result, err := verificationService.Status(ctx, id)
			if err != nil {
				return "", "", err
			}
			return string(result.Status), result.Note, nil
		},
		observationStore,
		notificationService,
		logger,
	)

	listingsService, err := listings.NewService(gormDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize listings", zap.Error(err))
	}

	adminService := admin.NewService(verificationRepo, listingsService, logger)

	verificationHandler := verification.NewHandler(verificationService, synchronizer)
	adminHandler := admin.NewHandler(adminService)
	profileHandler := profile.NewHandler(profileService)

	// Hourly inventory rollup for the review screens
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if err := listingsService.RefreshSummaries(context.Background()); err != nil {
			logger.Error("inventory summary refresh failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("Failed to schedule inventory refresh", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	authMiddleware := auth.NewMiddleware(cfg.Security.JWTSecret)

	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	{
		landlord := api.Group("")
		landlord.Use(authMiddleware.RequireRole(auth.RoleLandlord))
		{
			verificationHandler.RegisterRoutes(landlord)
			profileHandler.RegisterRoutes(landlord)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware.RequireRole(auth.RoleAdmin))
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := cache.Health(c.Request.Context(), redisClient); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
