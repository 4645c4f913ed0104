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

	"devconnector-api/config"
	_ "devconnector-api/docs" // Important for Swagger
	v1 "devconnector-api/internal/delivery/http/v1"
	"devconnector-api/internal/domain"
	"devconnector-api/internal/event"
	"devconnector-api/internal/repository/cache"
	"devconnector-api/internal/repository/postgres"
	"devconnector-api/internal/usecase"
	"devconnector-api/pkg/auth"
	"devconnector-api/pkg/database"
	"devconnector-api/pkg/logger"
	redisclient "devconnector-api/pkg/redis"
	"devconnector-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title           DevConnector Profile API
// @version         1.0
// @description     Developer profiles with a newest-first experience list.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting profile API", "port", cfg.Port)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// 3. Setup Database
	if cfg.DBAutoMigrate {
		if err := database.Migrate(cfg.DBUrl); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Database migrations applied")
	}

	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisclient.NewClient(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, profile cache disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Kafka producer (optional)
	publisher := event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	profileCache := cache.NewProfileCache(redisClient, cfg.ProfileCacheTTL)

	// 7. Setup UseCases
	checker := validation.NewChecker(validation.New())
	authUC := usecase.NewAuthUsecase(userRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, userRepo, checker,
		usecase.WithProfileCache(profileCache),
		usecase.WithEventPublisher(publisher),
	)

	healthDeps := map[string]usecase.Pinger{"database": dbPool}
	if redisClient != nil {
		healthDeps["redis"] = usecase.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthUC := usecase.NewHealthUsecase(healthDeps)

	// 8. Setup token verification
	var jwksProvider *auth.Provider
	if cfg.JWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSURL)
	}
	var resolver domain.IdentityResolver = auth.NewTokenResolver(cfg.JWTSecret, jwksProvider)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:    authUC,
		ProfileUC: profileUC,
		HealthUC:  healthUC,
		Resolver:  resolver,
		Config:    cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
