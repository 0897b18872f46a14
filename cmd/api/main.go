package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/enchanted-tales/backend/handlers"
	"github.com/enchanted-tales/backend/internal/config"
	"github.com/enchanted-tales/backend/internal/database"
	"github.com/enchanted-tales/backend/internal/storage"
	storyhandler "github.com/enchanted-tales/backend/internal/story/handler"
	"github.com/enchanted-tales/backend/internal/story/repository"
	"github.com/enchanted-tales/backend/internal/story/service"
	"github.com/enchanted-tales/backend/internal/upload"
	"github.com/enchanted-tales/backend/pkg/logger"
	"github.com/enchanted-tales/backend/pkg/metrics"
	"github.com/enchanted-tales/backend/pkg/middleware"
)

func main() {
	// logging level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v environment=%s", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Server.Environment)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS for the frontend SPA: allow the configured origin and answer preflights.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORS.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Retry/backoff when connecting to MongoDB to tolerate startup races
	ctx := context.Background()
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	storiesCol := client.Database(cfg.MongoDB.Database).Collection("stories")
	repo := repository.NewMongoRepo(storiesCol)
	storySvc := service.New(repo)

	// Optional object storage for archiving original uploaded files
	var archive *storage.MinIOStorage
	if minioCfg := storage.LoadMinIOConfig(); minioCfg.Endpoint != "" {
		archive, err = storage.NewMinIOStorage(minioCfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage, uploads will not be archived: %v", err)
			archive = nil
		} else {
			logger.Infof("MinIO archive storage ready (bucket=%s)", minioCfg.Bucket)
		}
	}
	uploadSvc := upload.NewService(storySvc, archive, cfg.Upload.MaxFileBytes)

	storyhandler.RegisterStoryRoutes(r, storySvc)
	upload.RegisterUploadRoutes(r, uploadSvc, storySvc)
	handlers.RegisterSwagger(r)
	handlers.RegisterHealth(r, handlers.HealthDeps{
		Mongo:         client,
		MongoDatabase: cfg.MongoDB.Database,
		Redis:         redisClient,
		Environment:   cfg.Server.Environment,
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting story service on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
