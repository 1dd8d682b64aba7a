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

	"github.com/byteedoc/portfolio-api/handlers"
	"github.com/byteedoc/portfolio-api/internal/admins"
	"github.com/byteedoc/portfolio-api/internal/config"
	"github.com/byteedoc/portfolio-api/internal/database"
	"github.com/byteedoc/portfolio-api/internal/sessions"
	"github.com/byteedoc/portfolio-api/internal/storage"
	"github.com/byteedoc/portfolio-api/internal/store"
	"github.com/byteedoc/portfolio-api/internal/tokens"
	"github.com/byteedoc/portfolio-api/pkg/logger"
	"github.com/byteedoc/portfolio-api/pkg/metrics"
	"github.com/byteedoc/portfolio-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v keycloak=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Keycloak.URL != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// Production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Connect to Redis early so the rate limiter and token blacklist can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// The public contact form is throttled regardless of the global setting
	var contactLimit gin.HandlerFunc
	if cfg.RateLimit.UseRedis && redisClient != nil {
		win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		contactLimit = middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
	} else {
		contactLimit = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if mongoClient == nil {
			logger.Warnf("could not connect to MongoDB after %d attempts", maxAttempts)
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	// Document store: Mongo when connected, otherwise in-memory (dev fallback)
	var docs store.DocumentStore
	if mongoClient != nil {
		docs = store.NewMongoStore(mongoClient.Database(cfg.MongoDB.Database))
		logger.Infof("using MongoDB document store (db=%s)", cfg.MongoDB.Database)
	} else {
		docs = store.NewMemoryStore()
		logger.Warnf("using in-memory document store, data will not survive restarts")
	}

	// Blob store: MinIO when configured, otherwise in-memory (dev fallback)
	var blobs storage.BlobStore
	minioCfg := storage.LoadMinIOConfig()
	if minioCfg.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			logger.Fatalf("failed to initialize MinIO storage: %v", err)
		}
		blobs = ms
		logger.Infof("using MinIO blob storage (bucket=%s)", minioCfg.Bucket)
	} else {
		blobs = storage.NewMemoryStorage()
		logger.Warnf("MINIO_ENDPOINT not set, using in-memory blob storage")
	}

	// Sessions: Redis-backed when available, Mongo otherwise
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	} else if mongoClient != nil {
		col := mongoClient.Database(cfg.MongoDB.Database).Collection("sessions")
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(col))
	}

	// Admin accounts live in Mongo; seed the bootstrap account when empty
	var adminsSvc *admins.Service
	if mongoClient != nil {
		col := mongoClient.Database(cfg.MongoDB.Database).Collection("admins")
		adminsSvc = admins.NewService(admins.NewMongoRepository(col))
		if err := adminsSvc.Bootstrap(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
			logger.Warnf("admin bootstrap failed: %v", err)
		}
	}

	// Health and readiness
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"documents": docs != nil,
			"blobs":     blobs != nil,
			"sessions":  sessionsSvc != nil,
			"admins":    adminsSvc != nil,
		}
		if cfg.MongoDB.URI != "" && mongoClient == nil {
			deps["mongodb"] = false
			ready = false
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis && redisClient == nil {
			deps["redis"] = false
			ready = false
		}
		if minioCfg.Endpoint != "" {
			ok := true
			if hc, has := blobs.(interface{ Health(context.Context) error }); has {
				ok = hc.Health(c.Request.Context()) == nil
			}
			deps["minio"] = ok
			if !ok {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Public site endpoints and the admin editor
	contentHandler := handlers.NewContentHandler(docs, blobs)
	contentHandler.RegisterPublic(r.Group("/api"), contactLimit)

	adminGroup := r.Group("/api/admin")
	verifier := tokens.NewJWTVerifier(cfg.JWT.Secret)
	adminGroup.Use(middleware.AuthMiddleware(verifier))
	contentHandler.RegisterAdmin(adminGroup)

	// Auth endpoints need both the account and session services
	if adminsSvc != nil && sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, adminsSvc, sessionsSvc)
		h.Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered, admin/session services unavailable")
	}

	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting portfolio API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
