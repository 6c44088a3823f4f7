package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"subtrack/internal/config"
	"subtrack/internal/db"
	apihttp "subtrack/internal/http"
	"subtrack/internal/repository"
	"subtrack/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	keyPEMs, err := cfg.TrustedKeyPEMs()
	if err != nil {
		logger.Fatal("trusted keys", zap.Error(err))
	}
	verifier, err := service.NewTokenVerifier(keyPEMs, cfg.Algorithms(), cfg.AuthIssuer)
	if err != nil {
		logger.Fatal("token verifier", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	subRepo := repository.NewPgSubscriptionRepository(pool)
	credRepo := repository.NewPgGmailCredentialsRepository(pool)

	limiterWindow := time.Duration(cfg.AuthRateLimitWindow) * time.Second
	limiter := service.NewAuthRateLimiter(limiterWindow, cfg.AuthRateLimitMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisAuthRateLimiter(redisClient, limiterWindow, cfg.AuthRateLimitMax)
		}
		cancel()
	}

	identitySvc := service.NewIdentityService(logger, userRepo, credRepo)
	subSvc := service.NewSubscriptionService(subRepo)

	authHandler := apihttp.NewAuthHandler(logger, identitySvc, limiter)
	subHandler := apihttp.NewSubscriptionHandler(logger, subSvc)
	router := apihttp.NewRouter(logger, verifier, authHandler, subHandler, cfg.Origins())

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
