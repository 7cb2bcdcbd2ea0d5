package main

import (
	"context"
	"log"

	"qrdrop/config"
	"qrdrop/internal/handler"
	"qrdrop/internal/redis"
	"qrdrop/internal/server"
	"qrdrop/internal/services"
	"qrdrop/internal/storage"
	"qrdrop/internal/store"
	"qrdrop/internal/websocket"
	"qrdrop/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := storage.NewBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	sessions := store.NewSessionStore()
	uploadService := services.NewUploadService(sessions, backend, hub, l)
	retrievalService := services.NewRetrievalService(sessions, backend, l)

	var limiter *redis.RateLimiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
			UploadLimit:  cfg.UploadLimit,
			UploadWindow: cfg.UploadWindowDuration(),
		})
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.AppPort
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Upload:  handler.NewUploadHandler(uploadService, baseURL),
		Session: handler.NewSessionHandler(retrievalService),
		File:    handler.NewFileHandler(retrievalService),
		WS:      websocket.NewHandler(hub),
	}, backend, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
