package main

import (
	"log/slog"
	"os"

	"chat-hub/internal/api"
	"chat-hub/internal/audit"
	"chat-hub/internal/config"
	"chat-hub/internal/middleware"
	"chat-hub/internal/registry"
	"chat-hub/internal/router"
	"chat-hub/internal/storage"
	"chat-hub/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := storage.Connect(cfg.DBPath)
	if err != nil {
		logger.Error("storage failed", "err", err)
		os.Exit(1)
	}

	users := registry.NewUsers()
	groups := registry.NewGroups()
	hub := websocket.NewHub(logger)
	rt := router.New(users, groups, hub, audit.NewService(db), logger)

	wh := api.NewWebSocketHandler(hub, rt, users, groups, logger)
	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitPerSecond,
		BurstSize:         cfg.RateLimitBurst,
		CleanupInterval:   cfg.RateLimitCleanup,
	})

	logger.Info("listening", "addr", cfg.Addr())
	if err := api.Serve(cfg.Addr(), api.NewRouter(wh, limiter)); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
