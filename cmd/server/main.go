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

	"github.com/kumarpraveer143/easyrent-sub000/internal/cache"
	"github.com/kumarpraveer143/easyrent-sub000/internal/config"
	"github.com/kumarpraveer143/easyrent-sub000/internal/handler"
	"github.com/kumarpraveer143/easyrent-sub000/internal/hub"
	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
	"github.com/kumarpraveer143/easyrent-sub000/internal/presence"
	"github.com/kumarpraveer143/easyrent-sub000/internal/service"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()

	db, err := store.Open(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	messageStore := store.NewMessageStore(db)
	notificationStore := store.NewNotificationStore(db)

	var historyCache cache.HistoryCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisHistoryCache(cfg.Redis, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		historyCache = redisCache
		logger.Info().Str("address", cfg.Redis.Address).Msg("history cache enabled")
	}

	dir := presence.NewDirectory()

	wsHub := hub.NewHub()
	go wsHub.Run()

	historySvc := service.NewChatHistoryService(messageStore, historyCache, cfg.Cache.TTL)
	realtimeSvc := service.NewRealtimeService(wsHub, dir, messageStore, historySvc)
	notificationSvc := service.NewNotificationService(notificationStore, realtimeSvc)

	wsHandler := handler.NewWSHandler(wsHub, realtimeSvc, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(historySvc, notificationSvc, cfg.Auth.JWTSecret)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(logger))

	httpHandler.RegisterRoutes(router)
	router.GET("/ws", func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("easyrent realtime server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
