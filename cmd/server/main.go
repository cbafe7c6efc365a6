package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"atontiles/internal/aton"
	"atontiles/internal/blank_index"
	"atontiles/internal/config"
	httphandlers "atontiles/internal/http"
	"atontiles/internal/logger"
	"atontiles/internal/tile_renderer"
	"atontiles/internal/tile_service"
	"atontiles/internal/tile_store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting AtoN tile server",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.StoreType),
		zap.Duration("tile_ttl", cfg.TileTTL),
		zap.Duration("blank_index_ttl", cfg.BlankIndexTTL),
	)

	store, err := tile_store.NewStore(cfg.StoreType, cfg.StoreRoot, tile_store.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.TileTTL, log)
	if err != nil {
		log.Fatal("Failed to initialize tile store", zap.Error(err))
	}

	source, err := aton.NewFileSource(cfg.SourceFile)
	if err != nil {
		log.Fatal("Failed to load AtoN source", zap.Error(err))
	}
	log.Info("Loaded AtoN markers", zap.Int("count", source.Len()))

	blanks := blank_index.New(cfg.BlankIndexTTL)
	renderer := tile_renderer.New()
	tiles := tile_service.New(source, store, blanks, renderer, cfg.TileTTL, log)

	handlers := httphandlers.New(cfg, log, tiles)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
