package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/apuntestech/apuntes/internal/gateway"
	"github.com/apuntestech/apuntes/internal/gateway/middleware"
	"github.com/apuntestech/apuntes/internal/modules/filestorage"
	"github.com/apuntestech/apuntes/internal/modules/notes"
	"github.com/apuntestech/apuntes/internal/shared/infrastructure/config"
	"github.com/apuntestech/apuntes/internal/shared/infrastructure/database"
	"github.com/apuntestech/apuntes/internal/shared/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	log := logger.New(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileModule, err := filestorage.NewModule(ctx, cfg.FileStorage, log)
	if err != nil {
		log.Error("failed to initialize file storage", "error", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedis(cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info("redis connected, upload lock enabled", "host", cfg.Redis.Host)
	}

	notesModule, err := notes.NewModule(cfg.Notes, fileModule.Service(), redisClient, cfg.FileStorage.DownloadURLExpiry, log)
	if err != nil {
		log.Error("failed to initialize notes", "error", err)
		os.Exit(1)
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}

	handler := gateway.NewHandler(gateway.RouterConfig{
		NoteHandler:    notesModule.HTTPHandler(),
		FilesHandler:   fileModule.FilesHandler(),
		RateLimiter:    limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	server := gateway.NewServer(cfg.Server.Port, handler, log)
	if err := server.Start(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
