package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/config"
	"github.com/iliyamo/tenant-notes/internal/handler"
	"github.com/iliyamo/tenant-notes/internal/logging"
	"github.com/iliyamo/tenant-notes/internal/middleware"
	"github.com/iliyamo/tenant-notes/internal/queue"
	"github.com/iliyamo/tenant-notes/internal/repository"
	"github.com/iliyamo/tenant-notes/internal/router"
	"github.com/iliyamo/tenant-notes/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedUsers, err := repository.SeedUsers(cfg.SeedPassword, cfg.BcryptCost)
	if err != nil {
		logger.Fatal("seed users", zap.Error(err))
	}
	users := repository.NewUserRepo(seedUsers)
	tenants := repository.NewTenantRepo(repository.SeedTenants())
	notes := repository.NewNoteRepo(tenants)

	cache := middleware.NewTenantCache(cfg.Cache, nil)
	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
			defer func() { _ = rdb.Close() }()
			cache = middleware.NewTenantCache(cfg.Cache, rdb)
			logger.Info("response cache enabled", zap.String("redis", cfg.Redis.Addr))
		} else {
			logger.Warn("redis unreachable, response cache disabled", zap.String("redis", cfg.Redis.Addr))
		}
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		events = service.NewAMQPPublisher(cfg.RabbitMQURL)
		go func() {
			if err := queue.StartAuditConsumer(ctx, cfg.RabbitMQURL, cfg.AuditLogDir, logger.Named("audit")); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Auth:      handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTL, logger),
		Tenants:   handler.NewTenantHandler(tenants, cache, events, logger),
		Notes:     handler.NewNoteHandler(notes, cache, events, logger),
		Cache:     cache,
		Log:       logger,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
