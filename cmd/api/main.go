package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"piq/internal/config"
	"piq/internal/database"
	"piq/internal/logging"
	"piq/internal/pkg/validator"
	"piq/internal/repository"
	"piq/internal/server"
	"piq/internal/storage"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if config.IsProdLike(cfg.App.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(cfg.App.Env, cfg.App.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.App.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(ctx, db, repository.Models()...); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	rdb, err := repository.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DialTimeout)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()
	tokens := repository.NewRefreshTokenStore(rdb, cfg.Auth.RefreshTTL)

	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	validator.RegisterGin()

	srv := server.New(server.Deps{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Tokens:   tokens,
		Uploader: uploader,
	})
	srv.Auth.BootstrapAdmin(ctx, cfg.Admin.Enabled, cfg.Admin.Email, cfg.Admin.Password)

	httpServer := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: srv.Engine,
	}

	go func() {
		logger.Info(ctx, "server listening", "addr", httpServer.Addr, "env", cfg.App.Env, "storage", cfg.Storage.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
}
