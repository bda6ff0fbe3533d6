package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"piq/internal/config"
	"piq/internal/database"
	"piq/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	db, err := database.Connect(cfg.App.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	rdb, err := repository.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DialTimeout)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	users := repository.NewUserRepository(db)
	tokens := repository.NewRefreshTokenStore(rdb, cfg.Auth.RefreshTTL)

	var scanned, removed int
	err = tokens.ScanEmails(ctx, 500, func(email string) error {
		scanned++
		u, err := users.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		case u.IsActive:
			return nil
		}
		if err := tokens.Delete(ctx, email); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		log.Fatalf("cleanup refresh tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: scanned=%d removed=%d", scanned, removed)
}
