package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/container"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// seed registers a demo user through the same lifecycle service the API uses.
// Running it twice is harmless.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	if cfg.StorageDriver == "memory" {
		container.SetUserRepo(memory.NewUserRepository())
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pool.Close()
		container.SetUserRepo(pginfra.NewUserRepository(pool))
	}

	// with Redis the save goes through the cache so a running API sees the new user
	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable; cached listings expire with their TTL")
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
		}
	}

	svc := container.NewUserService()
	u, err := svc.Create(ctx, entity.User{
		Name:     "Demo User",
		Email:    "demo@nisum.cl",
		Password: "Demo1234",
		Phones:   []entity.Phone{{Number: "1234567", CityCode: "1", CountryCode: "57"}},
	})
	switch {
	case errors.Is(err, application.ErrEmailAlreadyRegistered):
		logger.Info("demo user already registered")
	case err != nil:
		return fmt.Errorf("failed to seed user: %w", err)
	default:
		logger.WithField("user_id", u.ID.String()).WithField("email", u.Email).Info("seeded demo user (password Demo1234)")
	}
	return nil
}
