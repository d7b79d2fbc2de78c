// Package bootstrap establishes runtime dependencies before the server
// starts taking traffic.
package bootstrap

import (
	"context"
	"fmt"

	"verdant/internal/cache"
	"verdant/internal/config"
	"verdant/internal/database"
	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Runtime holds the shared infrastructure handles the server is built on.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects the database and Redis. Redis being down is not
// fatal; the cache and live updates degrade while the site keeps serving.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		middleware.Logger.Warn("redis unavailable, running without cache or live updates")
	}

	return &Runtime{DB: db, Redis: rdb}, nil
}

// EnsureDevOperator creates the development operator account when one is
// configured and missing. Production never configures these values.
func EnsureDevOperator(ctx context.Context, cfg *config.Config, operators repository.OperatorRepository) error {
	if cfg.DevOperatorEmail == "" || cfg.DevOperatorPassword == "" {
		return nil
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		return fmt.Errorf("dev operator bootstrap is not allowed in production")
	}

	existing, err := operators.GetByEmail(ctx, cfg.DevOperatorEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevOperatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := operators.Create(ctx, &models.Operator{
		Email:    cfg.DevOperatorEmail,
		Password: string(hash),
	}); err != nil {
		return err
	}

	middleware.Logger.Info("created development operator", "email", cfg.DevOperatorEmail)
	return nil
}
