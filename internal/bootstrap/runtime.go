// Package bootstrap wires the process-level dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/observability"
	"devconnector/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo data.
	// Zero counts in Seed fall back to the seed package defaults.
	SeedDemo bool
	Seed     seed.Options
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The Redis client is nil when REDIS_URL is unset or unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = cache.Connect(cfg.RedisURL)
		if rdb == nil {
			observability.Logger.Warn("redis unavailable, caching and route rate limits disabled")
		}
	}

	if opts.SeedDemo {
		if err := seedIfEmpty(ctx, cfg, db, cache.New(rdb), opts.Seed); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}

func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB, c *cache.Cache, opts seed.Options) error {
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed a production database")
	}

	var users int64
	if err := db.WithContext(ctx).Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		observability.Logger.Info("database already populated, skipping demo seed", "users", users)
		return nil
	}

	if opts.NumUsers <= 0 {
		opts.NumUsers = seed.DefaultNumUsers
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = seed.DefaultNumPosts
	}

	sum, err := seed.NewSeeder(db, c, auth.FromConfig(cfg), opts).Run(ctx, opts)
	if err != nil {
		return err
	}
	observability.Logger.Info("demo data seeded", "users", sum.Users, "posts", sum.Posts)
	return nil
}
