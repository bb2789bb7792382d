package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"devconnect/internal/cache"
	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis, ensures a bootstrap admin exists,
// and optionally seeds demo data for local development.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureBootstrapAdmin(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	if opts.SeedDemoData {
		if err := seed.NewSeeder(db).Run(20, 60); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureBootstrapAdmin creates the first admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD when no admin exists yet. It never touches an existing
// admin, so rotating the env vars later has no effect on live accounts.
func ensureBootstrapAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.AdminEmail))
	password := cfg.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	users := repository.NewUserRepository(db)
	hasAdmin, err := users.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("check for existing admin: %w", err)
	}
	if hasAdmin {
		return nil
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "admin"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Name:       name,
		Email:      email,
		Password:   string(hashedPassword),
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	log.Printf("bootstrap admin created (%s)", email)
	return nil
}
