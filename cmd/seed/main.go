// Command seed loads an admin, a sample client and provider, and two catalog
// services into the configured database. Running it twice is harmless.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/helpapp/marketplace/internal/config"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedUser struct {
	email, password, first, last string
	role                         model.Role
	admin                        bool
}

var seedUsers = []seedUser{
	{email: "adminuser@help-app.com", password: "admin123", first: "Admin", last: "User", role: model.RoleClient, admin: true},
	{email: "client@example.com", password: "client123", first: "John", last: "Client", role: model.RoleClient},
	{email: "provider@example.com", password: "provider123", first: "Jane", last: "Provider", role: model.RoleProvider},
}

var seedServices = []model.Service{
	{Name: "House Cleaning", Description: "Professional house cleaning service", Category: "Cleaning", BasePrice: 5000},
	{Name: "Plumbing Repair", Description: "Emergency and routine plumbing services", Category: "Plumbing", BasePrice: 7500},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := config.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := config.AutoMigrate(ctx, pool, logger); err != nil {
		logger.Fatal("Failed to auto-migrate database", zap.Error(err))
	}
	if err := seed(ctx, repository.NewSet(pool), logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Database seeded successfully")
}

func seed(ctx context.Context, repos repository.Set, logger *zap.Logger) error {
	now := time.Now().UTC()
	for _, su := range seedUsers {
		existing, err := repos.Users.FindByEmail(ctx, su.email)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", su.email, err)
		}
		if existing != nil {
			logger.Info("user already present", zap.String("email", su.email))
			continue
		}
		hash, err := utils.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.email, err)
		}
		err = repos.Users.Create(ctx, &model.User{
			ID:           uuid.NewString(),
			Email:        su.email,
			PasswordHash: hash,
			Role:         su.role,
			IsAdmin:      su.admin,
			FirstName:    su.first,
			LastName:     su.last,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", su.email, err)
		}
		logger.Info("user created", zap.String("email", su.email), zap.String("role", string(su.role)))
	}

	existing, err := repos.Services.List(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, s := range existing {
		present[s.Name] = true
	}
	for _, svc := range seedServices {
		if present[svc.Name] {
			continue
		}
		svc.ID = uuid.NewString()
		svc.CreatedAt, svc.UpdatedAt = now, now
		if err := repos.Services.Create(ctx, &svc); err != nil {
			return fmt.Errorf("create service %s: %w", svc.Name, err)
		}
		logger.Info("service created", zap.String("name", svc.Name), zap.Stringer("base_price", svc.BasePrice))
	}
	return nil
}
