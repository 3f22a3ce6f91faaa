package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/auth"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogCache is the read-through cache in front of the service list.
type CatalogCache interface {
	Get(ctx context.Context) ([]model.Service, bool, error)
	Set(ctx context.Context, services []model.Service) error
	Invalidate(ctx context.Context) error
}

// CatalogService manages the service catalog
type CatalogService interface {
	List(ctx context.Context) ([]model.Service, error)
	Create(ctx context.Context, identity *model.Identity, req model.CreateServiceRequest) (*model.Service, error)
}

type catalogService struct {
	repo   repository.ServiceRepository
	cache  CatalogCache
	logger *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, cache CatalogCache, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, cache: cache, logger: logger}
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	services, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	if ok {
		return services, nil
	}

	services, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if err := s.cache.Set(ctx, services); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return services, nil
}

func (s *catalogService) Create(ctx context.Context, identity *model.Identity, req model.CreateServiceRequest) (*model.Service, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.BasePrice <= 0 {
		return nil, apperr.Validation("base price must be positive")
	}

	now := time.Now().UTC()
	svc := &model.Service{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		BasePrice:   req.BasePrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service in repo: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.String("service_id", svc.ID), zap.Error(err))
	}
	return svc, nil
}
