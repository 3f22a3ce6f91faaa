package repository

import (
	"context"
	"fmt"

	"github.com/helpapp/marketplace/internal/model"
)

// ServiceRepository defines operations for the service catalog
type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
}

type serviceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) error {
	sql := `INSERT INTO services (id, name, description, category, base_price, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, s.ID, s.Name, s.Description, s.Category, int64(s.BasePrice), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	s := &model.Service{}
	sql := `SELECT id, name, description, category, base_price, created_at, updated_at FROM services WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.BasePrice, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find service by ID: %w", err)
	}
	return s, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	sql := `SELECT id, name, description, category, base_price, created_at, updated_at FROM services ORDER BY name`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []model.Service{}
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.BasePrice, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}
		services = append(services, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}
