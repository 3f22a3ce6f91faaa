package repository

import (
	"context"
	"fmt"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
)

// ReviewRepository defines operations for review data
type ReviewRepository interface {
	// Create inserts a review. A second review for the same booking is a Conflict.
	Create(ctx context.Context, rv *model.Review) error
	FindByBookingID(ctx context.Context, bookingID string) (*model.Review, error)
}

type reviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	sql := `INSERT INTO reviews (id, booking_id, user_id, rating, comment, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, rv.ID, rv.BookingID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("booking already reviewed")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Review, error) {
	rv := &model.Review{}
	sql := `SELECT id, booking_id, user_id, rating, comment, created_at, updated_at FROM reviews WHERE booking_id = $1`
	err := r.db.QueryRow(ctx, sql, bookingID).Scan(&rv.ID, &rv.BookingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if isNoMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review by booking ID: %w", err)
	}
	return rv, nil
}
