package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/queue"
	"github.com/helpapp/marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	Create(ctx context.Context, identity *model.Identity, req model.CreateReviewRequest) (*model.Review, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	bookings  repository.BookingRepository
	publisher queue.Publisher
	logger    *zap.Logger
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository, publisher queue.Publisher, logger *zap.Logger) ReviewService {
	return &reviewService{reviews: reviews, bookings: bookings, publisher: publisher, logger: logger}
}

// Create records the client's review of one of their completed bookings.
// Checks run in order and the first failing one decides the error.
func (s *reviewService) Create(ctx context.Context, identity *model.Identity, req model.CreateReviewRequest) (*model.Review, error) {
	if identity.Role != model.RoleClient {
		return nil, apperr.Forbidden("only clients can create reviews")
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if booking.ClientID != identity.ID {
		return nil, apperr.Forbidden("not authorized to review this booking")
	}
	if booking.Status != model.BookingCompleted {
		return nil, apperr.Conflict("can only review completed bookings")
	}

	existing, err := s.reviews.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("booking already reviewed")
	}

	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	now := time.Now().UTC()
	review := &model.Review{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		UserID:    identity.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		// lost a race with a concurrent review of the same booking
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create review in repo: %w", err)
	}

	publish(ctx, s.publisher, s.logger, queue.NewReviewEvent(booking, review))
	return review, nil
}
