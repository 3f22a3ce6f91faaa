package service

import (
	"context"
	"fmt"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/queue"
	"github.com/helpapp/marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService drives a booking from PENDING through a provider decision
// to completion.
type BookingService interface {
	Create(ctx context.Context, identity *model.Identity, req model.CreateBookingRequest) (*model.BookingDetails, error)
	List(ctx context.Context, identity *model.Identity) ([]model.BookingDetails, error)
	Decide(ctx context.Context, identity *model.Identity, bookingID string, status model.BookingStatus) (*model.BookingDetails, error)
	Complete(ctx context.Context, identity *model.Identity, bookingID string) (*model.BookingDetails, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	services  repository.ServiceRepository
	publisher queue.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewBookingService(bookings repository.BookingRepository, services repository.ServiceRepository, publisher queue.Publisher, logger *zap.Logger) BookingService {
	return &bookingService{
		bookings:  bookings,
		services:  services,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, identity *model.Identity, req model.CreateBookingRequest) (*model.BookingDetails, error) {
	if identity.Role != model.RoleClient {
		return nil, apperr.Forbidden("only clients can create bookings")
	}

	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil {
		return nil, apperr.NotFound("service not found")
	}

	now := s.now()
	booking := &model.Booking{
		ID:          uuid.NewString(),
		ClientID:    identity.ID,
		ServiceID:   svc.ID,
		Status:      model.BookingPending,
		ScheduledAt: req.ScheduledAt.UTC(),
		Notes:       req.Notes,
		TotalAmount: svc.BasePrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking in repo: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("client_id", booking.ClientID),
		zap.Stringer("total_amount", booking.TotalAmount))
	publish(ctx, s.publisher, s.logger, queue.NewBookingEvent(queue.BookingCreated, booking))
	return &model.BookingDetails{Booking: *booking, Service: svc}, nil
}

// List returns the bookings visible to the caller: clients see the ones they
// made, providers see the ones they decided. Newest first.
func (s *bookingService) List(ctx context.Context, identity *model.Identity) ([]model.BookingDetails, error) {
	var (
		bookings []model.BookingDetails
		err      error
	)
	switch identity.Role {
	case model.RoleClient:
		bookings, err = s.bookings.ListByClient(ctx, identity.ID)
	case model.RoleProvider:
		bookings, err = s.bookings.ListByProvider(ctx, identity.ID)
	default:
		return nil, apperr.Forbidden("unknown role")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Decide accepts or rejects a pending booking. The first provider to decide
// claims the booking; the claim is a single conditional update, so of two
// concurrent decisions exactly one succeeds.
func (s *bookingService) Decide(ctx context.Context, identity *model.Identity, bookingID string, status model.BookingStatus) (*model.BookingDetails, error) {
	if identity.Role != model.RoleProvider {
		return nil, apperr.Forbidden("only providers can update bookings")
	}
	if !status.IsDecision() {
		return nil, apperr.Validation("status must be ACCEPTED or REJECTED")
	}

	booking, err := s.bookings.ClaimDecision(ctx, bookingID, identity.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to decide booking: %w", err)
	}
	if booking == nil {
		return nil, s.explainRejectedDecision(ctx, bookingID, identity.ID)
	}

	s.logger.Info("booking decided",
		zap.String("booking_id", booking.ID),
		zap.String("provider_id", identity.ID),
		zap.String("status", string(booking.Status)))
	publish(ctx, s.publisher, s.logger, queue.NewBookingEvent(queue.BookingDecided, booking))
	return s.details(ctx, booking), nil
}

func (s *bookingService) explainRejectedDecision(ctx context.Context, bookingID, providerID string) error {
	current, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	switch {
	case current == nil:
		return apperr.NotFound("booking not found")
	case current.ProviderID != nil && *current.ProviderID != providerID:
		return apperr.Forbidden("not authorized to update this booking")
	default:
		return apperr.Conflict("booking is no longer pending")
	}
}

// Complete marks an accepted booking as done. Only the provider who accepted
// it may do so.
func (s *bookingService) Complete(ctx context.Context, identity *model.Identity, bookingID string) (*model.BookingDetails, error) {
	if identity.Role != model.RoleProvider {
		return nil, apperr.Forbidden("only providers can update bookings")
	}

	booking, err := s.bookings.MarkCompleted(ctx, bookingID, identity.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to complete booking: %w", err)
	}
	if booking == nil {
		current, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to load booking: %w", err)
		}
		switch {
		case current == nil:
			return nil, apperr.NotFound("booking not found")
		case current.ProviderID == nil || *current.ProviderID != identity.ID:
			return nil, apperr.Forbidden("not authorized to update this booking")
		default:
			return nil, apperr.Conflict("only accepted bookings can be completed")
		}
	}

	s.logger.Info("booking completed", zap.String("booking_id", booking.ID))
	publish(ctx, s.publisher, s.logger, queue.NewBookingEvent(queue.BookingCompleted, booking))
	return s.details(ctx, booking), nil
}

// details loads the joined view of a booking that was just written. The write
// already happened, so a failed lookup degrades to the bare booking.
func (s *bookingService) details(ctx context.Context, b *model.Booking) *model.BookingDetails {
	d, err := s.bookings.FindDetailsByID(ctx, b.ID)
	if err != nil || d == nil {
		if err != nil {
			s.logger.Warn("failed to load booking details", zap.String("booking_id", b.ID), zap.Error(err))
		}
		return &model.BookingDetails{Booking: *b}
	}
	return d
}
