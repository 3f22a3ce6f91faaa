// Package queue defines the domain events published to the message broker
// and the publishers that deliver them.
package queue

import (
	"time"

	"github.com/helpapp/marketplace/internal/model"
)

const (
	BookingCreated   = "booking.created"
	BookingDecided   = "booking.decided"
	BookingCompleted = "booking.completed"
	ReviewCreated    = "review.created"
)

// Event carries enough of a booking or review for downstream consumers to
// react without querying the primary database. Type doubles as the routing key.
type Event struct {
	Type        string              `json:"type"`
	BookingID   string              `json:"booking_id"`
	ClientID    string              `json:"client_id"`
	ProviderID  string              `json:"provider_id,omitempty"`
	ServiceID   string              `json:"service_id,omitempty"`
	Status      model.BookingStatus `json:"status,omitempty"`
	TotalAmount model.Cents         `json:"total_amount"`
	ReviewID    string              `json:"review_id,omitempty"`
	Rating      int                 `json:"rating,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewBookingEvent builds an event of the given type from a booking snapshot.
func NewBookingEvent(eventType string, b *model.Booking) Event {
	e := Event{
		Type:        eventType,
		BookingID:   b.ID,
		ClientID:    b.ClientID,
		ServiceID:   b.ServiceID,
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if b.ProviderID != nil {
		e.ProviderID = *b.ProviderID
	}
	return e
}

// NewReviewEvent builds a review.created event.
func NewReviewEvent(b *model.Booking, rv *model.Review) Event {
	e := NewBookingEvent(ReviewCreated, b)
	e.ReviewID = rv.ID
	e.Rating = rv.Rating
	return e
}
