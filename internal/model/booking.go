package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// IsDecision reports whether s is a status a provider may decide a pending booking into.
func (s BookingStatus) IsDecision() bool {
	return s == BookingAccepted || s == BookingRejected
}

// Booking is a client's request for a catalog service.
type Booking struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	ProviderID  *string       `json:"provider_id,omitempty"` // set by the first provider to decide
	ServiceID   string        `json:"service_id"`
	Status      BookingStatus `json:"status"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Notes       *string       `json:"notes,omitempty"`
	TotalAmount Cents         `json:"total_amount"` // snapshot of the service price at creation
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateBookingRequest struct {
	ServiceID   string    `json:"service_id" binding:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       *string   `json:"notes"`
}

type DecideBookingRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

// UserSummary is the public face of a booking party.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// BookingDetails is a booking together with what it refers to. Provider and
// Review are nil until a provider decides and the client reviews.
type BookingDetails struct {
	Booking
	Service  *Service     `json:"service,omitempty"`
	Client   *UserSummary `json:"client,omitempty"`
	Provider *UserSummary `json:"provider,omitempty"`
	Review   *Review      `json:"review,omitempty"`
}
