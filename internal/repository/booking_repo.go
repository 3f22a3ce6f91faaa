package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/helpapp/marketplace/internal/model"

	"github.com/jackc/pgx/v5"
)

// BookingRepository defines operations for booking data
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// FindDetailsByID loads a booking with its service, parties and review.
	FindDetailsByID(ctx context.Context, id string) (*model.BookingDetails, error)
	ListByClient(ctx context.Context, clientID string) ([]model.BookingDetails, error)
	ListByProvider(ctx context.Context, providerID string) ([]model.BookingDetails, error)
	// ClaimDecision atomically sets status and provider on a booking that is still
	// pending and unclaimed. It returns nil, nil when no row matched.
	ClaimDecision(ctx context.Context, id, providerID string, status model.BookingStatus) (*model.Booking, error)
	// MarkCompleted moves an accepted booking owned by providerID to COMPLETED.
	// It returns nil, nil when no row matched.
	MarkCompleted(ctx context.Context, id, providerID string, at time.Time) (*model.Booking, error)
}

type bookingRepository struct {
	db DBTX
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DBTX) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, client_id, provider_id, service_id, status, scheduled_at, notes, total_amount, completed_at, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	sql := `INSERT INTO bookings (id, client_id, service_id, status, scheduled_at, notes, total_amount, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, sql, b.ID, b.ClientID, b.ServiceID, b.Status, b.ScheduledAt, b.Notes,
		int64(b.TotalAmount), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	sql := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.queryOne(ctx, "find booking by ID", sql, id)
}

const bookingDetailsQuery = `SELECT b.id, b.client_id, b.provider_id, b.service_id, b.status, b.scheduled_at, b.notes,
            b.total_amount, b.completed_at, b.created_at, b.updated_at,
            s.id, s.name, s.description, s.category, s.base_price, s.created_at, s.updated_at,
            c.id, c.first_name, c.last_name, c.email,
            p.id, p.first_name, p.last_name, p.email,
            rv.id, rv.user_id, rv.rating, rv.comment, rv.created_at, rv.updated_at
        FROM bookings b
        JOIN services s ON s.id = b.service_id
        JOIN users c ON c.id = b.client_id
        LEFT JOIN users p ON p.id = b.provider_id
        LEFT JOIN reviews rv ON rv.booking_id = b.id`

func (r *bookingRepository) FindDetailsByID(ctx context.Context, id string) (*model.BookingDetails, error) {
	d, err := scanBookingDetails(r.db.QueryRow(ctx, bookingDetailsQuery+` WHERE b.id = $1`, id))
	if err != nil {
		if isNoMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking details: %w", err)
	}
	return d, nil
}

func (r *bookingRepository) ListByClient(ctx context.Context, clientID string) ([]model.BookingDetails, error) {
	return r.queryMany(ctx, bookingDetailsQuery+` WHERE b.client_id = $1 ORDER BY b.created_at DESC`, clientID)
}

func (r *bookingRepository) ListByProvider(ctx context.Context, providerID string) ([]model.BookingDetails, error) {
	return r.queryMany(ctx, bookingDetailsQuery+` WHERE b.provider_id = $1 ORDER BY b.created_at DESC`, providerID)
}

func (r *bookingRepository) ClaimDecision(ctx context.Context, id, providerID string, status model.BookingStatus) (*model.Booking, error) {
	sql := `UPDATE bookings
            SET status = $1, provider_id = $2, updated_at = NOW()
            WHERE id = $3 AND status = 'PENDING' AND provider_id IS NULL
            RETURNING ` + bookingColumns
	return r.queryOne(ctx, "claim booking decision", sql, status, providerID, id)
}

func (r *bookingRepository) MarkCompleted(ctx context.Context, id, providerID string, at time.Time) (*model.Booking, error) {
	sql := `UPDATE bookings
            SET status = 'COMPLETED', completed_at = $1, updated_at = NOW()
            WHERE id = $2 AND status = 'ACCEPTED' AND provider_id = $3
            RETURNING ` + bookingColumns
	return r.queryOne(ctx, "complete booking", sql, at, id, providerID)
}

func (r *bookingRepository) queryOne(ctx context.Context, op, sql string, args ...any) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return b, nil
}

func (r *bookingRepository) queryMany(ctx context.Context, sql string, args ...any) ([]model.BookingDetails, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.BookingDetails{}
	for rows.Next() {
		b, err := scanBookingDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.ServiceID, &b.Status, &b.ScheduledAt,
		&b.Notes, &b.TotalAmount, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// scanBookingDetails reads one row of bookingDetailsQuery. Provider and review
// columns are NULL when the outer joins find nothing.
func scanBookingDetails(row pgx.Row) (*model.BookingDetails, error) {
	var (
		d                                      model.BookingDetails
		svc                                    model.Service
		client                                 model.UserSummary
		provID, provFirst, provLast, provEmail *string
		rvID, rvUser, rvComment                *string
		rvRating                               *int
		rvCreated, rvUpdated                   *time.Time
	)
	b := &d.Booking
	err := row.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.ServiceID, &b.Status, &b.ScheduledAt,
		&b.Notes, &b.TotalAmount, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt,
		&svc.ID, &svc.Name, &svc.Description, &svc.Category, &svc.BasePrice, &svc.CreatedAt, &svc.UpdatedAt,
		&client.ID, &client.FirstName, &client.LastName, &client.Email,
		&provID, &provFirst, &provLast, &provEmail,
		&rvID, &rvUser, &rvRating, &rvComment, &rvCreated, &rvUpdated)
	if err != nil {
		return nil, err
	}

	d.Service = &svc
	d.Client = &client
	if provID != nil {
		d.Provider = &model.UserSummary{ID: *provID, FirstName: deref(provFirst), LastName: deref(provLast), Email: deref(provEmail)}
	}
	if rvID != nil && rvRating != nil {
		d.Review = &model.Review{ID: *rvID, BookingID: b.ID, UserID: deref(rvUser), Rating: *rvRating, Comment: rvComment}
		if rvCreated != nil {
			d.Review.CreatedAt = *rvCreated
		}
		if rvUpdated != nil {
			d.Review.UpdatedAt = *rvUpdated
		}
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
