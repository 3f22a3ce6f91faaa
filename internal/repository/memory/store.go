// Package memory is an in-process implementation of the repository
// interfaces, selected with STORAGE_DRIVER=memory. Conditional updates run
// under the store mutex and so give the same single-winner guarantees as the
// Postgres WHERE clauses.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]model.User
	services map[string]model.Service
	bookings map[string]storedBooking
	reviews  map[string]model.Review // keyed by booking id
}

type storedBooking struct {
	model.Booking
	seq int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.User),
		services: make(map[string]model.Service),
		bookings: make(map[string]storedBooking),
		reviews:  make(map[string]model.Review),
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Services() repository.ServiceRepository { return serviceRepo{s} }
func (s *Store) Bookings() repository.BookingRepository { return bookingRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository   { return reviewRepo{s} }

// Set returns all four repositories backed by this store.
func (s *Store) Set() repository.Set {
	return repository.Set{Users: s.Users(), Services: s.Services(), Bookings: s.Bookings(), Reviews: s.Reviews()}
}

// Ping always succeeds; it lets the store back the health check.
func (s *Store) Ping(context.Context) error { return nil }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperr.Conflict("user already exists")
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindIdentityByID(ctx context.Context, id string) (*model.Identity, error) {
	u, err := r.FindByID(ctx, id)
	if u == nil || err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) Create(_ context.Context, svc *model.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[svc.ID] = *svc
	return nil
}

func (r serviceRepo) FindByID(_ context.Context, id string) (*model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r serviceRepo) List(context.Context) ([]model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	r.s.bookings[b.ID] = storedBooking{Booking: *b, seq: r.s.seq}
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b.Booking), nil
}

func (r bookingRepo) FindDetailsByID(_ context.Context, id string) (*model.BookingDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.s.details(b.Booking), nil
}

func (r bookingRepo) ListByClient(_ context.Context, clientID string) ([]model.BookingDetails, error) {
	return r.list(func(b model.Booking) bool { return b.ClientID == clientID }), nil
}

func (r bookingRepo) ListByProvider(_ context.Context, providerID string) ([]model.BookingDetails, error) {
	return r.list(func(b model.Booking) bool { return b.ProviderID != nil && *b.ProviderID == providerID }), nil
}

func (r bookingRepo) list(match func(model.Booking) bool) []model.BookingDetails {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := []storedBooking{}
	for _, b := range r.s.bookings {
		if match(b.Booking) {
			matched = append(matched, b)
		}
	}
	// newest first
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})
	out := make([]model.BookingDetails, 0, len(matched))
	for _, b := range matched {
		out = append(out, *r.s.details(b.Booking))
	}
	return out
}

// details joins b with its service, parties and review. Callers hold mu.
func (s *Store) details(b model.Booking) *model.BookingDetails {
	d := &model.BookingDetails{Booking: *copyBooking(b)}
	if svc, ok := s.services[b.ServiceID]; ok {
		d.Service = &svc
	}
	if u, ok := s.users[b.ClientID]; ok {
		d.Client = u.Summary()
	}
	if b.ProviderID != nil {
		if u, ok := s.users[*b.ProviderID]; ok {
			d.Provider = u.Summary()
		}
	}
	if rv, ok := s.reviews[b.ID]; ok {
		d.Review = &rv
	}
	return d
}

func (r bookingRepo) ClaimDecision(_ context.Context, id, providerID string, status model.BookingStatus) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != model.BookingPending || b.ProviderID != nil {
		return nil, nil
	}
	pid := providerID
	b.Status = status
	b.ProviderID = &pid
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[id] = b
	return copyBooking(b.Booking), nil
}

func (r bookingRepo) MarkCompleted(_ context.Context, id, providerID string, at time.Time) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != model.BookingAccepted || b.ProviderID == nil || *b.ProviderID != providerID {
		return nil, nil
	}
	done := at
	b.Status = model.BookingCompleted
	b.CompletedAt = &done
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[id] = b
	return copyBooking(b.Booking), nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, rv *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.reviews[rv.BookingID]; exists {
		return apperr.Conflict("booking already reviewed")
	}
	r.s.reviews[rv.BookingID] = *rv
	return nil
}

func (r reviewRepo) FindByBookingID(_ context.Context, bookingID string) (*model.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[bookingID]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func copyBooking(b model.Booking) *model.Booking {
	if b.ProviderID != nil {
		pid := *b.ProviderID
		b.ProviderID = &pid
	}
	if b.CompletedAt != nil {
		at := *b.CompletedAt
		b.CompletedAt = &at
	}
	if b.Notes != nil {
		notes := *b.Notes
		b.Notes = &notes
	}
	return &b
}
