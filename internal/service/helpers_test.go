package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/queue"
	"github.com/helpapp/marketplace/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	bookings  BookingService
	reviews   ReviewService

	client    *model.Identity
	other     *model.Identity
	provider  *model.Identity
	provider2 *model.Identity
	service   *model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	logger := zap.NewNop()

	f := &fixture{
		store:     store,
		publisher: pub,
		bookings:  NewBookingService(store.Bookings(), store.Services(), pub, logger),
		reviews:   NewReviewService(store.Reviews(), store.Bookings(), pub, logger),
		client:    &model.Identity{ID: "client-1", Email: "client@example.com", Role: model.RoleClient},
		other:     &model.Identity{ID: "client-2", Email: "other@example.com", Role: model.RoleClient},
		provider:  &model.Identity{ID: "provider-1", Email: "pro@example.com", Role: model.RoleProvider},
		provider2: &model.Identity{ID: "provider-2", Email: "pro2@example.com", Role: model.RoleProvider},
		service:   &model.Service{ID: "svc-cleaning", Name: "Cleaning", Category: "Home", BasePrice: 5000},
	}
	require.NoError(t, store.Services().Create(context.Background(), f.service))
	return f
}

func (f *fixture) book(t *testing.T) *model.BookingDetails {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), f.client, model.CreateBookingRequest{
		ServiceID:   f.service.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) completed(t *testing.T) *model.BookingDetails {
	t.Helper()
	ctx := context.Background()
	b := f.book(t)
	_, err := f.bookings.Decide(ctx, f.provider, b.ID, model.BookingAccepted)
	require.NoError(t, err)
	done, err := f.bookings.Complete(ctx, f.provider, b.ID)
	require.NoError(t, err)
	return done
}
