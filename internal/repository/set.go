package repository

// Set bundles the repositories one storage backend provides.
type Set struct {
	Users    UserRepository
	Services ServiceRepository
	Bookings BookingRepository
	Reviews  ReviewRepository
}

// NewSet builds the Postgres-backed repositories over one pool.
func NewSet(db DBTX) Set {
	return Set{
		Users:    NewUserRepository(db),
		Services: NewServiceRepository(db),
		Bookings: NewBookingRepository(db),
		Reviews:  NewReviewRepository(db),
	}
}
