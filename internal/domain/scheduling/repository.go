package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// BookingRepository persists bookings.
// Implementations must provide a per-(resource, date) serialization point via
// InReservationScope so conflict detection is atomic with the write it guards.
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Booking, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Booking, error)
	// FindActiveForSlot returns pending and confirmed bookings for the
	// resource on the given date, ordered by creation time.
	FindActiveForSlot(ctx context.Context, ownerID, resourceID uuid.UUID, date time.Time) ([]Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, booking *Booking) error
	// InReservationScope runs fn inside a transaction that serializes
	// concurrent reservations of the same resource and date. The repository
	// passed to fn reads and writes within that transaction.
	InReservationScope(ctx context.Context, ownerID, resourceID uuid.UUID, date time.Time, fn func(ctx context.Context, tx BookingRepository) error) error
}

// ResourceRateRepository looks up and stores rate cards
type ResourceRateRepository interface {
	// FindByResource returns the rate card for the resource, or ErrRateNotFound
	FindByResource(ctx context.Context, ownerID, resourceID uuid.UUID) (*ResourceRate, error)
	Save(ctx context.Context, rate *ResourceRate) error
}
