package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// SlotUnavailableError reports the first booking whose interval collides with
// a requested slot, so callers can offer the customer an alternative.
type SlotUnavailableError struct {
	ConflictingBookingID uuid.UUID
	ConflictingInterval  valueobject.TimeInterval
}

// Error implements the error interface
func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot unavailable: conflicts with booking %s at %s", e.ConflictingBookingID, e.ConflictingInterval)
}

// Candidate is the slot a caller wants to reserve or move a booking into
type Candidate struct {
	ResourceID uuid.UUID
	Interval   valueobject.TimeInterval
}

// CheckConflict decides whether the candidate slot can be reserved given the
// supplied bookings. Only pending and confirmed bookings for the same resource
// and date count; excludeID skips the booking being edited. The first conflict
// in supply order wins, so callers should pass bookings in a stable
// (creation-time) order for deterministic errors.
//
// CheckConflict is a pure decision function: it reads no storage and gives no
// ordering guarantees under concurrency. Run it inside the booking
// repository's reservation scope when the decision must be atomic with a
// write.
func CheckConflict(candidate Candidate, bookings []Booking, excludeID uuid.UUID) error {
	for i := range bookings {
		b := &bookings[i]
		if !b.Status.IsActive() {
			continue
		}
		if b.ResourceID != candidate.ResourceID {
			continue
		}
		if excludeID != uuid.Nil && b.ID == excludeID {
			continue
		}
		if candidate.Interval.Overlaps(b.Interval) {
			return &SlotUnavailableError{
				ConflictingBookingID: b.ID,
				ConflictingInterval:  b.Interval,
			}
		}
	}
	return nil
}
