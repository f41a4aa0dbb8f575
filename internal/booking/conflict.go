package booking

import (
	"fmt"

	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
)

// Conflict describes the confirmed booking that blocks a candidate slot.
type Conflict struct {
	BookingID string
	Slot      Slot
}

func (c *Conflict) Message() string {
	return fmt.Sprintf("room is already booked from %s to %s",
		c.Slot.Start.Format(ClockLayout), c.Slot.End.Format(ClockLayout))
}

// Err converts the conflict into the 409 error returned to callers.
func (c *Conflict) Err() error {
	return apperror.Conflict(c.Message()).WithDetails(map[string]any{
		"conflicting_booking_id": c.BookingID,
		"conflicting_slot":       c.Slot.String(),
	})
}

// FindConflict returns the first confirmed booking in existing whose slot
// overlaps candidate, or nil when the candidate is free. Any single overlap
// disqualifies the candidate, so scan order does not matter.
func FindConflict(candidate Slot, existing []*Booking) *Conflict {
	for _, b := range existing {
		if b.Status != StatusConfirmed {
			continue
		}
		if s := b.Slot(); s.Overlaps(candidate) {
			return &Conflict{BookingID: b.ID, Slot: s}
		}
	}
	return nil
}
