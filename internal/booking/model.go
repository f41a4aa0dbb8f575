package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrRoomNotFound     = apperror.NotFound("room not found")
	ErrRoomUnavailable  = apperror.Validation("room is not available for booking")
	ErrInvalidDuration  = apperror.Validation(fmt.Sprintf("duration must be between %d and %d minutes", MinDuration, MaxDuration))
	ErrInvalidAttendees = apperror.Validation("attendees must be at least 1")
	ErrInvalidDate      = apperror.Validation("invalid date format, expected YYYY-MM-DD")
	ErrInvalidTime      = apperror.Validation("invalid time format, expected HH:MM")
	ErrCrossesMidnight  = apperror.Validation("booking must end by midnight of the same day")
	ErrInvalidStatus    = apperror.Validation("status must be one of: confirmed, cancelled")
	ErrRoomChange       = apperror.Validation("room_id cannot be changed after the booking is created")
	ErrNothingToUpdate  = apperror.Validation("no fields to update")
	ErrAlreadyModified  = apperror.Permission("booking can only be modified once")
	ErrNotConfirmed     = apperror.State("only confirmed bookings can be modified")
	ErrAlreadyCancelled = apperror.State("booking is already cancelled")
	ErrTimeConflict     = apperror.Conflict("time slot already booked")
)

const (
	MinDuration = 1
	MaxDuration = 480
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Booking is a reservation of one room for a half-open interval on one day.
type Booking struct {
	ID                string
	RoomID            string
	RoomName          string // joined from rooms, read-only
	Name              string
	Email             string
	Start             time.Time // date and time of day, naive (held in UTC)
	DurationMinutes   int
	Attendees         int
	Purpose           string
	Price             float64
	Status            Status
	ModificationCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Slot returns the occupied interval.
func (b *Booking) Slot() Slot {
	return NewSlot(b.Start, b.DurationMinutes)
}

// Date returns the booking date as YYYY-MM-DD.
func (b *Booking) Date() string {
	return b.Start.Format(DateLayout)
}

// Clock returns the start time as HH:MM.
func (b *Booking) Clock() string {
	return b.Start.Format(ClockLayout)
}

type Filter struct {
	RoomID   string
	Date     *time.Time
	Status   Status
	Page     int
	PageSize int
}

func capacityError(attendees, capacity int) error {
	return apperror.Capacity(fmt.Sprintf("attendees (%d) exceed room capacity (%d)", attendees, capacity)).
		WithDetails(map[string]any{"attendees": attendees, "capacity": capacity})
}

func missingFieldsError(fields []string) error {
	return apperror.Validation("missing required fields: " + strings.Join(fields, ", ")).
		WithDetails(map[string]any{"missing_fields": fields})
}
