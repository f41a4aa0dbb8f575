package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published after a booking mutation commits.
const (
	EventCreated   = "booking.created"
	EventModified  = "booking.modified"
	EventCancelled = "booking.cancelled"
	EventDeleted   = "booking.deleted"
)

// Publisher receives booking events. Implementations must not block the
// caller on delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Event is the payload sent to notification sinks. It carries the full
// booking as it was after the mutation.
type Event struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	OccurredAt        time.Time `json:"occurred_at"`
	BookingID         string    `json:"booking_id"`
	RoomID            string    `json:"room_id"`
	RoomName          string    `json:"room_name"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	EndTime           string    `json:"end_time"`
	Duration          int       `json:"duration"`
	Attendees         int       `json:"attendees"`
	Purpose           string    `json:"purpose"`
	Price             float64   `json:"price"`
	Status            Status    `json:"status"`
	ModificationCount int       `json:"modification_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewEvent(eventType string, b *Booking) Event {
	return Event{
		ID:                uuid.NewString(),
		Type:              eventType,
		OccurredAt:        time.Now().UTC(),
		BookingID:         b.ID,
		RoomID:            b.RoomID,
		RoomName:          b.RoomName,
		Name:              b.Name,
		Email:             b.Email,
		Date:              b.Date(),
		Time:              b.Clock(),
		EndTime:           b.Slot().End.Format(ClockLayout),
		Duration:          b.DurationMinutes,
		Attendees:         b.Attendees,
		Purpose:           b.Purpose,
		Price:             b.Price,
		Status:            b.Status,
		ModificationCount: b.ModificationCount,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
