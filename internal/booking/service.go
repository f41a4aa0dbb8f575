package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

// RoomReader is the slice of the room catalog the booking service needs.
type RoomReader interface {
	GetByID(ctx context.Context, id string) (*room.Room, error)
}

type PriceCalculator interface {
	Price(roomName string, durationMinutes int) float64
}

type CreateRequest struct {
	RoomID    string
	Name      string
	Email     string
	Date      string
	Time      string
	Duration  *int
	Attendees *int
	Purpose   string
}

func (r CreateRequest) missing() []string {
	var fields []string
	for _, f := range []struct {
		name  string
		empty bool
	}{
		{"room_id", strings.TrimSpace(r.RoomID) == ""},
		{"name", strings.TrimSpace(r.Name) == ""},
		{"email", strings.TrimSpace(r.Email) == ""},
		{"date", strings.TrimSpace(r.Date) == ""},
		{"time", strings.TrimSpace(r.Time) == ""},
		{"duration", r.Duration == nil},
		{"attendees", r.Attendees == nil},
	} {
		if f.empty {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// UpdateRequest is a partial patch. RoomID may only repeat the booking's
// current room.
type UpdateRequest struct {
	RoomID    *string
	Date      *string
	Time      *string
	Duration  *int
	Attendees *int
	Purpose   *string
}

func (r UpdateRequest) empty() bool {
	return r.Date == nil && r.Time == nil && r.Duration == nil &&
		r.Attendees == nil && r.Purpose == nil
}

type AvailabilityRequest struct {
	RoomID           string
	Date             string
	Time             string
	Duration         *int
	ExcludeBookingID string
}

type Availability struct {
	Available bool
	Message   string
	Conflict  *Conflict
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// Modify applies a one-time patch to a confirmed booking.
	Modify(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	// Cancel soft-cancels a booking, freeing its slot while keeping the record.
	Cancel(ctx context.Context, id string) (*Booking, error)
	// Delete removes the booking record entirely.
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*Availability, error)
}

type service struct {
	repo   Repository
	rooms  RoomReader
	prices PriceCalculator
	events Publisher
}

func NewService(repo Repository, rooms RoomReader, prices PriceCalculator, events Publisher) Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &service{
		repo:   repo,
		rooms:  rooms,
		prices: prices,
		events: events,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if missing := req.missing(); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	start, err := ParseStart(strings.TrimSpace(req.Date), strings.TrimSpace(req.Time))
	if err != nil {
		return nil, err
	}

	b := &Booking{
		RoomID:          strings.TrimSpace(req.RoomID),
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Start:           start,
		DurationMinutes: *req.Duration,
		Attendees:       *req.Attendees,
		Purpose:         strings.TrimSpace(req.Purpose),
		Status:          StatusConfirmed,
	}

	rm, err := s.lookupRoom(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsAvailable {
		return nil, ErrRoomUnavailable
	}
	if err := checkAttendees(b.Attendees, rm.Capacity); err != nil {
		return nil, err
	}
	if err := checkDuration(b.Start, b.DurationMinutes); err != nil {
		return nil, err
	}

	b.RoomName = rm.Name
	b.Price = s.prices.Price(rm.Name, b.DurationMinutes)

	// Room lookups go through the pool and must not run while the room lock
	// is held.
	err = s.repo.InRoomTx(ctx, b.RoomID, func(tx Repository) error {
		if err := ensureFree(ctx, tx, b.RoomID, b.Slot(), ""); err != nil {
			return err
		}
		return tx.Create(ctx, b)
	})
	if err != nil {
		return nil, s.describeConflict(ctx, err, b.RoomID, b.Slot(), "")
	}

	s.events.Publish(ctx, NewEvent(EventCreated, b))
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Modify(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var capacity int
	if req.Attendees != nil {
		rm, err := s.lookupRoom(ctx, current.RoomID)
		if err != nil {
			return nil, err
		}
		capacity = rm.Capacity
	}

	var (
		updated *Booking
		slot    Slot
	)
	err = s.repo.InRoomTx(ctx, current.RoomID, func(tx Repository) error {
		// Re-read under the room lock; the record may have changed meanwhile.
		b, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if b.ModificationCount >= 1 {
			return ErrAlreadyModified
		}
		if b.Status != StatusConfirmed {
			return ErrNotConfirmed
		}
		if req.RoomID != nil && strings.TrimSpace(*req.RoomID) != b.RoomID {
			return ErrRoomChange
		}
		if req.empty() {
			return ErrNothingToUpdate
		}

		date, clock := b.Date(), b.Clock()
		if req.Date != nil {
			date = strings.TrimSpace(*req.Date)
		}
		if req.Time != nil {
			clock = strings.TrimSpace(*req.Time)
		}
		start, err := ParseStart(date, clock)
		if err != nil {
			return err
		}

		duration := b.DurationMinutes
		if req.Duration != nil {
			duration = *req.Duration
		}
		if err := checkDuration(start, duration); err != nil {
			return err
		}

		slot = NewSlot(start, duration)
		if err := ensureFree(ctx, tx, b.RoomID, slot, b.ID); err != nil {
			return err
		}

		if req.Attendees != nil {
			if err := checkAttendees(*req.Attendees, capacity); err != nil {
				return err
			}
			b.Attendees = *req.Attendees
		}

		if duration != b.DurationMinutes {
			b.Price = s.prices.Price(b.RoomName, duration)
		}
		if req.Purpose != nil {
			b.Purpose = strings.TrimSpace(*req.Purpose)
		}
		b.Start = start
		b.DurationMinutes = duration
		b.ModificationCount++

		if err := tx.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, s.describeConflict(ctx, err, current.RoomID, slot, id)
	}

	s.events.Publish(ctx, NewEvent(EventModified, updated))
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var cancelled *Booking
	err = s.repo.InRoomTx(ctx, current.RoomID, func(tx Repository) error {
		b, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}

		b.Status = StatusCancelled
		if err := tx.Update(ctx, b); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, NewEvent(EventCancelled, cancelled))
	return cancelled, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.InRoomTx(ctx, current.RoomID, func(tx Repository) error {
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, NewEvent(EventDeleted, current))
	return nil
}

func (s *service) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*Availability, error) {
	var missing []string
	if strings.TrimSpace(req.RoomID) == "" {
		missing = append(missing, "room_id")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.Time) == "" {
		missing = append(missing, "time")
	}
	if req.Duration == nil {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	start, err := ParseStart(strings.TrimSpace(req.Date), strings.TrimSpace(req.Time))
	if err != nil {
		return nil, err
	}
	if err := checkDuration(start, *req.Duration); err != nil {
		return nil, err
	}

	roomID := strings.TrimSpace(req.RoomID)
	if _, err := s.lookupRoom(ctx, roomID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ConfirmedOnDate(ctx, roomID, start, req.ExcludeBookingID)
	if err != nil {
		return nil, err
	}

	if c := FindConflict(NewSlot(start, *req.Duration), existing); c != nil {
		return &Availability{Available: false, Message: c.Message(), Conflict: c}, nil
	}
	return &Availability{Available: true, Message: "room is available"}, nil
}

func (s *service) lookupRoom(ctx context.Context, id string) (*room.Room, error) {
	rm, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// ensureFree fails with a conflict error when slot overlaps a confirmed
// booking of the room other than excludeID.
func ensureFree(ctx context.Context, q Repository, roomID string, slot Slot, excludeID string) error {
	existing, err := q.ConfirmedOnDate(ctx, roomID, slot.Start, excludeID)
	if err != nil {
		return err
	}
	if c := FindConflict(slot, existing); c != nil {
		return c.Err()
	}
	return nil
}

// describeConflict turns a storage-level overlap rejection into the same
// conflict error ensureFree returns, naming the blocking booking. The read
// runs after the failed transaction has been rolled back.
func (s *service) describeConflict(ctx context.Context, err error, roomID string, slot Slot, excludeID string) error {
	if !errors.Is(err, ErrTimeConflict) {
		return err
	}
	existing, lookupErr := s.repo.ConfirmedOnDate(ctx, roomID, slot.Start, excludeID)
	if lookupErr != nil {
		return err
	}
	if c := FindConflict(slot, existing); c != nil {
		return c.Err()
	}
	return err
}

func checkAttendees(attendees, capacity int) error {
	if attendees < 1 {
		return ErrInvalidAttendees
	}
	if attendees > capacity {
		return capacityError(attendees, capacity)
	}
	return nil
}

func checkDuration(start time.Time, minutes int) error {
	if minutes < MinDuration || minutes > MaxDuration {
		return ErrInvalidDuration
	}
	if !NewSlot(start, minutes).WithinDay() {
		return ErrCrossesMidnight
	}
	return nil
}
