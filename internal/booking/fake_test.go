package booking_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

// memRepo is an in-memory Repository. InRoomTx serializes callers with a
// single mutex, standing in for the per-room advisory lock.
type memRepo struct {
	txMu sync.Mutex

	mu       sync.Mutex
	bookings map[string]*booking.Booking

	// rival, when set, is committed by a writer that bypassed the room lock.
	// The next Create or Update stores it and fails the way the database's
	// overlap constraint does.
	rival *booking.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[string]*booking.Booking{}}
}

func (r *memRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commitRival() {
		return booking.ErrTimeConflict
	}
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking
	for _, b := range r.bookings {
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Date != nil && b.Date() != filter.Date.Format(booking.DateLayout) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return booking.ErrNotFound
	}
	if r.commitRival() {
		return booking.ErrTimeConflict
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return booking.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memRepo) ConfirmedOnDate(_ context.Context, roomID string, day time.Time, excludeID string) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date := day.Format(booking.DateLayout)
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.RoomID != roomID || b.Status != booking.StatusConfirmed || b.ID == excludeID || b.Date() != date {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *memRepo) InRoomTx(_ context.Context, _ string, fn func(tx booking.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

// commitRival must be called with mu held.
func (r *memRepo) commitRival() bool {
	if r.rival == nil {
		return false
	}
	rival := r.rival
	r.rival = nil
	if rival.ID == "" {
		rival.ID = uuid.NewString()
	}
	rival.Status = booking.StatusConfirmed
	r.bookings[rival.ID] = rival
	return true
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memRooms struct {
	rooms map[string]*room.Room
}

func newMemRooms(rooms ...*room.Room) *memRooms {
	m := &memRooms{rooms: map[string]*room.Room{}}
	for _, r := range rooms {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		m.rooms[r.ID] = r
	}
	return m
}

func (m *memRooms) GetByID(_ context.Context, id string) (*room.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []booking.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e booking.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
