package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/conference-booking-backend/internal/api"
	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/conference-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/response"
	roomHttp "github.com/nekogravitycat/conference-booking-backend/internal/room/http"
)

func seedRooms(t *testing.T) map[string]roomHttp.RoomResponse {
	t.Helper()

	w := executeRequest("POST", "/api/init-db", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var initResp api.InitDBResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))
	assert.Equal(t, 3, initResp.RoomsSeeded)

	w = executeRequest("GET", "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list response.PageResponse[roomHttp.RoomResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

	byName := map[string]roomHttp.RoomResponse{}
	for _, r := range list.Items {
		byName[r.Name] = r
	}
	require.Len(t, byName, 3)
	return byName
}

func bookingBody(roomID, date, clock string, duration, attendees int) map[string]any {
	return map[string]any{
		"room_id":   roomID,
		"name":      "Alice",
		"email":     "alice@example.com",
		"date":      date,
		"time":      clock,
		"duration":  duration,
		"attendees": attendees,
		"purpose":   "Planning",
	}
}

func TestBookingLifecycle(t *testing.T) {
	requireDB(t)
	clearTables(t)
	rooms := seedRooms(t)
	focus := rooms["Focus Room"]
	assert.Equal(t, 500.0, focus.PricePerHalfHour)

	var bookingID string

	t.Run("Create", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings", bookingBody(focus.ID, "2025-06-01", "10:00", 60, 3))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Focus Room", resp.RoomName)
		assert.Equal(t, "2025-06-01", resp.Date)
		assert.Equal(t, "10:00", resp.Time)
		assert.Equal(t, 1000.0, resp.Price)
		assert.Equal(t, booking.StatusConfirmed, resp.Status)
		bookingID = resp.ID
	})

	t.Run("Overlap", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings", bookingBody(focus.ID, "2025-06-01", "10:30", 60, 2))
		require.Equal(t, http.StatusConflict, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "10:00 to 11:00")
	})

	t.Run("Adjacent", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings", bookingBody(focus.ID, "2025-06-01", "11:00", 30, 2))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Capacity", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings", bookingBody(focus.ID, "2025-06-02", "10:00", 60, 5))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), string(apperror.KindCapacity))
	})

	t.Run("Availability", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings/check-availability", map[string]any{
			"room_id": focus.ID, "date": "2025-06-01", "time": "10:15", "duration": 15,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp bookingHttp.AvailabilityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Available)
	})

	t.Run("Modify once", func(t *testing.T) {
		w := executeRequest("PUT", "/api/bookings/"+bookingID, map[string]any{"time": "14:00", "duration": 90})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "14:00", resp.Time)
		assert.Equal(t, 1500.0, resp.Price)
		assert.Equal(t, 1, resp.ModificationCount)

		w = executeRequest("PUT", "/api/bookings/"+bookingID, map[string]any{"time": "15:00"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Cancel frees slot", func(t *testing.T) {
		w := executeRequest("POST", "/api/bookings/"+bookingID+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = executeRequest("POST", "/api/bookings/"+bookingID+"/cancel", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest("POST", "/api/bookings", bookingBody(focus.ID, "2025-06-01", "14:00", 90, 2))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("List by date and status", func(t *testing.T) {
		w := executeRequest("GET", "/api/bookings?room_id="+focus.ID+"&date=2025-06-01&status=confirmed", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list response.PageResponse[bookingHttp.BookingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, 2, list.Total)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "14:00", list.Items[0].Time, "newest start first")
	})

	t.Run("Delete booking", func(t *testing.T) {
		w := executeRequest("DELETE", "/api/bookings/"+bookingID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = executeRequest("GET", "/api/bookings/"+bookingID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete room removes its bookings", func(t *testing.T) {
		w := executeRequest("DELETE", "/api/rooms/"+focus.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp roomHttp.DeleteRoomResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.DeletedBookings)
	})
}

func TestConcurrentBookingsNeverOverlap(t *testing.T) {
	requireDB(t)
	clearTables(t)
	hub := seedRooms(t)["Innovation Hub"]

	const workers = 10
	ctx := context.Background()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			duration, attendees := 60, 2
			// Staggered starts so every pair of requests overlaps.
			clock := time.Date(2025, 6, 1, 10, i, 0, 0, time.UTC).Format(booking.ClockLayout)
			_, err := testContainer.BookingService.Create(ctx, booking.CreateRequest{
				RoomID:    hub.ID,
				Name:      "Racer",
				Email:     "racer@example.com",
				Date:      "2025-06-01",
				Time:      clock,
				Duration:  &duration,
				Attendees: &attendees,
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperror.KindOf(err) == apperror.KindConflict {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestExclusionConstraintBacksTheLock(t *testing.T) {
	requireDB(t)
	clearTables(t)
	hub := seedRooms(t)["Innovation Hub"]

	repo := booking.NewPgxRepository(testPool)
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first := &booking.Booking{
		RoomID: hub.ID, Name: "A", Email: "a@example.com", Start: start,
		DurationMinutes: 60, Attendees: 1, Price: 2000, Status: booking.StatusConfirmed,
	}
	require.NoError(t, repo.Create(ctx, first))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, start.Equal(got.Start), "round trip of date and time, got %v", got.Start)
	assert.Equal(t, "Innovation Hub", got.RoomName)

	// Written without the room lock, the database still refuses the overlap.
	second := *first
	second.ID = ""
	second.Start = start.Add(30 * time.Minute)
	assert.ErrorIs(t, repo.Create(ctx, &second), booking.ErrTimeConflict)

	// A cancelled booking does not participate.
	second.Status = booking.StatusCancelled
	assert.NoError(t, repo.Create(ctx, &second))
}
