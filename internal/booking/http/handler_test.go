package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/conference-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/response"
)

const (
	roomID    = "6f1c2a34-5b6d-4e7f-8a9b-0c1d2e3f4a5b"
	bookingID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

// stubService returns canned results and records the last request it saw.
type stubService struct {
	booking.Service

	created     *booking.CreateRequest
	modified    *booking.UpdateRequest
	filter      *booking.Filter
	err         error
	result      *booking.Booking
	available   *booking.Availability
	deletedID   string
	cancelledID string
}

func (s *stubService) Create(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	s.created = &req
	return s.result, s.err
}

func (s *stubService) GetByID(_ context.Context, _ string) (*booking.Booking, error) {
	return s.result, s.err
}

func (s *stubService) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	s.filter = &filter
	if s.err != nil {
		return nil, 0, s.err
	}
	return []*booking.Booking{s.result}, 1, nil
}

func (s *stubService) Modify(_ context.Context, _ string, req booking.UpdateRequest) (*booking.Booking, error) {
	s.modified = &req
	return s.result, s.err
}

func (s *stubService) Cancel(_ context.Context, id string) (*booking.Booking, error) {
	s.cancelledID = id
	return s.result, s.err
}

func (s *stubService) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubService) CheckAvailability(_ context.Context, _ booking.AvailabilityRequest) (*booking.Availability, error) {
	return s.available, s.err
}

func sampleBooking() *booking.Booking {
	return &booking.Booking{
		ID:              bookingID,
		RoomID:          roomID,
		RoomName:        "Focus Room",
		Name:            "Alice",
		Email:           "alice@example.com",
		Start:           time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Attendees:       3,
		Price:           1000,
		Status:          booking.StatusConfirmed,
	}
}

func newRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	bookingHttp.RegisterRoutes(r.Group("/api"), bookingHttp.NewHandler(svc))
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := &stubService{result: sampleBooking()}
		w := executeRequest(newRouter(svc), "POST", "/api/bookings", map[string]any{
			"room_id":   roomID,
			"name":      "Alice",
			"email":     "alice@example.com",
			"date":      "2025-06-01",
			"time":      "10:00",
			"duration":  60,
			"attendees": 3,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, bookingID, resp.ID)
		assert.Equal(t, "2025-06-01", resp.Date)
		assert.Equal(t, "10:00", resp.Time)
		assert.Equal(t, "11:00", resp.EndTime)
		assert.Equal(t, 1000.0, resp.Price)
		assert.Equal(t, booking.StatusConfirmed, resp.Status)

		require.NotNil(t, svc.created)
		assert.Equal(t, 60, *svc.created.Duration)
		assert.Equal(t, 3, *svc.created.Attendees)
	})

	t.Run("Missing fields", func(t *testing.T) {
		svc := &stubService{}
		w := executeRequest(newRouter(svc), "POST", "/api/bookings", map[string]any{
			"room_id": roomID,
			"name":    "Alice",
			"date":    "2025-06-01",
			"time":    "10:00",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "validation_error", string(resp.Type))
		assert.ElementsMatch(t, []any{"email", "duration", "attendees"}, resp.Details["missing_fields"])
		assert.Nil(t, svc.created, "service must not be called")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/bookings", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(&stubService{}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		c := &booking.Conflict{
			BookingID: bookingID,
			Slot:      booking.NewSlot(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), 60),
		}
		svc := &stubService{err: c.Err()}
		w := executeRequest(newRouter(svc), "POST", "/api/bookings", map[string]any{
			"room_id":   roomID,
			"name":      "Bob",
			"email":     "bob@example.com",
			"date":      "2025-06-01",
			"time":      "10:30",
			"duration":  60,
			"attendees": 2,
		})
		require.Equal(t, http.StatusConflict, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "conflict", string(resp.Type))
		assert.Contains(t, resp.Error, "10:00 to 11:00")
	})
}

func TestModifyBookingHandler(t *testing.T) {
	t.Run("Patch is forwarded", func(t *testing.T) {
		svc := &stubService{result: sampleBooking()}
		w := executeRequest(newRouter(svc), "PUT", "/api/bookings/"+bookingID, map[string]any{
			"time":     "14:00",
			"duration": 90,
		})
		require.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, svc.modified)
		assert.Equal(t, "14:00", *svc.modified.Time)
		assert.Equal(t, 90, *svc.modified.Duration)
		assert.Nil(t, svc.modified.Date)
		assert.Nil(t, svc.modified.Attendees)
	})

	t.Run("Permission denied", func(t *testing.T) {
		svc := &stubService{err: booking.ErrAlreadyModified}
		w := executeRequest(newRouter(svc), "PUT", "/api/bookings/"+bookingID, map[string]any{"time": "14:00"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		w := executeRequest(newRouter(&stubService{}), "PUT", "/api/bookings/not-a-uuid", map[string]any{"time": "14:00"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelAndDeleteHandlers(t *testing.T) {
	t.Run("Cancel", func(t *testing.T) {
		b := sampleBooking()
		b.Status = booking.StatusCancelled
		svc := &stubService{result: b}

		w := executeRequest(newRouter(svc), "POST", "/api/bookings/"+bookingID+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, bookingID, svc.cancelledID)

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, booking.StatusCancelled, resp.Status)
	})

	t.Run("Cancel twice", func(t *testing.T) {
		svc := &stubService{err: booking.ErrAlreadyCancelled}
		w := executeRequest(newRouter(svc), "POST", "/api/bookings/"+bookingID+"/cancel", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		svc := &stubService{}
		w := executeRequest(newRouter(svc), "DELETE", "/api/bookings/"+bookingID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, bookingID, svc.deletedID)

		var resp response.MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("Delete unknown", func(t *testing.T) {
		svc := &stubService{err: booking.ErrNotFound}
		w := executeRequest(newRouter(svc), "DELETE", "/api/bookings/"+bookingID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBookingsHandler(t *testing.T) {
	t.Run("Filters are parsed", func(t *testing.T) {
		svc := &stubService{result: sampleBooking()}
		w := executeRequest(newRouter(svc), "GET", "/api/bookings?room_id="+roomID+"&date=2025-06-01&status=confirmed&page=2&page_size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, svc.filter)
		assert.Equal(t, roomID, svc.filter.RoomID)
		assert.Equal(t, booking.StatusConfirmed, svc.filter.Status)
		require.NotNil(t, svc.filter.Date)
		assert.Equal(t, "2025-06-01", svc.filter.Date.Format(booking.DateLayout))
		assert.Equal(t, 2, svc.filter.Page)
		assert.Equal(t, 5, svc.filter.PageSize)

		var resp response.PageResponse[bookingHttp.BookingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
		require.Len(t, resp.Items, 1)
	})

	t.Run("Bad date", func(t *testing.T) {
		w := executeRequest(newRouter(&stubService{}), "GET", "/api/bookings?date=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad status", func(t *testing.T) {
		w := executeRequest(newRouter(&stubService{}), "GET", "/api/bookings?status=pending", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckAvailabilityHandler(t *testing.T) {
	c := &booking.Conflict{
		BookingID: bookingID,
		Slot:      booking.NewSlot(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), 60),
	}
	svc := &stubService{available: &booking.Availability{Available: false, Message: c.Message(), Conflict: c}}

	w := executeRequest(newRouter(svc), "POST", "/api/bookings/check-availability", map[string]any{
		"room_id":  roomID,
		"date":     "2025-06-01",
		"time":     "10:30",
		"duration": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp bookingHttp.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	require.NotNil(t, resp.ConflictOn)
	assert.Equal(t, "10:00", resp.ConflictOn.StartTime)
	assert.Equal(t, "11:00", resp.ConflictOn.EndTime)
}
