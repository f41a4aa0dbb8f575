package http

import (
	"time"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/request"
)

type BookingResponse struct {
	ID                string         `json:"id"`
	RoomID            string         `json:"room_id"`
	RoomName          string         `json:"room_name"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Date              string         `json:"date"`
	Time              string         `json:"time"`
	EndTime           string         `json:"end_time"`
	Duration          int            `json:"duration"`
	Attendees         int            `json:"attendees"`
	Purpose           string         `json:"purpose"`
	Price             float64        `json:"price"`
	Status            booking.Status `json:"status"`
	ModificationCount int            `json:"modification_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		RoomID:            b.RoomID,
		RoomName:          b.RoomName,
		Name:              b.Name,
		Email:             b.Email,
		Date:              b.Date(),
		Time:              b.Clock(),
		EndTime:           b.Slot().End.Format(booking.ClockLayout),
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

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	Date   string `form:"date"`
	Status string `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
}

type CreateBookingRequest struct {
	RoomID    string `json:"room_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Duration  *int   `json:"duration" binding:"required"`
	Attendees *int   `json:"attendees" binding:"required"`
	Purpose   string `json:"purpose"`
}

// UpdateBookingRequest is a partial patch; absent fields keep their value.
type UpdateBookingRequest struct {
	RoomID    *string `json:"room_id"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Duration  *int    `json:"duration"`
	Attendees *int    `json:"attendees"`
	Purpose   *string `json:"purpose"`
}

type CheckAvailabilityRequest struct {
	RoomID           string `json:"room_id" binding:"required,uuid"`
	Date             string `json:"date" binding:"required"`
	Time             string `json:"time" binding:"required"`
	Duration         *int   `json:"duration" binding:"required"`
	ExcludeBookingID string `json:"exclude_booking_id" binding:"omitempty,uuid"`
}

type ConflictResponse struct {
	BookingID string `json:"booking_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityResponse struct {
	Available  bool              `json:"available"`
	Message    string            `json:"message"`
	ConflictOn *ConflictResponse `json:"conflict,omitempty"`
}

func NewAvailabilityResponse(a *booking.Availability) AvailabilityResponse {
	resp := AvailabilityResponse{
		Available: a.Available,
		Message:   a.Message,
	}
	if a.Conflict != nil {
		resp.ConflictOn = &ConflictResponse{
			BookingID: a.Conflict.BookingID,
			StartTime: a.Conflict.Slot.Start.Format(booking.ClockLayout),
			EndTime:   a.Conflict.Slot.End.Format(booking.ClockLayout),
		}
	}
	return resp
}
