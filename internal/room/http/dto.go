package http

import (
	"time"

	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

// RateLookup resolves the half-hour price shown next to each room.
type RateLookup interface {
	Rate(roomName string) float64
}

type RoomResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	Floor            int       `json:"floor"`
	Description      string    `json:"description"`
	Amenities        []string  `json:"amenities"`
	IsAvailable      bool      `json:"is_available"`
	PricePerHalfHour float64   `json:"price_per_half_hour"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewRoomResponse(r *room.Room, rates RateLookup) RoomResponse {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return RoomResponse{
		ID:               r.ID,
		Name:             r.Name,
		Capacity:         r.Capacity,
		Floor:            r.Floor,
		Description:      r.Description,
		Amenities:        amenities,
		IsAvailable:      r.IsAvailable,
		PricePerHalfHour: rates.Rate(r.Name),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	request.ListParams
	IsAvailable *bool `form:"is_available"`
	MinCapacity int   `form:"min_capacity" binding:"omitempty,min=1"`
}

type CreateRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	Floor       int      `json:"floor"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	IsAvailable *bool    `json:"is_available"`
}

type UpdateRoomRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Capacity    *int     `json:"capacity" binding:"omitempty,min=1"`
	Floor       *int     `json:"floor"`
	Description *string  `json:"description"`
	Amenities   []string `json:"amenities"`
	IsAvailable *bool    `json:"is_available"`
}

type DeleteRoomResponse struct {
	Message         string `json:"message"`
	DeletedBookings int64  `json:"deleted_bookings"`
}
