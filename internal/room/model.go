package room

import (
	"time"

	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("room not found")
	ErrNameRequired    = apperror.Validation("room name is required")
	ErrCapacityInvalid = apperror.Validation("room capacity must be a positive integer")
	ErrNameTaken       = apperror.Conflict("a room with this name already exists")
	ErrNothingToUpdate = apperror.Validation("no fields to update")
)

// Room is a bookable conference room.
type Room struct {
	ID          string
	Name        string
	Capacity    int
	Floor       int
	Description string
	Amenities   []string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	IsAvailable *bool
	MinCapacity int
	Page        int
	PageSize    int
}
