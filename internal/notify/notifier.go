package notify

import (
	"context"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
)

// Notifier delivers one booking event to an external sink.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event booking.Event) error
}
