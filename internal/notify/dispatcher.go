package notify

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/logger"
)

const DefaultTimeout = 5 * time.Second

// Dispatcher fans booking events out to notifiers in the background.
// Publish never blocks the caller: each delivery runs on its own goroutine
// with its own timeout, detached from the request context. Failures are
// logged and never retried. When more than maxInFlight deliveries are
// pending, new ones are dropped.
type Dispatcher struct {
	notifiers []Notifier
	sem       *semaphore.Weighted
	timeout   time.Duration
	log       *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *logger.Logger, timeout time.Duration, maxInFlight int, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Dispatcher{
		notifiers: notifiers,
		sem:       semaphore.NewWeighted(int64(maxInFlight)),
		timeout:   timeout,
		log:       log,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, event booking.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.WarnContext(ctx, "notification dropped after shutdown", "event", event.Type, "booking_id", event.BookingID)
		return
	}

	// The delivery outlives the request that triggered it.
	base := context.WithoutCancel(ctx)
	for _, n := range d.notifiers {
		if !d.sem.TryAcquire(1) {
			d.log.WarnContext(ctx, "notification dropped, too many in flight",
				"notifier", n.Name(), "event", event.Type, "booking_id", event.BookingID)
			continue
		}

		d.wg.Add(1)
		go d.deliver(base, n, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notifier, event booking.Event) {
	defer d.wg.Done()
	defer d.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	if err := n.Notify(ctx, event); err != nil {
		d.log.WarnContext(ctx, "notification failed",
			"notifier", n.Name(), "event", event.Type, "booking_id", event.BookingID, "error", err)
		return
	}
	d.log.DebugContext(ctx, "notification delivered",
		"notifier", n.Name(), "event", event.Type, "booking_id", event.BookingID,
		"duration_ms", time.Since(start).Milliseconds())
}

// Close stops accepting events and waits for in-flight deliveries until ctx
// is done, then closes notifiers that hold resources.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		d.log.Warn("shutdown with notifications still in flight", "error", err)
	}

	for _, n := range d.notifiers {
		if c, ok := n.(io.Closer); ok {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	return err
}
