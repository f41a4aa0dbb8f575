package booking

import (
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Slot is a half-open interval [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

func NewSlot(start time.Time, durationMinutes int) Slot {
	return Slot{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps reports whether two slots share any instant. Slots that only
// touch (one ends exactly when the other starts) do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// WithinDay reports whether the slot ends no later than midnight following
// its start.
func (s Slot) WithinDay() bool {
	y, m, d := s.Start.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, s.Start.Location())
	return !s.End.After(midnight)
}

func (s Slot) String() string {
	return s.Start.Format(ClockLayout) + "-" + s.End.Format(ClockLayout)
}

// ParseDate parses YYYY-MM-DD as a naive calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParseStart combines a YYYY-MM-DD date and an HH:MM time of day.
func ParseStart(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(ClockLayout, clock, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// startOfDay truncates t to its calendar date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
