// Package pricing computes booking prices from a per-room half-hour rate table.
package pricing

import "math"

// DefaultRate applies to rooms missing from the rate table.
const DefaultRate = 1000.0

// Rates maps a room name to its price per 30 minutes.
type Rates map[string]float64

// DefaultRates is the tier table of the seeded catalog.
func DefaultRates() Rates {
	return Rates{
		"Executive Board Room": 1500,
		"Innovation Hub":       1000,
		"Focus Room":           500,
	}
}

// Calculator prices bookings. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	rates    Rates
	fallback float64
}

// NewCalculator returns a Calculator over a copy of rates.
func NewCalculator(rates Rates, fallback float64) *Calculator {
	cp := make(Rates, len(rates))
	for name, rate := range rates {
		cp[name] = rate
	}
	return &Calculator{rates: cp, fallback: fallback}
}

// NewDefaultCalculator uses DefaultRates and DefaultRate.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultRates(), DefaultRate)
}

// Rate returns the price per half hour for the room.
func (c *Calculator) Rate(roomName string) float64 {
	if rate, ok := c.rates[roomName]; ok {
		return rate
	}
	return c.fallback
}

// Price returns rate/30 * durationMinutes rounded to cents.
func (c *Calculator) Price(roomName string, durationMinutes int) float64 {
	return roundCents(c.Rate(roomName) / 30 * float64(durationMinutes))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
