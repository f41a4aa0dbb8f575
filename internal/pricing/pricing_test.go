package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	calc := NewDefaultCalculator()

	tests := []struct {
		name     string
		room     string
		duration int
		want     float64
	}{
		{"focus room one hour", "Focus Room", 60, 1000},
		{"focus room half hour", "Focus Room", 30, 500},
		{"innovation hub 90 minutes", "Innovation Hub", 90, 3000},
		{"executive board room two hours", "Executive Board Room", 120, 6000},
		{"unknown room falls back to default", "Broom Closet", 30, DefaultRate},
		{"fractional minutes round to cents", "Focus Room", 7, 116.67},
		{"maximum duration", "Focus Room", 480, 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.Price(tt.room, tt.duration), 0.001)
		})
	}
}

func TestPriceIsLinearInDuration(t *testing.T) {
	calc := NewDefaultCalculator()

	for _, room := range []string{"Focus Room", "Innovation Hub", "Executive Board Room", "unknown"} {
		perMinute := calc.Rate(room) / 30
		for d := 1; d <= 480; d++ {
			// Rounding to cents bounds the drift by half a cent.
			assert.InDelta(t, perMinute*float64(d), calc.Price(room, d), 0.005, "room=%s duration=%d", room, d)
		}
	}
}

func TestNewCalculatorCopiesRates(t *testing.T) {
	rates := Rates{"Lab": 300}
	calc := NewCalculator(rates, 100)

	rates["Lab"] = 9999

	assert.Equal(t, 300.0, calc.Rate("Lab"))
	assert.Equal(t, 100.0, calc.Rate("Other"))
}
