package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   int
		last      int
		wantTrend Trend
		wantPct   float64
	}{
		{"both zero", 0, 0, TrendNoChange, 0},
		{"growth from zero", 5, 0, TrendIncrement, 100},
		{"increase", 25, 15, TrendIncrement, 66.66666666666666},
		{"decrease", 10, 20, TrendDecrement, 50},
		{"flat", 7, 7, TrendNoChange, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trend, pct := CalculateTrend(tc.current, tc.last)
			assert.Equal(t, tc.wantTrend, trend)
			assert.InDelta(t, tc.wantPct, pct, 1e-9)
		})
	}
}

func TestNewMonthlyCount(t *testing.T) {
	t.Parallel()
	mc := NewMonthlyCount(218, 176)
	assert.Equal(t, 218, mc.CurrentMonth)
	assert.Equal(t, 176, mc.LastMonth)
	assert.Equal(t, TrendIncrement, mc.Trend)
	assert.InDelta(t, 23.86, mc.Percentage, 0.01)
}

func TestMonthBounds(t *testing.T) {
	t.Parallel()

	prev, cur, next := MonthBounds(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), prev)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cur)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), next)
}
