package domain

import (
	"math"
	"time"
)

// Trend describes the direction of a month-over-month change.
type Trend string

// Possible trend values
const (
	TrendIncrement Trend = "increment"
	TrendDecrement Trend = "decrement"
	TrendNoChange  Trend = "no change"
)

// MonthlyCount compares activity in the current and the previous month.
type MonthlyCount struct {
	CurrentMonth int     `json:"currentMonth"`
	LastMonth    int     `json:"lastMonth"`
	Trend        Trend   `json:"trend"`
	Percentage   float64 `json:"percentage"`
}

// NewMonthlyCount computes the trend between two monthly counts.
func NewMonthlyCount(current, last int) MonthlyCount {
	trend, pct := CalculateTrend(current, last)
	return MonthlyCount{CurrentMonth: current, LastMonth: last, Trend: trend, Percentage: pct}
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers   int          `json:"totalUsers"`
	UsersJoined  MonthlyCount `json:"usersJoined"`
	TotalTrips   int          `json:"totalTrips"`
	TripsCreated MonthlyCount `json:"tripsCreated"`
}

// CalculateTrend returns the direction and the absolute percentage change
// from last to current. Growth from zero is reported as 100%.
func CalculateTrend(current, last int) (Trend, float64) {
	if last == 0 {
		if current == 0 {
			return TrendNoChange, 0
		}
		return TrendIncrement, 100
	}

	change := current - last
	pct := math.Abs(float64(change) / float64(last) * 100)

	switch {
	case change > 0:
		return TrendIncrement, pct
	case change < 0:
		return TrendDecrement, pct
	default:
		return TrendNoChange, 0
	}
}

// MonthBounds returns the start of the month containing now, the start of
// the previous month and the start of the next month, in now's location.
func MonthBounds(now time.Time) (prevStart, curStart, nextStart time.Time) {
	curStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return curStart.AddDate(0, -1, 0), curStart, curStart.AddDate(0, 1, 0)
}
