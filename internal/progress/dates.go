package progress

import (
	"math"
	"sort"
	"time"
)

// All engine dates are naive calendar dates held as UTC midnight instants.

// DateOnly strips the time-of-day and location from t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayNumber returns the ISO weekday of t: 1=Monday .. 7=Sunday.
func WeekdayNumber(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// NormalizeWeekdays deduplicates and sorts a weekday set, rejecting empty
// sets and out-of-range values.
func NormalizeWeekdays(weekdays []int) ([]int, error) {
	if len(weekdays) == 0 {
		return nil, Validationf("weekday set must not be empty")
	}
	seen := make(map[int]bool, len(weekdays))
	out := make([]int, 0, len(weekdays))
	for _, wd := range weekdays {
		if wd < 1 || wd > 7 {
			return nil, Validationf("weekday %d out of range 1..7", wd)
		}
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	sort.Ints(out)
	return out, nil
}

// ValidatePercent checks the 1..100 range shared by target percents.
func ValidatePercent(p int) error {
	if p < 1 || p > 100 {
		return Validationf("percent %d out of range 1..100", p)
	}
	return nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
