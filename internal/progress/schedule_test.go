package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2024-01-01 is a Monday.
func TestScheduleCount(t *testing.T) {
	// Mon+Wed+Fri over two full weeks.
	s := NewSchedule([]int{1, 3, 5}, date(2024, 1, 1), date(2024, 1, 14))
	assert.Equal(t, 6, s.Count())

	// Every day over ten days.
	daily := NewSchedule([]int{1, 2, 3, 4, 5, 6, 7}, date(2024, 1, 1), date(2024, 1, 10))
	assert.Equal(t, 10, daily.Count())

	// Single-day range matching its own weekday.
	mon := NewSchedule([]int{1}, date(2024, 1, 1), date(2024, 1, 1))
	assert.Equal(t, 1, mon.Count())
}

func TestScheduleDates(t *testing.T) {
	s := NewSchedule([]int{6, 7}, date(2024, 1, 1), date(2024, 1, 14))
	dates := s.Dates()
	require.Len(t, dates, 4)
	assert.Equal(t, date(2024, 1, 6), dates[0])
	assert.Equal(t, date(2024, 1, 7), dates[1])
	assert.Equal(t, date(2024, 1, 13), dates[2])
	assert.Equal(t, date(2024, 1, 14), dates[3])
}

func TestScheduleIsRestartable(t *testing.T) {
	s := NewSchedule([]int{2, 4}, date(2024, 1, 1), date(2024, 1, 31))
	first := s.Count()
	second := s.Count()
	assert.Equal(t, first, second)
	assert.Len(t, s.Dates(), first)
}

func TestScheduleEachStopsEarly(t *testing.T) {
	s := NewSchedule([]int{1, 2, 3, 4, 5, 6, 7}, date(2024, 1, 1), date(2024, 1, 31))
	seen := 0
	s.Each(func(time.Time) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}

func TestScheduleNoMatchingDays(t *testing.T) {
	// Sunday-only pattern over a Monday..Friday range.
	s := NewSchedule([]int{7}, date(2024, 1, 1), date(2024, 1, 5))
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Dates())
}

func TestScheduleContains(t *testing.T) {
	s := NewSchedule([]int{1}, date(2024, 1, 1), date(2024, 1, 31))
	assert.True(t, s.Contains(date(2024, 1, 8)))
	assert.False(t, s.Contains(date(2024, 1, 9)))   // Tuesday
	assert.False(t, s.Contains(date(2024, 2, 5)))   // Monday outside range
	assert.False(t, s.Contains(date(2023, 12, 25))) // before range
}

func TestWeekdayNumber(t *testing.T) {
	assert.Equal(t, 1, WeekdayNumber(date(2024, 1, 1))) // Monday
	assert.Equal(t, 7, WeekdayNumber(date(2024, 1, 7))) // Sunday
}

func TestNormalizeWeekdays(t *testing.T) {
	got, err := NormalizeWeekdays([]int{5, 1, 3, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, got)

	_, err = NormalizeWeekdays(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = NormalizeWeekdays([]int{0})
	require.ErrorAs(t, err, &verr)

	_, err = NormalizeWeekdays([]int{8})
	require.ErrorAs(t, err, &verr)
}

func TestGoalColorWrapsAround(t *testing.T) {
	assert.Equal(t, GoalColor(0), GoalColor(8))
	assert.NotEqual(t, GoalColor(0), GoalColor(1))
	for i := 0; i < 20; i++ {
		assert.NotEmpty(t, GoalColor(i))
	}
}
