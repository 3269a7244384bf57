package progress

import "time"

// Schedule enumerates the occurrence dates of a weekday pattern inside an
// inclusive date range. It is a value type with no state between iterations,
// so callers may both count and enumerate the same schedule.
type Schedule struct {
	weekdays map[int]bool
	start    time.Time
	end      time.Time
}

// NewSchedule builds a schedule over [start, end], both inclusive. The
// weekday set uses ISO numbering (1=Monday .. 7=Sunday); values outside that
// range are ignored here since entity validation rejects them upstream.
func NewSchedule(weekdays []int, start, end time.Time) Schedule {
	set := make(map[int]bool, len(weekdays))
	for _, wd := range weekdays {
		set[wd] = true
	}
	return Schedule{weekdays: set, start: DateOnly(start), end: DateOnly(end)}
}

// Each calls fn for every scheduled date in ascending order. Iteration stops
// early when fn returns false.
func (s Schedule) Each(fn func(date time.Time) bool) {
	for d := s.start; !d.After(s.end); d = d.AddDate(0, 0, 1) {
		if s.weekdays[WeekdayNumber(d)] {
			if !fn(d) {
				return
			}
		}
	}
}

// Count returns the number of scheduled dates in the range.
func (s Schedule) Count() int {
	n := 0
	s.Each(func(time.Time) bool {
		n++
		return true
	})
	return n
}

// Dates returns the scheduled dates as a slice.
func (s Schedule) Dates() []time.Time {
	var dates []time.Time
	s.Each(func(d time.Time) bool {
		dates = append(dates, d)
		return true
	})
	return dates
}

// Contains reports whether d is a scheduled date of the pattern within the
// range.
func (s Schedule) Contains(d time.Time) bool {
	d = DateOnly(d)
	if d.Before(s.start) || d.After(s.end) {
		return false
	}
	return s.weekdays[WeekdayNumber(d)]
}
