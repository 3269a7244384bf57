package progress

import (
	"testing"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyAction(target int) models.RecurringAction {
	return models.RecurringAction{
		Title:         "Daily action",
		Weekdays:      []int{1, 2, 3, 4, 5, 6, 7},
		TargetPercent: target,
	}
}

func completedLogs(start time.Time, count int) []models.RecurringActionLog {
	logs := make([]models.RecurringActionLog, count)
	for i := range logs {
		logs[i] = models.RecurringActionLog{Date: start.AddDate(0, 0, i), Completed: true}
	}
	return logs
}

// Elapsed period, every day logged: 100% and completed after recompute.
func TestActionFullyLoggedElapsedPeriod(t *testing.T) {
	today := date(2024, 2, 1)
	start, end := today.AddDate(0, 0, -10), today.AddDate(0, 0, -1)

	snap := ActionSnapshot{
		Action: dailyAction(50),
		Logs:   completedLogs(start, 10),
	}
	p := ComputeActionProgress(snap, start, end)

	assert.Equal(t, 10, p.ExpectedCount)
	assert.Equal(t, 10, p.CompletedCount)
	assert.Equal(t, 100.0, p.CurrentPercent)
	assert.True(t, p.IsTargetReached)
	assert.True(t, ActionCompletion(p, end, today))
}

// Elapsed period, 2/10 logged against a 90% bar: far below target.
func TestActionBelowTargetElapsedPeriod(t *testing.T) {
	today := date(2024, 2, 1)
	start, end := today.AddDate(0, 0, -10), today.AddDate(0, 0, -1)

	snap := ActionSnapshot{
		Action: dailyAction(90),
		Logs:   completedLogs(start, 2),
	}
	p := ComputeActionProgress(snap, start, end)

	assert.Equal(t, 20.0, p.CurrentPercent)
	assert.False(t, p.IsTargetReached)
	assert.False(t, ActionCompletion(p, end, today))
}

// Ongoing period with the target already reached: isTargetReached is true
// but the action must not complete until the period elapses.
func TestActionTargetReachedMidPeriodNotCompleted(t *testing.T) {
	today := date(2024, 3, 1)
	start, end := today, today.AddDate(0, 0, 9)

	snap := ActionSnapshot{
		Action: dailyAction(80),
		Logs:   completedLogs(start, 8),
	}
	p := ComputeActionProgress(snap, start, end)

	assert.Equal(t, 10, p.ExpectedCount)
	assert.Equal(t, 80.0, p.CurrentPercent)
	assert.True(t, p.IsTargetReached)
	assert.False(t, ActionCompletion(p, end, today))
}

// Weekday set matching zero days in the period.
func TestActionNoScheduledDays(t *testing.T) {
	// Sunday-only action over Monday..Friday.
	start, end := date(2024, 1, 1), date(2024, 1, 5)
	snap := ActionSnapshot{
		Action: models.RecurringAction{Weekdays: []int{7}, TargetPercent: 50},
	}
	p := ComputeActionProgress(snap, start, end)

	assert.Equal(t, 0, p.ExpectedCount)
	assert.Equal(t, 0.0, p.CurrentPercent)
	assert.False(t, p.IsTargetReached)
}

// ExpectedCount depends only on the period, never on today.
func TestActionExpectedCountIsFixed(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 14)
	snap := ActionSnapshot{Action: dailyAction(50)}

	p := ComputeActionProgress(snap, start, end)
	require.Equal(t, 14, p.ExpectedCount)

	// Logs accrue, expectation does not move.
	snap.Logs = completedLogs(start, 5)
	p2 := ComputeActionProgress(snap, start, end)
	assert.Equal(t, p.ExpectedCount, p2.ExpectedCount)
	assert.Equal(t, 5, p2.CompletedCount)
}

// Logs dated outside the period (e.g. after the period shrank) are ignored.
func TestActionLogsOutsidePeriodExcluded(t *testing.T) {
	start, end := date(2024, 1, 8), date(2024, 1, 14)
	snap := ActionSnapshot{
		Action: dailyAction(50),
		Logs: append(
			completedLogs(date(2024, 1, 1), 7), // all before the period
			completedLogs(date(2024, 1, 8), 3)...,
		),
	}
	p := ComputeActionProgress(snap, start, end)
	assert.Equal(t, 3, p.CompletedCount)
}

// Incomplete logs never count.
func TestActionIncompleteLogsIgnored(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 7)
	snap := ActionSnapshot{
		Action: dailyAction(50),
		Logs: []models.RecurringActionLog{
			{Date: date(2024, 1, 1), Completed: true},
			{Date: date(2024, 1, 2), Completed: false},
		},
	}
	p := ComputeActionProgress(snap, start, end)
	assert.Equal(t, 1, p.CompletedCount)
}

// More completions than nominally expected (weekday set shrank after
// logging) push the percentage above 100; it is not clamped.
func TestActionPercentMayExceedHundred(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 14)
	snap := ActionSnapshot{
		Action: models.RecurringAction{Weekdays: []int{1}, TargetPercent: 100},
		Logs:   completedLogs(start, 4),
	}
	p := ComputeActionProgress(snap, start, end)

	assert.Equal(t, 2, p.ExpectedCount)
	assert.Equal(t, 4, p.CompletedCount)
	assert.Equal(t, 200.0, p.CurrentPercent)
	assert.True(t, p.IsTargetReached)
}

// is_completed never precedes the period end, even at 100%.
func TestActionCompletionRequiresElapsedPeriod(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)
	snap := ActionSnapshot{
		Action: dailyAction(50),
		Logs:   completedLogs(start, 10),
	}
	p := ComputeActionProgress(snap, start, end)
	require.Equal(t, 100.0, p.CurrentPercent)

	assert.False(t, ActionCompletion(p, end, date(2024, 1, 5)))
	assert.False(t, ActionCompletion(p, end, end)) // last day still in progress
	assert.True(t, ActionCompletion(p, end, date(2024, 1, 11)))
}

// Recomputation is fully determined by current data: lowering the logs drives
// the flag back down, it is not sticky.
func TestActionCompletionNotSticky(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)
	today := date(2024, 1, 15)

	snap := ActionSnapshot{Action: dailyAction(80), Logs: completedLogs(start, 10)}
	p := ComputeActionProgress(snap, start, end)
	require.True(t, ActionCompletion(p, end, today))

	snap.Logs = completedLogs(start, 2)
	p = ComputeActionProgress(snap, start, end)
	assert.False(t, ActionCompletion(p, end, today))
}

func TestActionRoundsToOneDecimal(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 3)
	snap := ActionSnapshot{
		Action: dailyAction(30),
		Logs:   completedLogs(start, 1),
	}
	p := ComputeActionProgress(snap, start, end)
	assert.Equal(t, 33.3, p.CurrentPercent)
}
