package progress

import (
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
)

// ActionProgress is the derived execution state of one recurring action over
// its effective period.
type ActionProgress struct {
	ExpectedCount   int     `json:"expected_count"`
	CompletedCount  int     `json:"completed_count"`
	CurrentPercent  float64 `json:"current_percent"`
	IsTargetReached bool    `json:"is_target_reached"`
}

// ActionSnapshot bundles a recurring action with its completion log for one
// computation. The engine never reads storage itself.
type ActionSnapshot struct {
	Action models.RecurringAction
	Logs   []models.RecurringActionLog
}

// EffectivePeriod returns the date range an action is evaluated over. The
// aggregation always uses the owning milestone's period; the action's own
// start/end fields stay in the schema untouched.
// TODO: honor per-action start/end once the override semantics are settled.
func EffectivePeriod(m models.Milestone) (time.Time, time.Time) {
	return DateOnly(m.StartDate), DateOnly(m.EndDate)
}

// ComputeActionProgress derives expected/completed counts and target
// attainment for one recurring action over [periodStart, periodEnd].
//
// ExpectedCount covers the entire nominal period, not bounded by today, so
// the percentage grows monotonically as logs accrue instead of drifting as
// days pass. CompletedCount only counts completed logs dated inside the
// period; a log outside it (left over from a shrunk period) is ignored. The
// percentage is not clamped at 100: extra completions after a weekday-set
// change legitimately push it above.
func ComputeActionProgress(snap ActionSnapshot, periodStart, periodEnd time.Time) ActionProgress {
	sched := NewSchedule(snap.Action.Weekdays, periodStart, periodEnd)
	expected := sched.Count()

	completed := 0
	start, end := DateOnly(periodStart), DateOnly(periodEnd)
	for _, log := range snap.Logs {
		d := DateOnly(log.Date)
		if log.Completed && !d.Before(start) && !d.After(end) {
			completed++
		}
	}

	var percent float64
	if expected > 0 {
		percent = round1(100 * float64(completed) / float64(expected))
	}

	return ActionProgress{
		ExpectedCount:   expected,
		CompletedCount:  completed,
		CurrentPercent:  percent,
		IsTargetReached: percent >= float64(snap.Action.TargetPercent),
	}
}

// ActionCompletion decides the persisted is_completed flag: the period must
// have fully elapsed AND the target must be reached. A momentarily reached
// target mid-period never completes the action, and the result is fully
// determined by current data, so recomputation is idempotent and the flag is
// not sticky.
func ActionCompletion(p ActionProgress, periodEnd, today time.Time) bool {
	return DateOnly(today).After(DateOnly(periodEnd)) && p.IsTargetReached
}
