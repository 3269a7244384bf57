package progress

import (
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MilestoneSnapshot is the full input of one milestone aggregation: the
// milestone plus its actions and their logs, as loaded by the caller.
type MilestoneSnapshot struct {
	Milestone models.Milestone
	Recurring []ActionSnapshot
	OneTime   []models.OneTimeAction
}

// GoalSnapshot is the full input of one goal aggregation.
type GoalSnapshot struct {
	Goal       models.Goal
	Milestones []MilestoneSnapshot
}

// MilestoneProgress is the aggregate progress figure of one milestone.
type MilestoneProgress struct {
	Progress                float64 `json:"progress"`
	ActionsCompletedCount   int     `json:"actions_completed_count"`
	ActionsTotalCount       int     `json:"actions_total_count"`
	AllActionsReachedTarget bool    `json:"all_actions_reached_target"`
}

// ActionResult pairs a recurring action with its freshly computed progress
// and completion flag. IsCompleted is the recomputed value as of today;
// callers persist it when it differs from the stored flag.
type ActionResult struct {
	ActionID primitive.ObjectID
	ActionProgress
	IsCompleted bool
}

// MilestoneResult is the aggregate plus the per-action breakdown.
type MilestoneResult struct {
	MilestoneProgress
	Actions []ActionResult
}

// GoalProgress is the goal-level aggregate.
type GoalProgress struct {
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"is_completed"`
}

// ComputeMilestone folds the active actions of one milestone into an
// aggregate progress figure.
//
// Soft-deleted actions are skipped entirely. Recurring actions contribute
// their current percent to the average and count as completed only via the
// recomputed is_completed (period elapsed and target reached), never via a
// mid-period isTargetReached. One-time actions contribute 100 or 0 and count
// as completed iff done. A milestone with no active actions has zero
// progress and is never considered satisfied.
func ComputeMilestone(snap MilestoneSnapshot, today time.Time) MilestoneResult {
	start, end := EffectivePeriod(snap.Milestone)

	var res MilestoneResult
	var sum float64

	for _, as := range snap.Recurring {
		if as.Action.IsDeleted {
			continue
		}
		p := ComputeActionProgress(as, start, end)
		done := ActionCompletion(p, end, today)
		res.Actions = append(res.Actions, ActionResult{
			ActionID:       as.Action.ID,
			ActionProgress: p,
			IsCompleted:    done,
		})
		res.ActionsTotalCount++
		sum += p.CurrentPercent
		if done {
			res.ActionsCompletedCount++
		}
	}

	for _, ota := range snap.OneTime {
		if ota.IsDeleted {
			continue
		}
		res.ActionsTotalCount++
		if ota.Completed {
			sum += 100
			res.ActionsCompletedCount++
		}
	}

	if res.ActionsTotalCount > 0 {
		res.Progress = round1(sum / float64(res.ActionsTotalCount))
		res.AllActionsReachedTarget = res.ActionsCompletedCount == res.ActionsTotalCount
	}
	return res
}

// ComputeGoal folds the non-archived milestones of a goal into a goal-level
// progress and completion flag. A milestone explicitly closed by the user
// counts as satisfied regardless of its numbers. A goal with no active
// milestones is never completed.
func ComputeGoal(snap GoalSnapshot, today time.Time) (GoalProgress, []MilestoneResult) {
	results := make([]MilestoneResult, len(snap.Milestones))

	var sum float64
	active := 0
	allSatisfied := true

	for i, ms := range snap.Milestones {
		results[i] = ComputeMilestone(ms, today)
		if ms.Milestone.IsArchived {
			continue
		}
		active++
		sum += results[i].Progress
		if !results[i].AllActionsReachedTarget && !ms.Milestone.IsClosed {
			allSatisfied = false
		}
	}

	if active == 0 {
		return GoalProgress{}, results
	}
	return GoalProgress{
		Progress:    round1(sum / float64(active)),
		IsCompleted: allSatisfied,
	}, results
}
