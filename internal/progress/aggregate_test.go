package progress

import (
	"testing"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testMilestone(start, end time.Time) models.Milestone {
	return models.Milestone{
		ID:                   primitive.NewObjectID(),
		Title:                "Test milestone",
		StartDate:            start,
		EndDate:              end,
		DefaultActionPercent: models.DefaultActionPercent,
	}
}

func recurringSnap(target int, logs []models.RecurringActionLog) ActionSnapshot {
	a := dailyAction(target)
	a.ID = primitive.NewObjectID()
	return ActionSnapshot{Action: a, Logs: logs}
}

func TestMilestoneWithNoActions(t *testing.T) {
	snap := MilestoneSnapshot{Milestone: testMilestone(date(2024, 1, 1), date(2024, 1, 10))}
	res := ComputeMilestone(snap, date(2024, 1, 5))

	assert.Equal(t, 0.0, res.Progress)
	assert.Equal(t, 0, res.ActionsTotalCount)
	assert.False(t, res.AllActionsReachedTarget)
}

func TestMilestoneMixedActions(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)
	today := date(2024, 1, 20) // period elapsed

	snap := MilestoneSnapshot{
		Milestone: testMilestone(start, end),
		Recurring: []ActionSnapshot{
			recurringSnap(50, completedLogs(start, 10)), // 100%, completed
			recurringSnap(90, completedLogs(start, 5)),  // 50%, below target
		},
		OneTime: []models.OneTimeAction{
			{Title: "Done", Completed: true},
			{Title: "Open", Completed: false},
		},
	}
	res := ComputeMilestone(snap, today)

	assert.Equal(t, 4, res.ActionsTotalCount)
	assert.Equal(t, 2, res.ActionsCompletedCount)
	// (100 + 50 + 100 + 0) / 4
	assert.Equal(t, 62.5, res.Progress)
	assert.False(t, res.AllActionsReachedTarget)
}

// A recurring action whose target is reached mid-period contributes its
// percent but must not count as completed.
func TestMilestoneMidPeriodTargetDoesNotCount(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)
	today := date(2024, 1, 5) // period ongoing

	snap := MilestoneSnapshot{
		Milestone: testMilestone(start, end),
		Recurring: []ActionSnapshot{
			recurringSnap(30, completedLogs(start, 5)), // 50% >= 30% target
		},
	}
	res := ComputeMilestone(snap, today)

	require.Len(t, res.Actions, 1)
	assert.True(t, res.Actions[0].IsTargetReached)
	assert.False(t, res.Actions[0].IsCompleted)
	assert.Equal(t, 0, res.ActionsCompletedCount)
	assert.False(t, res.AllActionsReachedTarget)
}

func TestMilestoneAllActionsCompleted(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)
	today := date(2024, 1, 15)

	snap := MilestoneSnapshot{
		Milestone: testMilestone(start, end),
		Recurring: []ActionSnapshot{
			recurringSnap(50, completedLogs(start, 10)),
			recurringSnap(50, completedLogs(start, 10)),
		},
		OneTime: []models.OneTimeAction{{Title: "Ship it", Completed: true}},
	}
	res := ComputeMilestone(snap, today)

	assert.Equal(t, 3, res.ActionsTotalCount)
	assert.Equal(t, 3, res.ActionsCompletedCount)
	assert.True(t, res.AllActionsReachedTarget)
	assert.Equal(t, 100.0, res.Progress)
}

func TestMilestoneSkipsDeletedActions(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 10)

	deleted := recurringSnap(50, completedLogs(start, 10))
	deleted.Action.IsDeleted = true

	snap := MilestoneSnapshot{
		Milestone: testMilestone(start, end),
		Recurring: []ActionSnapshot{deleted},
		OneTime: []models.OneTimeAction{
			{Title: "Gone", Completed: true, IsDeleted: true},
			{Title: "Kept", Completed: false},
		},
	}
	res := ComputeMilestone(snap, date(2024, 1, 15))

	assert.Equal(t, 1, res.ActionsTotalCount)
	assert.Equal(t, 0.0, res.Progress)
}

func TestGoalWithNoActiveMilestones(t *testing.T) {
	archived := MilestoneSnapshot{Milestone: testMilestone(date(2024, 1, 1), date(2024, 1, 10))}
	archived.Milestone.IsArchived = true

	gp, _ := ComputeGoal(GoalSnapshot{Milestones: []MilestoneSnapshot{archived}}, date(2024, 1, 5))
	assert.Equal(t, 0.0, gp.Progress)
	assert.False(t, gp.IsCompleted)

	gp, _ = ComputeGoal(GoalSnapshot{}, date(2024, 1, 5))
	assert.False(t, gp.IsCompleted)
}

func TestGoalAveragesActiveMilestones(t *testing.T) {
	start1, end1 := date(2024, 1, 1), date(2024, 1, 10)
	start2, end2 := date(2024, 1, 11), date(2024, 1, 20)
	today := date(2024, 1, 25)

	ms1 := MilestoneSnapshot{
		Milestone: testMilestone(start1, end1),
		Recurring: []ActionSnapshot{recurringSnap(50, completedLogs(start1, 10))}, // 100%
	}
	ms2 := MilestoneSnapshot{
		Milestone: testMilestone(start2, end2),
		Recurring: []ActionSnapshot{recurringSnap(50, completedLogs(start2, 5))}, // 50%
	}
	archived := MilestoneSnapshot{Milestone: testMilestone(date(2024, 2, 1), date(2024, 2, 10))}
	archived.Milestone.IsArchived = true

	gp, results := ComputeGoal(GoalSnapshot{Milestones: []MilestoneSnapshot{ms1, ms2, archived}}, today)

	require.Len(t, results, 3)
	assert.Equal(t, 75.0, gp.Progress)
	assert.False(t, gp.IsCompleted) // ms2 below target and not closed
}

// A closed milestone counts as satisfied regardless of its numbers.
func TestGoalClosedMilestoneCountsAsSatisfied(t *testing.T) {
	start1, end1 := date(2024, 1, 1), date(2024, 1, 10)
	start2, end2 := date(2024, 1, 11), date(2024, 1, 20)
	today := date(2024, 1, 25)

	done := MilestoneSnapshot{
		Milestone: testMilestone(start1, end1),
		Recurring: []ActionSnapshot{recurringSnap(50, completedLogs(start1, 10))},
	}
	abandoned := MilestoneSnapshot{
		Milestone: testMilestone(start2, end2),
		Recurring: []ActionSnapshot{recurringSnap(90, nil)}, // 0%
	}
	abandoned.Milestone.IsClosed = true

	gp, _ := ComputeGoal(GoalSnapshot{Milestones: []MilestoneSnapshot{done, abandoned}}, today)
	assert.True(t, gp.IsCompleted)
	assert.Equal(t, 50.0, gp.Progress)
}
