package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// View types returned by the API. Progress figures are computed on read by
// the progress engine, never stored on the entities themselves (except the
// per-action is_completed flag, which is materialized lazily).

// RecurringActionView is a recurring action plus its derived progress.
type RecurringActionView struct {
	RecurringAction
	ExpectedCount   int     `json:"expected_count"`
	CompletedCount  int     `json:"completed_count"`
	CurrentPercent  float64 `json:"current_percent"`
	IsTargetReached bool    `json:"is_target_reached"`
}

// MilestoneView is a milestone plus its aggregate progress and the views of
// its active actions.
type MilestoneView struct {
	Milestone
	Progress                float64               `json:"progress"`
	ActionsCompletedCount   int                   `json:"actions_completed_count"`
	ActionsTotalCount       int                   `json:"actions_total_count"`
	AllActionsReachedTarget bool                  `json:"all_actions_reached_target"`
	RecurringActions        []RecurringActionView `json:"recurring_actions"`
	OneTimeActions          []OneTimeAction       `json:"one_time_actions"`
}

// GoalView is a goal plus its aggregate progress and milestone views.
type GoalView struct {
	Goal
	Progress    float64         `json:"progress"`
	IsCompleted bool            `json:"is_completed"`
	Milestones  []MilestoneView `json:"milestones"`
}

// TaskView is one entry of the unified upcoming-tasks list: either a single
// scheduled occurrence of a recurring action or a one-time action.
type TaskView struct {
	ID             string              `json:"id"`
	Type           string              `json:"type"` // "recurring" | "one-time"
	Title          string              `json:"title"`
	Date           time.Time           `json:"date"`
	MilestoneID    primitive.ObjectID  `json:"milestone_id"`
	MilestoneTitle string              `json:"milestone_title"`
	Completed      bool                `json:"completed"`
	OriginalID     primitive.ObjectID  `json:"original_id"`
	LogID          *primitive.ObjectID `json:"log_id,omitempty"`
}

// CalendarTask is a task entry shown inside a calendar day cell.
type CalendarTask struct {
	ID        primitive.ObjectID `json:"id"`
	Type      string             `json:"type"`
	Title     string             `json:"title"`
	Completed bool               `json:"completed"`
	GoalID    primitive.ObjectID `json:"goal_id"`
	GoalColor string             `json:"goal_color"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date  time.Time      `json:"date"`
	Tasks []CalendarTask `json:"tasks"`
}

// GoalTimelineEntry is one bar of the goals timeline.
type GoalTimelineEntry struct {
	GoalID    primitive.ObjectID `json:"goal_id"`
	Title     string             `json:"title"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Color     string             `json:"color"`
	Progress  float64            `json:"progress"`
}
