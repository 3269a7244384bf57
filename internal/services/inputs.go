package services

import "time"

// Request payloads decoded by the handlers. Optional fields are pointers so
// that partial updates can tell "absent" from "zero".

// RecurringActionInput creates a recurring action. TargetPercent falls back
// to the owning milestone's default when omitted.
type RecurringActionInput struct {
	Title         string `json:"title"`
	Weekdays      []int  `json:"weekdays"`
	TargetPercent *int   `json:"target_percent,omitempty"`
}

// OneTimeActionInput creates a one-time action.
type OneTimeActionInput struct {
	Title    string    `json:"title"`
	Deadline time.Time `json:"deadline"`
}

// MilestoneInput creates a milestone, optionally pre-populated with actions.
type MilestoneInput struct {
	Title                string                 `json:"title"`
	StartDate            time.Time              `json:"start_date"`
	EndDate              time.Time              `json:"end_date"`
	CompletionCondition  string                 `json:"completion_condition"`
	DefaultActionPercent int                    `json:"default_action_percent"`
	RecurringActions     []RecurringActionInput `json:"recurring_actions"`
	OneTimeActions       []OneTimeActionInput   `json:"one_time_actions"`
}

// GoalInput creates a goal with its initial milestones.
type GoalInput struct {
	Title      string           `json:"title"`
	StartDate  *time.Time       `json:"start_date,omitempty"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	Milestones []MilestoneInput `json:"milestones"`
}

// GoalUpdateInput partially updates a goal.
type GoalUpdateInput struct {
	Title     *string    `json:"title,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// MilestoneUpdateInput partially updates a milestone.
type MilestoneUpdateInput struct {
	Title                *string    `json:"title,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	CompletionCondition  *string    `json:"completion_condition,omitempty"`
	DefaultActionPercent *int       `json:"default_action_percent,omitempty"`
}

// RecurringActionUpdateInput partially updates a recurring action.
type RecurringActionUpdateInput struct {
	Title         *string `json:"title,omitempty"`
	Weekdays      []int   `json:"weekdays,omitempty"`
	TargetPercent *int    `json:"target_percent,omitempty"`
}

// OneTimeActionUpdateInput partially updates a one-time action.
type OneTimeActionUpdateInput struct {
	Title     *string    `json:"title,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

// TaskCreateInput adds a quick one-time task to a milestone from the
// tasks view.
type TaskCreateInput struct {
	MilestoneID string    `json:"milestone_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
}

// LogInput records one execution of a recurring action.
type LogInput struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}
