package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecurringAction is a task scheduled on a weekly weekday pattern within a
// period, tracked via per-date completion logs. Weekdays use ISO numbering
// (1=Monday .. 7=Sunday) and are stored deduplicated and sorted.
//
// StartDate/EndDate allow a per-action evaluation period. The aggregation
// currently always falls back to the owning milestone's period; the fields
// are kept in the schema for a future override.
type RecurringAction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MilestoneID   primitive.ObjectID `bson:"milestone_id" json:"milestone_id"`
	Title         string             `bson:"title" json:"title"`
	Weekdays      []int              `bson:"weekdays" json:"weekdays"`
	TargetPercent int                `bson:"target_percent" json:"target_percent"`
	IsCompleted   bool               `bson:"is_completed" json:"is_completed"`
	IsDeleted     bool               `bson:"is_deleted" json:"is_deleted"`
	StartDate     *time.Time         `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate       *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// RecurringActionLog records one execution date of a recurring action.
// There is at most one log per (action, date) pair; repeated logging for the
// same date updates the existing row.
type RecurringActionLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActionID  primitive.ObjectID `bson:"action_id" json:"action_id"`
	Date      time.Time          `bson:"date" json:"date"`
	Completed bool               `bson:"completed" json:"completed"`
}

// OneTimeAction is a single task due once by a deadline date.
type OneTimeAction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MilestoneID primitive.ObjectID `bson:"milestone_id" json:"milestone_id"`
	Title       string             `bson:"title" json:"title"`
	Deadline    time.Time          `bson:"deadline" json:"deadline"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	IsDeleted   bool               `bson:"is_deleted" json:"is_deleted"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
