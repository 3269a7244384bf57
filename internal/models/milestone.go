package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultActionPercent is the fallback attainment bar for actions created
// without an explicit target.
const DefaultActionPercent = 80

// Milestone is a time-bounded sub-phase of a goal. Within one goal the
// periods of its milestones must not overlap (inclusive on both ends).
type Milestone struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoalID               primitive.ObjectID `bson:"goal_id" json:"goal_id"`
	Title                string             `bson:"title" json:"title"`
	StartDate            time.Time          `bson:"start_date" json:"start_date"`
	EndDate              time.Time          `bson:"end_date" json:"end_date"`
	CompletionCondition  string             `bson:"completion_condition,omitempty" json:"completion_condition,omitempty"`
	DefaultActionPercent int                `bson:"default_action_percent" json:"default_action_percent"`
	IsClosed             bool               `bson:"is_closed" json:"is_closed"`
	IsArchived           bool               `bson:"is_archived" json:"is_archived"`
	ArchivedAt           *time.Time         `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}
