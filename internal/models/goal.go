package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a top-level tracked objective with a date range. Goals without
// dates are legacy records and are skipped by the calendar views.
type Goal struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title      string             `bson:"title" json:"title"`
	StartDate  *time.Time         `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate    *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	IsArchived bool               `bson:"is_archived" json:"is_archived"`
	ArchivedAt *time.Time         `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasPeriod reports whether the goal carries both dates.
func (g *Goal) HasPeriod() bool {
	return g.StartDate != nil && g.EndDate != nil
}
