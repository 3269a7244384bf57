package progress

import (
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FindOverlap returns the first milestone whose [start, end] period shares a
// calendar day with the candidate range, or nil. Both ends are inclusive:
// two periods overlap when startA <= endB AND startB <= endA. A milestone
// with excludeID is skipped, which covers the "update this milestone's own
// dates" case.
func FindOverlap(milestones []models.Milestone, candidateStart, candidateEnd time.Time, excludeID primitive.ObjectID) *models.Milestone {
	cs, ce := DateOnly(candidateStart), DateOnly(candidateEnd)
	for i := range milestones {
		ms := &milestones[i]
		if ms.ID == excludeID {
			continue
		}
		if !cs.After(DateOnly(ms.EndDate)) && !DateOnly(ms.StartDate).After(ce) {
			return ms
		}
	}
	return nil
}

// ValidateNoOverlap wraps FindOverlap into the error taxonomy, reporting the
// first conflicting milestone by title.
func ValidateNoOverlap(milestones []models.Milestone, candidateStart, candidateEnd time.Time, excludeID primitive.ObjectID) error {
	if ms := FindOverlap(milestones, candidateStart, candidateEnd, excludeID); ms != nil {
		return &PeriodConflictError{MilestoneTitle: ms.Title}
	}
	return nil
}

// ValidatePeriod checks the basic end >= start invariant shared by goals and
// milestones.
func ValidatePeriod(start, end time.Time) error {
	if DateOnly(end).Before(DateOnly(start)) {
		return Validationf("end date must not be before start date")
	}
	return nil
}
