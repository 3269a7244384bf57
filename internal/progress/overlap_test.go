package progress

import (
	"testing"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOverlapDetected(t *testing.T) {
	existing := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	existing.Title = "January sprint"

	// [Jan 5, Jan 15] shares days with [Jan 1, Jan 10].
	err := ValidateNoOverlap([]models.Milestone{existing}, date(2024, 1, 5), date(2024, 1, 15), primitive.NilObjectID)
	var pc *PeriodConflictError
	require.ErrorAs(t, err, &pc)
	assert.Equal(t, "January sprint", pc.MilestoneTitle)
}

func TestOverlapInclusiveBounds(t *testing.T) {
	existing := []models.Milestone{testMilestone(date(2024, 1, 1), date(2024, 1, 10))}

	// Touching on a single shared day still conflicts.
	err := ValidateNoOverlap(existing, date(2024, 1, 10), date(2024, 1, 20), primitive.NilObjectID)
	assert.Error(t, err)

	// Starting the day after is fine.
	err = ValidateNoOverlap(existing, date(2024, 1, 11), date(2024, 1, 20), primitive.NilObjectID)
	assert.NoError(t, err)

	// Ending the day before is fine.
	err = ValidateNoOverlap(existing, date(2023, 12, 20), date(2023, 12, 31), primitive.NilObjectID)
	assert.NoError(t, err)
}

func TestOverlapContainedRange(t *testing.T) {
	existing := []models.Milestone{testMilestone(date(2024, 1, 1), date(2024, 1, 31))}
	err := ValidateNoOverlap(existing, date(2024, 1, 10), date(2024, 1, 12), primitive.NilObjectID)
	assert.Error(t, err)
}

// Updating a milestone's own dates excludes it from the check.
func TestOverlapExcludesOwnMilestone(t *testing.T) {
	ms := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	err := ValidateNoOverlap([]models.Milestone{ms}, date(2024, 1, 5), date(2024, 1, 12), ms.ID)
	assert.NoError(t, err)
}

func TestOverlapReportsFirstConflict(t *testing.T) {
	first := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	first.Title = "First"
	second := testMilestone(date(2024, 1, 11), date(2024, 1, 20))
	second.Title = "Second"

	err := ValidateNoOverlap([]models.Milestone{first, second}, date(2024, 1, 5), date(2024, 1, 15), primitive.NilObjectID)
	var pc *PeriodConflictError
	require.ErrorAs(t, err, &pc)
	assert.Equal(t, "First", pc.MilestoneTitle)
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod(date(2024, 1, 1), date(2024, 1, 1)))
	assert.NoError(t, ValidatePeriod(date(2024, 1, 1), date(2024, 2, 1)))

	var verr *ValidationError
	require.ErrorAs(t, ValidatePeriod(date(2024, 2, 1), date(2024, 1, 1)), &verr)
}
