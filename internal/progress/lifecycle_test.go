package progress

import (
	"testing"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func TestCloseAsIs(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	err := ApplyClose(&m, CloseRequest{Action: CloseAsIs}, MilestoneProgress{Progress: 42.0}, nil)
	require.NoError(t, err)
	assert.True(t, m.IsClosed)
}

func TestCloseRejectedWhenAlreadyClosed(t *testing.T) {
	var sc *StateConflictError
	for _, req := range []CloseRequest{
		{Action: CloseAsIs},
		{Action: ExtendPeriod, NewEndDate: timePtr(date(2024, 2, 1))},
		{Action: ReducePercent, NewTargetPercent: intPtr(10)},
	} {
		m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
		m.IsClosed = true
		err := ApplyClose(&m, req, MilestoneProgress{Progress: 100.0}, nil)
		require.ErrorAs(t, err, &sc, "action %s", req.Action)
	}
}

func TestExtendWidensEndDate(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	err := ApplyClose(&m, CloseRequest{
		Action:     ExtendPeriod,
		NewEndDate: timePtr(date(2024, 1, 20)),
	}, MilestoneProgress{}, nil)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 20), m.EndDate)
	assert.False(t, m.IsClosed, "extend is a period extension, not a closure")
}

func TestExtendRequiresLaterEndDate(t *testing.T) {
	var sc *StateConflictError
	for _, newEnd := range []time.Time{date(2024, 1, 10), date(2024, 1, 5)} {
		m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
		err := ApplyClose(&m, CloseRequest{Action: ExtendPeriod, NewEndDate: timePtr(newEnd)}, MilestoneProgress{}, nil)
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, date(2024, 1, 10), m.EndDate, "no mutation on rejection")
	}
}

func TestExtendRequiresNewEndDate(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	var verr *ValidationError
	err := ApplyClose(&m, CloseRequest{Action: ExtendPeriod}, MilestoneProgress{}, nil)
	require.ErrorAs(t, err, &verr)
}

func TestExtendChecksSiblingOverlap(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	sibling := testMilestone(date(2024, 1, 15), date(2024, 1, 25))
	sibling.Title = "Next phase"

	var pc *PeriodConflictError
	err := ApplyClose(&m, CloseRequest{
		Action:     ExtendPeriod,
		NewEndDate: timePtr(date(2024, 1, 18)),
	}, MilestoneProgress{}, []models.Milestone{sibling})
	require.ErrorAs(t, err, &pc)
	assert.Equal(t, "Next phase", pc.MilestoneTitle)
	assert.Equal(t, date(2024, 1, 10), m.EndDate)

	// A non-overlapping extension passes.
	err = ApplyClose(&m, CloseRequest{
		Action:     ExtendPeriod,
		NewEndDate: timePtr(date(2024, 1, 14)),
	}, MilestoneProgress{}, []models.Milestone{sibling})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 14), m.EndDate)
}

func TestReducePercentBelowProgressCloses(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	err := ApplyClose(&m, CloseRequest{
		Action:           ReducePercent,
		NewTargetPercent: intPtr(55),
	}, MilestoneProgress{Progress: 60.0}, nil)
	require.NoError(t, err)
	assert.True(t, m.IsClosed)
	assert.Equal(t, 55, m.DefaultActionPercent)
	assert.Equal(t, "55%", m.CompletionCondition)
}

// Lowering the bar above what is already met is rejected.
func TestReducePercentAboveProgressRejected(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	var sc *StateConflictError
	err := ApplyClose(&m, CloseRequest{
		Action:           ReducePercent,
		NewTargetPercent: intPtr(95),
	}, MilestoneProgress{Progress: 60.0}, nil)
	require.ErrorAs(t, err, &sc)
	assert.False(t, m.IsClosed)
}

func TestReducePercentValidatesRange(t *testing.T) {
	var verr *ValidationError
	for _, pct := range []int{0, 101} {
		m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
		err := ApplyClose(&m, CloseRequest{Action: ReducePercent, NewTargetPercent: intPtr(pct)}, MilestoneProgress{Progress: 100.0}, nil)
		require.ErrorAs(t, err, &verr)
	}
}

func TestUnknownCloseAction(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	var verr *ValidationError
	err := ApplyClose(&m, CloseRequest{Action: "bogus"}, MilestoneProgress{}, nil)
	require.ErrorAs(t, err, &verr)
}

func TestForceComplete(t *testing.T) {
	m := testMilestone(date(2024, 1, 1), date(2024, 1, 10))
	require.NoError(t, ForceComplete(&m))
	assert.True(t, m.IsClosed)

	var sc *StateConflictError
	require.ErrorAs(t, ForceComplete(&m), &sc)
}
