package progress

import (
	"fmt"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
)

// CloseAction selects one of the milestone closure transitions.
type CloseAction string

const (
	// CloseAsIs freezes the milestone's current progress as final.
	CloseAsIs CloseAction = "close_as_is"
	// ExtendPeriod widens the milestone's end date without closing it.
	ExtendPeriod CloseAction = "extend"
	// ReducePercent lowers the default target to a level already met and
	// closes the milestone.
	ReducePercent CloseAction = "reduce_percent"
)

// CloseRequest carries the transition choice and its parameters.
type CloseRequest struct {
	Action           CloseAction `json:"action"`
	NewEndDate       *time.Time  `json:"new_end_date,omitempty"`
	NewTargetPercent *int        `json:"new_completion_percent,omitempty"`
}

// ApplyClose runs the milestone closure state machine, mutating m on
// success. current is the milestone's aggregate progress as of now; siblings
// are the other milestones of the same goal, used to re-validate periods on
// extend. No transition is permitted on an already-closed milestone,
// including extend.
func ApplyClose(m *models.Milestone, req CloseRequest, current MilestoneProgress, siblings []models.Milestone) error {
	if m.IsClosed {
		return StateConflictf("milestone %q is already closed", m.Title)
	}

	switch req.Action {
	case CloseAsIs:
		m.IsClosed = true

	case ExtendPeriod:
		if req.NewEndDate == nil {
			return Validationf("new_end_date is required for extend")
		}
		newEnd := DateOnly(*req.NewEndDate)
		if !newEnd.After(DateOnly(m.EndDate)) {
			return StateConflictf("new end date must be later than the current end date")
		}
		if err := ValidateNoOverlap(siblings, DateOnly(m.StartDate), newEnd, m.ID); err != nil {
			return err
		}
		m.EndDate = newEnd

	case ReducePercent:
		if req.NewTargetPercent == nil {
			return Validationf("new_completion_percent is required for reduce_percent")
		}
		pct := *req.NewTargetPercent
		if err := ValidatePercent(pct); err != nil {
			return err
		}
		if float64(pct) > current.Progress {
			return StateConflictf("new percent (%d%%) exceeds current progress (%.1f%%)", pct, current.Progress)
		}
		m.DefaultActionPercent = pct
		m.CompletionCondition = fmt.Sprintf("%d%%", pct)
		m.IsClosed = true

	default:
		return Validationf("unknown close action %q", req.Action)
	}
	return nil
}

// ForceComplete closes a milestone unconditionally given an explicit user
// confirmation.
func ForceComplete(m *models.Milestone) error {
	if m.IsClosed {
		return StateConflictf("milestone %q is already closed", m.Title)
	}
	m.IsClosed = true
	return nil
}
