package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/internal/repository"
	"github.com/aibek-dev/goaltrack/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MilestoneService encapsulates the business logic for milestones and their
// derived progress. Reading a milestone's progress is also the trigger point
// for lazily materializing expired-action completion state.
type MilestoneService struct {
	repo          *repository.MilestoneRepository
	goalRepo      *repository.GoalRepository
	recurringRepo *repository.RecurringActionRepository
	oneTimeRepo   *repository.OneTimeActionRepository
}

// NewMilestoneService creates a new instance of MilestoneService.
func NewMilestoneService(
	repo *repository.MilestoneRepository,
	goalRepo *repository.GoalRepository,
	recurringRepo *repository.RecurringActionRepository,
	oneTimeRepo *repository.OneTimeActionRepository,
) *MilestoneService {
	return &MilestoneService{
		repo:          repo,
		goalRepo:      goalRepo,
		recurringRepo: recurringRepo,
		oneTimeRepo:   oneTimeRepo,
	}
}

// GetOwnedMilestone fetches a milestone and verifies ownership through its
// goal. A milestone of another user is reported as not found.
func (s *MilestoneService) GetOwnedMilestone(ctx context.Context, milestoneID, userID primitive.ObjectID) (*models.Milestone, error) {
	ms, err := s.repo.GetMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get milestone: %v", err)
	}
	if ms == nil {
		return nil, progress.ErrNotFound
	}

	goal, err := s.goalRepo.GetGoalByID(ctx, ms.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owning goal: %v", err)
	}
	if goal == nil || goal.UserID != userID {
		return nil, progress.ErrNotFound
	}
	return ms, nil
}

// LoadSnapshot gathers a milestone's actions and logs into one engine input.
func (s *MilestoneService) LoadSnapshot(ctx context.Context, ms models.Milestone) (progress.MilestoneSnapshot, error) {
	snap := progress.MilestoneSnapshot{Milestone: ms}

	actions, err := s.recurringRepo.GetActionsByMilestone(ctx, ms.ID, false)
	if err != nil {
		return snap, fmt.Errorf("failed to load recurring actions: %v", err)
	}
	for _, action := range actions {
		logs, err := s.recurringRepo.GetLogs(ctx, action.ID)
		if err != nil {
			return snap, fmt.Errorf("failed to load action logs: %v", err)
		}
		snap.Recurring = append(snap.Recurring, progress.ActionSnapshot{Action: action, Logs: logs})
	}

	snap.OneTime, err = s.oneTimeRepo.GetActionsByMilestone(ctx, ms.ID, false)
	if err != nil {
		return snap, fmt.Errorf("failed to load one-time actions: %v", err)
	}
	return snap, nil
}

// persistStaleCompletions writes back every is_completed flag whose
// recomputed value differs from the stored one.
func (s *MilestoneService) persistStaleCompletions(ctx context.Context, snap progress.MilestoneSnapshot, res progress.MilestoneResult) {
	stored := make(map[primitive.ObjectID]bool, len(snap.Recurring))
	for _, as := range snap.Recurring {
		stored[as.Action.ID] = as.Action.IsCompleted
	}
	for _, ar := range res.Actions {
		if stored[ar.ActionID] == ar.IsCompleted {
			continue
		}
		if err := s.recurringRepo.SetActionCompleted(ctx, ar.ActionID, ar.IsCompleted); err != nil {
			logger.Log.WithError(err).WithField("action_id", ar.ActionID.Hex()).Warn("Failed to persist recomputed completion")
		}
	}
}

// ComputeView computes a milestone's aggregate progress, persists any stale
// per-action completion flags and shapes the API view.
func (s *MilestoneService) ComputeView(ctx context.Context, ms models.Milestone) (*models.MilestoneView, error) {
	snap, err := s.LoadSnapshot(ctx, ms)
	if err != nil {
		return nil, err
	}

	today := progress.DateOnly(time.Now())
	res := progress.ComputeMilestone(snap, today)
	s.persistStaleCompletions(ctx, snap, res)

	view := buildMilestoneView(snap, res)
	return &view, nil
}

// ValidatePeriod checks a candidate milestone period against the basic date
// invariant and the goal's other milestones. Archived siblings are included:
// a period freed by archiving stays reserved until the milestone is gone.
func (s *MilestoneService) ValidatePeriod(ctx context.Context, goalID primitive.ObjectID, start, end time.Time, excludeID primitive.ObjectID) error {
	if err := progress.ValidatePeriod(start, end); err != nil {
		return err
	}
	siblings, err := s.repo.GetMilestonesByGoal(ctx, goalID, true)
	if err != nil {
		return fmt.Errorf("failed to load milestones for validation: %v", err)
	}
	return progress.ValidateNoOverlap(siblings, start, end, excludeID)
}

// CreateMilestone validates and stores a milestone with its initial actions.
func (s *MilestoneService) CreateMilestone(ctx context.Context, goalID primitive.ObjectID, input MilestoneInput) (*models.Milestone, error) {
	if input.Title == "" {
		return nil, progress.Validationf("milestone title is required")
	}
	percent := input.DefaultActionPercent
	if percent == 0 {
		percent = models.DefaultActionPercent
	}
	if err := progress.ValidatePercent(percent); err != nil {
		return nil, err
	}
	if err := s.ValidatePeriod(ctx, goalID, input.StartDate, input.EndDate, primitive.NilObjectID); err != nil {
		return nil, err
	}

	ms := &models.Milestone{
		GoalID:               goalID,
		Title:                input.Title,
		StartDate:            progress.DateOnly(input.StartDate),
		EndDate:              progress.DateOnly(input.EndDate),
		CompletionCondition:  input.CompletionCondition,
		DefaultActionPercent: percent,
	}
	ms, err := s.repo.CreateMilestone(ctx, ms)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %v", err)
	}

	for _, ra := range input.RecurringActions {
		if _, err := s.createRecurringAction(ctx, ms, ra); err != nil {
			return nil, err
		}
	}
	for _, ota := range input.OneTimeActions {
		action := &models.OneTimeAction{
			MilestoneID: ms.ID,
			Title:       ota.Title,
			Deadline:    progress.DateOnly(ota.Deadline),
		}
		if _, err := s.oneTimeRepo.CreateAction(ctx, action); err != nil {
			return nil, fmt.Errorf("failed to create one-time action: %v", err)
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"milestone_id": ms.ID.Hex(),
		"goal_id":      goalID.Hex(),
	}).Info("Milestone created in service layer")
	return ms, nil
}

func (s *MilestoneService) createRecurringAction(ctx context.Context, ms *models.Milestone, input RecurringActionInput) (*models.RecurringAction, error) {
	if input.Title == "" {
		return nil, progress.Validationf("action title is required")
	}
	weekdays, err := progress.NormalizeWeekdays(input.Weekdays)
	if err != nil {
		return nil, err
	}

	target := ms.DefaultActionPercent
	if input.TargetPercent != nil {
		target = *input.TargetPercent
	}
	if err := progress.ValidatePercent(target); err != nil {
		return nil, err
	}

	action := &models.RecurringAction{
		MilestoneID:   ms.ID,
		Title:         input.Title,
		Weekdays:      weekdays,
		TargetPercent: target,
	}
	action, err = s.recurringRepo.CreateAction(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("failed to create recurring action: %v", err)
	}
	return action, nil
}

// ListMilestones returns the views of a goal's milestones.
func (s *MilestoneService) ListMilestones(ctx context.Context, goalID primitive.ObjectID, includeArchived bool) ([]models.MilestoneView, error) {
	milestones, err := s.repo.GetMilestonesByGoal(ctx, goalID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %v", err)
	}

	views := make([]models.MilestoneView, 0, len(milestones))
	for _, ms := range milestones {
		view, err := s.ComputeView(ctx, ms)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// UpdateMilestone applies a partial update, re-validating the period when
// either date changes.
func (s *MilestoneService) UpdateMilestone(ctx context.Context, milestoneID, userID primitive.ObjectID, input MilestoneUpdateInput) (*models.Milestone, error) {
	ms, err := s.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}

	newStart, newEnd := ms.StartDate, ms.EndDate
	if input.StartDate != nil {
		newStart = progress.DateOnly(*input.StartDate)
	}
	if input.EndDate != nil {
		newEnd = progress.DateOnly(*input.EndDate)
	}
	if input.StartDate != nil || input.EndDate != nil {
		if err := s.ValidatePeriod(ctx, ms.GoalID, newStart, newEnd, ms.ID); err != nil {
			return nil, err
		}
		ms.StartDate, ms.EndDate = newStart, newEnd
	}

	if input.Title != nil {
		ms.Title = *input.Title
	}
	if input.CompletionCondition != nil {
		ms.CompletionCondition = *input.CompletionCondition
	}
	if input.DefaultActionPercent != nil {
		if err := progress.ValidatePercent(*input.DefaultActionPercent); err != nil {
			return nil, err
		}
		ms.DefaultActionPercent = *input.DefaultActionPercent
	}

	updated, err := s.repo.UpdateMilestone(ctx, ms.ID, ms)
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone: %v", err)
	}
	return updated, nil
}

// ArchiveMilestone soft-deletes a milestone.
func (s *MilestoneService) ArchiveMilestone(ctx context.Context, milestoneID, userID primitive.ObjectID) error {
	ms, err := s.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return err
	}
	return s.repo.ArchiveMilestone(ctx, ms.ID)
}

// CloseMilestone runs the closure state machine: close as-is, extend the
// period or reduce the bar to an already-met level. The current aggregate
// progress is computed first so reduce_percent can validate against it.
func (s *MilestoneService) CloseMilestone(ctx context.Context, milestoneID, userID primitive.ObjectID, req progress.CloseRequest) (*models.MilestoneView, error) {
	ms, err := s.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.LoadSnapshot(ctx, *ms)
	if err != nil {
		return nil, err
	}
	today := progress.DateOnly(time.Now())
	current := progress.ComputeMilestone(snap, today)

	siblings, err := s.repo.GetMilestonesByGoal(ctx, ms.GoalID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load sibling milestones: %v", err)
	}

	if err := progress.ApplyClose(ms, req, current.MilestoneProgress, siblings); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateMilestone(ctx, ms.ID, ms); err != nil {
		return nil, fmt.Errorf("failed to persist milestone closure: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"milestone_id": ms.ID.Hex(),
		"action":       string(req.Action),
	}).Info("Milestone closure applied")
	return s.ComputeView(ctx, *ms)
}

// ForceCompleteMilestone closes a milestone unconditionally after an
// explicit confirmation.
func (s *MilestoneService) ForceCompleteMilestone(ctx context.Context, milestoneID, userID primitive.ObjectID, force bool) (*models.MilestoneView, error) {
	ms, err := s.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}

	if force {
		if err := progress.ForceComplete(ms); err != nil {
			return nil, err
		}
		if _, err := s.repo.UpdateMilestone(ctx, ms.ID, ms); err != nil {
			return nil, fmt.Errorf("failed to persist milestone completion: %v", err)
		}
		logger.Log.WithField("milestone_id", ms.ID.Hex()).Info("Milestone force-completed")
	}
	return s.ComputeView(ctx, *ms)
}
