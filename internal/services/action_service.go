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

// ActionService encapsulates the business logic for recurring and one-time
// actions. Every mutation that can change an action's standing triggers a
// recompute of its completion flag.
type ActionService struct {
	recurringRepo *repository.RecurringActionRepository
	oneTimeRepo   *repository.OneTimeActionRepository
	milestoneSvc  *MilestoneService
}

// NewActionService creates a new instance of ActionService.
func NewActionService(
	recurringRepo *repository.RecurringActionRepository,
	oneTimeRepo *repository.OneTimeActionRepository,
	milestoneSvc *MilestoneService,
) *ActionService {
	return &ActionService{
		recurringRepo: recurringRepo,
		oneTimeRepo:   oneTimeRepo,
		milestoneSvc:  milestoneSvc,
	}
}

// getOwnedRecurringAction fetches a recurring action together with its
// owning milestone, verifying the ownership chain up to the user.
func (s *ActionService) getOwnedRecurringAction(ctx context.Context, actionID, userID primitive.ObjectID) (*models.RecurringAction, *models.Milestone, error) {
	action, err := s.recurringRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get recurring action: %v", err)
	}
	if action == nil || action.IsDeleted {
		return nil, nil, progress.ErrNotFound
	}
	ms, err := s.milestoneSvc.GetOwnedMilestone(ctx, action.MilestoneID, userID)
	if err != nil {
		return nil, nil, err
	}
	return action, ms, nil
}

// getOwnedOneTimeAction fetches a one-time action, verifying the ownership
// chain up to the user.
func (s *ActionService) getOwnedOneTimeAction(ctx context.Context, actionID, userID primitive.ObjectID) (*models.OneTimeAction, error) {
	action, err := s.oneTimeRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get one-time action: %v", err)
	}
	if action == nil || action.IsDeleted {
		return nil, progress.ErrNotFound
	}
	if _, err := s.milestoneSvc.GetOwnedMilestone(ctx, action.MilestoneID, userID); err != nil {
		return nil, err
	}
	return action, nil
}

// recomputeAction rebuilds a recurring action's derived state from its logs
// and persists the completion flag when it changed.
func (s *ActionService) recomputeAction(ctx context.Context, action models.RecurringAction, ms models.Milestone) (*models.RecurringActionView, error) {
	logs, err := s.recurringRepo.GetLogs(ctx, action.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load action logs: %v", err)
	}

	start, end := progress.EffectivePeriod(ms)
	p := progress.ComputeActionProgress(progress.ActionSnapshot{Action: action, Logs: logs}, start, end)
	today := progress.DateOnly(time.Now())
	completed := progress.ActionCompletion(p, end, today)

	if completed != action.IsCompleted {
		if err := s.recurringRepo.SetActionCompleted(ctx, action.ID, completed); err != nil {
			return nil, fmt.Errorf("failed to persist completion flag: %v", err)
		}
		action.IsCompleted = completed
	}

	return &models.RecurringActionView{
		RecurringAction: action,
		ExpectedCount:   p.ExpectedCount,
		CompletedCount:  p.CompletedCount,
		CurrentPercent:  p.CurrentPercent,
		IsTargetReached: p.IsTargetReached,
	}, nil
}

// CreateRecurringAction adds a recurring action to a milestone. The target
// percent defaults from the milestone when the input omits it.
func (s *ActionService) CreateRecurringAction(ctx context.Context, milestoneID, userID primitive.ObjectID, input RecurringActionInput) (*models.RecurringAction, error) {
	ms, err := s.milestoneSvc.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}
	return s.milestoneSvc.createRecurringAction(ctx, ms, input)
}

// GetRecurringActionView fetches one recurring action with fresh progress.
func (s *ActionService) GetRecurringActionView(ctx context.Context, actionID, userID primitive.ObjectID) (*models.RecurringActionView, error) {
	action, ms, err := s.getOwnedRecurringAction(ctx, actionID, userID)
	if err != nil {
		return nil, err
	}
	return s.recomputeAction(ctx, *action, *ms)
}

// UpdateRecurringAction applies a partial update, then recomputes progress
// under the new weekdays and target.
func (s *ActionService) UpdateRecurringAction(ctx context.Context, actionID, userID primitive.ObjectID, input RecurringActionUpdateInput) (*models.RecurringActionView, error) {
	action, ms, err := s.getOwnedRecurringAction(ctx, actionID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		action.Title = *input.Title
	}
	if input.Weekdays != nil {
		weekdays, err := progress.NormalizeWeekdays(input.Weekdays)
		if err != nil {
			return nil, err
		}
		action.Weekdays = weekdays
	}
	if input.TargetPercent != nil {
		if err := progress.ValidatePercent(*input.TargetPercent); err != nil {
			return nil, err
		}
		action.TargetPercent = *input.TargetPercent
	}

	if _, err := s.recurringRepo.UpdateAction(ctx, action.ID, action); err != nil {
		return nil, fmt.Errorf("failed to update recurring action: %v", err)
	}
	return s.recomputeAction(ctx, *action, *ms)
}

// DeleteRecurringAction soft-deletes a recurring action.
func (s *ActionService) DeleteRecurringAction(ctx context.Context, actionID, userID primitive.ObjectID) error {
	action, _, err := s.getOwnedRecurringAction(ctx, actionID, userID)
	if err != nil {
		return err
	}
	return s.recurringRepo.SoftDeleteAction(ctx, action.ID)
}

// LogCompletion records whether an action was done on a date. Logging the
// same date twice updates the existing row, and the action's derived state
// is recomputed right away.
func (s *ActionService) LogCompletion(ctx context.Context, actionID, userID primitive.ObjectID, input LogInput) (*models.RecurringActionView, error) {
	action, ms, err := s.getOwnedRecurringAction(ctx, actionID, userID)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, progress.Validationf("log date is required")
	}

	date := progress.DateOnly(input.Date)
	if _, err := s.recurringRepo.UpsertLog(ctx, action.ID, date, input.Completed); err != nil {
		return nil, fmt.Errorf("failed to upsert log: %v", err)
	}
	return s.recomputeAction(ctx, *action, *ms)
}

// Recalculate forces a recompute of an action's progress and completion
// flag. Safe to call any number of times.
func (s *ActionService) Recalculate(ctx context.Context, actionID, userID primitive.ObjectID) (*models.RecurringActionView, error) {
	action, ms, err := s.getOwnedRecurringAction(ctx, actionID, userID)
	if err != nil {
		return nil, err
	}
	return s.recomputeAction(ctx, *action, *ms)
}

// BulkSetTargetPercent sets one target percent on every active recurring
// action of a milestone and recomputes each action under the new bar.
func (s *ActionService) BulkSetTargetPercent(ctx context.Context, milestoneID, userID primitive.ObjectID, percent int) (*models.MilestoneView, error) {
	ms, err := s.milestoneSvc.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}
	if err := progress.ValidatePercent(percent); err != nil {
		return nil, err
	}

	ids, err := s.recurringRepo.SetTargetPercentByMilestone(ctx, ms.ID, percent)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-set target percent: %v", err)
	}
	logger.Log.WithFields(map[string]interface{}{
		"milestone_id": ms.ID.Hex(),
		"count":        len(ids),
	}).Info("Bulk target percent applied")

	// ComputeView recomputes and persists every affected completion flag.
	return s.milestoneSvc.ComputeView(ctx, *ms)
}

// CreateOneTimeAction adds a one-time action to a milestone.
func (s *ActionService) CreateOneTimeAction(ctx context.Context, milestoneID, userID primitive.ObjectID, input OneTimeActionInput) (*models.OneTimeAction, error) {
	ms, err := s.milestoneSvc.GetOwnedMilestone(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, progress.Validationf("action title is required")
	}
	if input.Deadline.IsZero() {
		return nil, progress.Validationf("action deadline is required")
	}

	action := &models.OneTimeAction{
		MilestoneID: ms.ID,
		Title:       input.Title,
		Deadline:    progress.DateOnly(input.Deadline),
	}
	return s.oneTimeRepo.CreateAction(ctx, action)
}

// UpdateOneTimeAction applies a partial update. Marking the action done
// stamps CompletedAt; unmarking clears it.
func (s *ActionService) UpdateOneTimeAction(ctx context.Context, actionID, userID primitive.ObjectID, input OneTimeActionUpdateInput) (*models.OneTimeAction, error) {
	action, err := s.getOwnedOneTimeAction(ctx, actionID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		action.Title = *input.Title
	}
	if input.Deadline != nil {
		action.Deadline = progress.DateOnly(*input.Deadline)
	}
	if input.Completed != nil && *input.Completed != action.Completed {
		action.Completed = *input.Completed
		if action.Completed {
			now := time.Now()
			action.CompletedAt = &now
		} else {
			action.CompletedAt = nil
		}
	}

	if _, err := s.oneTimeRepo.UpdateAction(ctx, action.ID, action); err != nil {
		return nil, fmt.Errorf("failed to update one-time action: %v", err)
	}
	return action, nil
}

// DeleteOneTimeAction soft-deletes a one-time action.
func (s *ActionService) DeleteOneTimeAction(ctx context.Context, actionID, userID primitive.ObjectID) error {
	action, err := s.getOwnedOneTimeAction(ctx, actionID, userID)
	if err != nil {
		return err
	}
	return s.oneTimeRepo.SoftDeleteAction(ctx, action.ID)
}
