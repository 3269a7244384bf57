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

// GoalService encapsulates the business logic for goals. Goal-level progress
// is always derived from the milestone snapshots, never stored.
type GoalService struct {
	repo         *repository.GoalRepository
	milestoneSvc *MilestoneService
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(repo *repository.GoalRepository, milestoneSvc *MilestoneService) *GoalService {
	return &GoalService{repo: repo, milestoneSvc: milestoneSvc}
}

// GetOwnedGoal fetches a goal and verifies it belongs to the user. Goals of
// other users are reported as not found.
func (s *GoalService) GetOwnedGoal(ctx context.Context, goalID, userID primitive.ObjectID) (*models.Goal, error) {
	goal, err := s.repo.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	if goal == nil || goal.UserID != userID {
		return nil, progress.ErrNotFound
	}
	return goal, nil
}

// CreateGoal validates and stores a goal together with its initial
// milestones. Milestones are created in order, so each one's period is
// validated against the ones created before it.
func (s *GoalService) CreateGoal(ctx context.Context, userID primitive.ObjectID, input GoalInput) (*models.Goal, error) {
	if input.Title == "" {
		return nil, progress.Validationf("goal title is required")
	}
	if input.StartDate != nil && input.EndDate != nil {
		if err := progress.ValidatePeriod(*input.StartDate, *input.EndDate); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		UserID: userID,
		Title:  input.Title,
	}
	if input.StartDate != nil {
		start := progress.DateOnly(*input.StartDate)
		goal.StartDate = &start
	}
	if input.EndDate != nil {
		end := progress.DateOnly(*input.EndDate)
		goal.EndDate = &end
	}

	goal, err := s.repo.CreateGoal(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	for _, ms := range input.Milestones {
		if _, err := s.milestoneSvc.CreateMilestone(ctx, goal.ID, ms); err != nil {
			return nil, err
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": goal.ID.Hex(),
		"user_id": userID.Hex(),
	}).Info("Goal created in service layer")
	return goal, nil
}

// loadGoalSnapshot gathers all of a goal's milestones with their actions.
func (s *GoalService) loadGoalSnapshot(ctx context.Context, goal models.Goal, includeArchived bool) (progress.GoalSnapshot, error) {
	snap := progress.GoalSnapshot{Goal: goal}

	milestones, err := s.milestoneSvc.repo.GetMilestonesByGoal(ctx, goal.ID, includeArchived)
	if err != nil {
		return snap, fmt.Errorf("failed to load milestones: %v", err)
	}
	for _, ms := range milestones {
		mSnap, err := s.milestoneSvc.LoadSnapshot(ctx, ms)
		if err != nil {
			return snap, err
		}
		snap.Milestones = append(snap.Milestones, mSnap)
	}
	return snap, nil
}

// ComputeView computes a goal's aggregate progress together with the views
// of its milestones, persisting any stale per-action completion flags along
// the way.
func (s *GoalService) ComputeView(ctx context.Context, goal models.Goal) (*models.GoalView, error) {
	snap, err := s.loadGoalSnapshot(ctx, goal, false)
	if err != nil {
		return nil, err
	}

	today := progress.DateOnly(time.Now())
	gp, results := progress.ComputeGoal(snap, today)

	view := &models.GoalView{
		Goal:        goal,
		Progress:    gp.Progress,
		IsCompleted: gp.IsCompleted,
		Milestones:  []models.MilestoneView{},
	}
	for i, mSnap := range snap.Milestones {
		s.milestoneSvc.persistStaleCompletions(ctx, mSnap, results[i])
		view.Milestones = append(view.Milestones, buildMilestoneView(mSnap, results[i]))
	}
	return view, nil
}

// ListGoals returns the views of a user's goals.
func (s *GoalService) ListGoals(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]models.GoalView, error) {
	goals, err := s.repo.GetGoals(ctx, userID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %v", err)
	}

	views := make([]models.GoalView, 0, len(goals))
	for _, goal := range goals {
		view, err := s.ComputeView(ctx, goal)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetGoalView fetches one goal with its full progress breakdown.
func (s *GoalService) GetGoalView(ctx context.Context, goalID, userID primitive.ObjectID) (*models.GoalView, error) {
	goal, err := s.GetOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	return s.ComputeView(ctx, *goal)
}

// UpdateGoal applies a partial update to a goal.
func (s *GoalService) UpdateGoal(ctx context.Context, goalID, userID primitive.ObjectID, input GoalUpdateInput) (*models.Goal, error) {
	goal, err := s.GetOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		goal.Title = *input.Title
	}
	if input.StartDate != nil {
		start := progress.DateOnly(*input.StartDate)
		goal.StartDate = &start
	}
	if input.EndDate != nil {
		end := progress.DateOnly(*input.EndDate)
		goal.EndDate = &end
	}
	if goal.StartDate != nil && goal.EndDate != nil {
		if err := progress.ValidatePeriod(*goal.StartDate, *goal.EndDate); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateGoal(ctx, goal.ID, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %v", err)
	}
	return updated, nil
}

// ArchiveGoal soft-deletes a goal.
func (s *GoalService) ArchiveGoal(ctx context.Context, goalID, userID primitive.ObjectID) error {
	goal, err := s.GetOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return err
	}
	if goal.IsArchived {
		return progress.StateConflictf("goal is already archived")
	}
	return s.repo.ArchiveGoal(ctx, goal.ID)
}

// RestoreGoal brings an archived goal back. Restoring a goal that is not
// archived is a state conflict.
func (s *GoalService) RestoreGoal(ctx context.Context, goalID, userID primitive.ObjectID) (*models.Goal, error) {
	goal, err := s.GetOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if !goal.IsArchived {
		return nil, progress.StateConflictf("goal is not archived")
	}
	if err := s.repo.RestoreGoal(ctx, goal.ID); err != nil {
		return nil, fmt.Errorf("failed to restore goal: %v", err)
	}
	goal.IsArchived = false
	goal.ArchivedAt = nil
	return goal, nil
}

// GetProgressReport computes the per-milestone, per-action progress
// breakdown of one goal, archived milestones included for reference.
func (s *GoalService) GetProgressReport(ctx context.Context, goalID, userID primitive.ObjectID) (*models.GoalView, error) {
	goal, err := s.GetOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadGoalSnapshot(ctx, *goal, true)
	if err != nil {
		return nil, err
	}

	today := progress.DateOnly(time.Now())
	gp, results := progress.ComputeGoal(snap, today)

	view := &models.GoalView{
		Goal:        *goal,
		Progress:    gp.Progress,
		IsCompleted: gp.IsCompleted,
		Milestones:  []models.MilestoneView{},
	}
	for i, mSnap := range snap.Milestones {
		s.milestoneSvc.persistStaleCompletions(ctx, mSnap, results[i])
		view.Milestones = append(view.Milestones, buildMilestoneView(mSnap, results[i]))
	}
	return view, nil
}

// buildMilestoneView shapes one milestone result into its API view.
func buildMilestoneView(snap progress.MilestoneSnapshot, res progress.MilestoneResult) models.MilestoneView {
	view := models.MilestoneView{
		Milestone:               snap.Milestone,
		Progress:                res.Progress,
		ActionsCompletedCount:   res.ActionsCompletedCount,
		ActionsTotalCount:       res.ActionsTotalCount,
		AllActionsReachedTarget: res.AllActionsReachedTarget,
		RecurringActions:        []models.RecurringActionView{},
		OneTimeActions:          []models.OneTimeAction{},
	}

	byID := make(map[primitive.ObjectID]progress.ActionResult, len(res.Actions))
	for _, ar := range res.Actions {
		byID[ar.ActionID] = ar
	}
	for _, as := range snap.Recurring {
		ar := byID[as.Action.ID]
		action := as.Action
		action.IsCompleted = ar.IsCompleted
		view.RecurringActions = append(view.RecurringActions, models.RecurringActionView{
			RecurringAction: action,
			ExpectedCount:   ar.ExpectedCount,
			CompletedCount:  ar.CompletedCount,
			CurrentPercent:  ar.CurrentPercent,
			IsTargetReached: ar.IsTargetReached,
		})
	}
	view.OneTimeActions = append(view.OneTimeActions, snap.OneTime...)
	return view
}
