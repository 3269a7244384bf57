package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/internal/repository"
	"github.com/aibek-dev/goaltrack/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxTaskRangeDays bounds the /tasks/range window.
const maxTaskRangeDays = 31

// TaskService builds the unified upcoming-tasks list: every scheduled
// occurrence of a recurring action plus every one-time action inside a
// date window, across all of a user's active goals.
type TaskService struct {
	goalRepo      *repository.GoalRepository
	milestoneRepo *repository.MilestoneRepository
	recurringRepo *repository.RecurringActionRepository
	oneTimeRepo   *repository.OneTimeActionRepository
	milestoneSvc  *MilestoneService
	actionSvc     *ActionService
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(
	goalRepo *repository.GoalRepository,
	milestoneRepo *repository.MilestoneRepository,
	recurringRepo *repository.RecurringActionRepository,
	oneTimeRepo *repository.OneTimeActionRepository,
	milestoneSvc *MilestoneService,
	actionSvc *ActionService,
) *TaskService {
	return &TaskService{
		goalRepo:      goalRepo,
		milestoneRepo: milestoneRepo,
		recurringRepo: recurringRepo,
		oneTimeRepo:   oneTimeRepo,
		milestoneSvc:  milestoneSvc,
		actionSvc:     actionSvc,
	}
}

// TaskCompletionResult is the response of completing a task: the updated
// entry plus the fresh aggregate of the milestone it belongs to.
type TaskCompletionResult struct {
	Task      models.TaskView            `json:"task"`
	Milestone progress.MilestoneProgress `json:"milestone"`
}

// RangeTasks lists every task falling inside [start, end], at most 31 days
// wide. Archived goals, archived or closed milestones and soft-deleted
// actions never produce entries.
func (s *TaskService) RangeTasks(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.TaskView, error) {
	start, end = progress.DateOnly(start), progress.DateOnly(end)
	if end.Before(start) {
		return nil, progress.Validationf("end_date must not precede start_date")
	}
	if int(end.Sub(start).Hours()/24) >= maxTaskRangeDays {
		return nil, progress.Validationf("date range must not exceed %d days", maxTaskRangeDays)
	}

	goals, err := s.goalRepo.GetGoals(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %v", err)
	}

	tasks := []models.TaskView{}
	for _, goal := range goals {
		milestones, err := s.milestoneRepo.GetMilestonesByGoal(ctx, goal.ID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load milestones: %v", err)
		}
		for _, ms := range milestones {
			if ms.IsClosed {
				continue
			}
			msTasks, err := s.milestoneTasks(ctx, ms, start, end)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, msTasks...)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].Date.Equal(tasks[j].Date) {
			return tasks[i].Date.Before(tasks[j].Date)
		}
		if tasks[i].Type != tasks[j].Type {
			return tasks[i].Type < tasks[j].Type
		}
		return tasks[i].Title < tasks[j].Title
	})
	return tasks, nil
}

// milestoneTasks expands one milestone's actions into task entries within
// the window intersected with the milestone's own period.
func (s *TaskService) milestoneTasks(ctx context.Context, ms models.Milestone, start, end time.Time) ([]models.TaskView, error) {
	msStart, msEnd := progress.EffectivePeriod(ms)
	winStart, winEnd := start, end
	if msStart.After(winStart) {
		winStart = msStart
	}
	if msEnd.Before(winEnd) {
		winEnd = msEnd
	}

	var tasks []models.TaskView

	if !winEnd.Before(winStart) {
		actions, err := s.recurringRepo.GetActionsByMilestone(ctx, ms.ID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load recurring actions: %v", err)
		}
		for _, action := range actions {
			logs, err := s.recurringRepo.GetLogs(ctx, action.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load action logs: %v", err)
			}
			byDate := make(map[time.Time]models.RecurringActionLog, len(logs))
			for _, log := range logs {
				byDate[progress.DateOnly(log.Date)] = log
			}

			for _, date := range progress.NewSchedule(action.Weekdays, winStart, winEnd).Dates() {
				task := models.TaskView{
					ID:             RecurringTaskID(action.ID, date),
					Type:           TaskTypeRecurring,
					Title:          action.Title,
					Date:           date,
					MilestoneID:    ms.ID,
					MilestoneTitle: ms.Title,
					OriginalID:     action.ID,
				}
				if log, ok := byDate[date]; ok {
					task.Completed = log.Completed
					id := log.ID
					task.LogID = &id
				}
				tasks = append(tasks, task)
			}
		}
	}

	// One-time deadlines are bounded only by the requested window, not the
	// milestone period: an overdue deadline still shows up.
	oneTime, err := s.oneTimeRepo.GetActionsByDeadlineRange(ctx, []primitive.ObjectID{ms.ID}, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load one-time actions: %v", err)
	}
	for _, action := range oneTime {
		tasks = append(tasks, models.TaskView{
			ID:             OneTimeTaskID(action.ID),
			Type:           TaskTypeOneTime,
			Title:          action.Title,
			Date:           progress.DateOnly(action.Deadline),
			MilestoneID:    ms.ID,
			MilestoneTitle: ms.Title,
			Completed:      action.Completed,
			OriginalID:     action.ID,
		})
	}
	return tasks, nil
}

// CompleteTask marks one task entry done or undone and reports the fresh
// milestone aggregate.
func (s *TaskService) CompleteTask(ctx context.Context, userID primitive.ObjectID, taskID string, completed bool) (*TaskCompletionResult, error) {
	kind, actionID, date, err := ParseTaskID(taskID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TaskTypeRecurring:
		view, err := s.actionSvc.LogCompletion(ctx, actionID, userID, LogInput{Date: date, Completed: completed})
		if err != nil {
			return nil, err
		}
		return s.completionResult(ctx, view.MilestoneID, models.TaskView{
			ID:         taskID,
			Type:       kind,
			Title:      view.Title,
			Date:       date,
			Completed:  completed,
			OriginalID: actionID,
		})

	default:
		done := completed
		action, err := s.actionSvc.UpdateOneTimeAction(ctx, actionID, userID, OneTimeActionUpdateInput{Completed: &done})
		if err != nil {
			return nil, err
		}
		return s.completionResult(ctx, action.MilestoneID, models.TaskView{
			ID:         taskID,
			Type:       kind,
			Title:      action.Title,
			Date:       progress.DateOnly(action.Deadline),
			Completed:  action.Completed,
			OriginalID: action.ID,
		})
	}
}

func (s *TaskService) completionResult(ctx context.Context, milestoneID primitive.ObjectID, task models.TaskView) (*TaskCompletionResult, error) {
	ms, err := s.milestoneRepo.GetMilestoneByID(ctx, milestoneID)
	if err != nil || ms == nil {
		return nil, fmt.Errorf("failed to reload milestone: %v", err)
	}
	task.MilestoneID = ms.ID
	task.MilestoneTitle = ms.Title

	view, err := s.milestoneSvc.ComputeView(ctx, *ms)
	if err != nil {
		return nil, err
	}
	return &TaskCompletionResult{
		Task: task,
		Milestone: progress.MilestoneProgress{
			Progress:                view.Progress,
			ActionsCompletedCount:   view.ActionsCompletedCount,
			ActionsTotalCount:       view.ActionsTotalCount,
			AllActionsReachedTarget: view.AllActionsReachedTarget,
		},
	}, nil
}

// RescheduleTask moves a task to a new date. A recurring occurrence moves
// its log row (creating an incomplete one when none exists yet); a one-time
// task moves its deadline.
func (s *TaskService) RescheduleTask(ctx context.Context, userID primitive.ObjectID, taskID string, newDate time.Time) (*models.TaskView, error) {
	if newDate.IsZero() {
		return nil, progress.Validationf("new date is required")
	}
	newDate = progress.DateOnly(newDate)

	kind, actionID, date, err := ParseTaskID(taskID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TaskTypeRecurring:
		action, ms, err := s.actionSvc.getOwnedRecurringAction(ctx, actionID, userID)
		if err != nil {
			return nil, err
		}

		log, err := s.recurringRepo.GetLogByDate(ctx, action.ID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to load log: %v", err)
		}
		if log != nil {
			if err := s.recurringRepo.MoveLog(ctx, log.ID, newDate); err != nil {
				return nil, fmt.Errorf("failed to move log: %v", err)
			}
		} else {
			if log, err = s.recurringRepo.UpsertLog(ctx, action.ID, newDate, false); err != nil {
				return nil, fmt.Errorf("failed to create log: %v", err)
			}
		}
		if _, err := s.actionSvc.recomputeAction(ctx, *action, *ms); err != nil {
			return nil, err
		}

		logger.Log.WithFields(map[string]interface{}{
			"action_id": action.ID.Hex(),
			"from":      date.Format("2006-01-02"),
			"to":        newDate.Format("2006-01-02"),
		}).Info("Recurring task rescheduled")

		task := &models.TaskView{
			ID:             RecurringTaskID(action.ID, newDate),
			Type:           kind,
			Title:          action.Title,
			Date:           newDate,
			MilestoneID:    ms.ID,
			MilestoneTitle: ms.Title,
			Completed:      log.Completed,
			OriginalID:     action.ID,
		}
		id := log.ID
		task.LogID = &id
		return task, nil

	default:
		deadline := newDate
		action, err := s.actionSvc.UpdateOneTimeAction(ctx, actionID, userID, OneTimeActionUpdateInput{Deadline: &deadline})
		if err != nil {
			return nil, err
		}
		ms, err := s.milestoneRepo.GetMilestoneByID(ctx, action.MilestoneID)
		if err != nil || ms == nil {
			return nil, fmt.Errorf("failed to reload milestone: %v", err)
		}
		return &models.TaskView{
			ID:             taskID,
			Type:           kind,
			Title:          action.Title,
			Date:           newDate,
			MilestoneID:    ms.ID,
			MilestoneTitle: ms.Title,
			Completed:      action.Completed,
			OriginalID:     action.ID,
		}, nil
	}
}

// CreateTask adds a quick one-time task to a milestone.
func (s *TaskService) CreateTask(ctx context.Context, userID primitive.ObjectID, input TaskCreateInput) (*models.TaskView, error) {
	milestoneID, err := primitive.ObjectIDFromHex(input.MilestoneID)
	if err != nil {
		return nil, progress.Validationf("invalid milestone id")
	}

	action, err := s.actionSvc.CreateOneTimeAction(ctx, milestoneID, userID, OneTimeActionInput{
		Title:    input.Title,
		Deadline: input.Date,
	})
	if err != nil {
		return nil, err
	}

	ms, err := s.milestoneRepo.GetMilestoneByID(ctx, milestoneID)
	if err != nil || ms == nil {
		return nil, fmt.Errorf("failed to reload milestone: %v", err)
	}
	return &models.TaskView{
		ID:             OneTimeTaskID(action.ID),
		Type:           TaskTypeOneTime,
		Title:          action.Title,
		Date:           progress.DateOnly(action.Deadline),
		MilestoneID:    ms.ID,
		MilestoneTitle: ms.Title,
		OriginalID:     action.ID,
	}, nil
}
