package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarService renders the month grid, day details and goal timeline.
// Only dated goals appear on the calendar; each one gets a palette color by
// its ordinal in id-ascending order, so the color survives goal renames and
// archive round-trips of other goals created later.
type CalendarService struct {
	goalRepo      *repository.GoalRepository
	milestoneRepo *repository.MilestoneRepository
	recurringRepo *repository.RecurringActionRepository
	oneTimeRepo   *repository.OneTimeActionRepository
	goalSvc       *GoalService
}

// NewCalendarService creates a new instance of CalendarService.
func NewCalendarService(
	goalRepo *repository.GoalRepository,
	milestoneRepo *repository.MilestoneRepository,
	recurringRepo *repository.RecurringActionRepository,
	oneTimeRepo *repository.OneTimeActionRepository,
	goalSvc *GoalService,
) *CalendarService {
	return &CalendarService{
		goalRepo:      goalRepo,
		milestoneRepo: milestoneRepo,
		recurringRepo: recurringRepo,
		oneTimeRepo:   oneTimeRepo,
		goalSvc:       goalSvc,
	}
}

// MonthView builds the calendar grid of one month. Every day of the month is
// present, empty days included. An optional goal filter narrows the grid to
// one goal while keeping its original color.
func (s *CalendarService) MonthView(ctx context.Context, userID primitive.ObjectID, year, month int, goalID *primitive.ObjectID) ([]models.CalendarDay, error) {
	if month < 1 || month > 12 {
		return nil, progress.Validationf("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	byDate, err := s.collectTasks(ctx, userID, start, end, goalID)
	if err != nil {
		return nil, err
	}

	days := make([]models.CalendarDay, 0, 31)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		tasks := byDate[d]
		if tasks == nil {
			tasks = []models.CalendarTask{}
		}
		days = append(days, models.CalendarDay{Date: d, Tasks: tasks})
	}
	return days, nil
}

// DayDetails lists the tasks of a single day.
func (s *CalendarService) DayDetails(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.CalendarDay, error) {
	day := progress.DateOnly(date)
	byDate, err := s.collectTasks(ctx, userID, day, day, nil)
	if err != nil {
		return nil, err
	}
	tasks := byDate[day]
	if tasks == nil {
		tasks = []models.CalendarTask{}
	}
	return &models.CalendarDay{Date: day, Tasks: tasks}, nil
}

// Timeline returns one bar per dated goal with its color and current
// progress.
func (s *CalendarService) Timeline(ctx context.Context, userID primitive.ObjectID) ([]models.GoalTimelineEntry, error) {
	goals, err := s.goalRepo.GetDatedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %v", err)
	}

	today := progress.DateOnly(time.Now())
	entries := make([]models.GoalTimelineEntry, 0, len(goals))
	for i, goal := range goals {
		if !goal.HasPeriod() {
			continue
		}
		snap, err := s.goalSvc.loadGoalSnapshot(ctx, goal, false)
		if err != nil {
			return nil, err
		}
		gp, _ := progress.ComputeGoal(snap, today)

		entries = append(entries, models.GoalTimelineEntry{
			GoalID:    goal.ID,
			Title:     goal.Title,
			StartDate: progress.DateOnly(*goal.StartDate),
			EndDate:   progress.DateOnly(*goal.EndDate),
			Color:     progress.GoalColor(i),
			Progress:  gp.Progress,
		})
	}
	return entries, nil
}

// collectTasks gathers every task of [start, end] keyed by day. Archived
// milestones never contribute; closed ones still do, past occurrences stay
// visible on the grid.
func (s *CalendarService) collectTasks(ctx context.Context, userID primitive.ObjectID, start, end time.Time, goalID *primitive.ObjectID) (map[time.Time][]models.CalendarTask, error) {
	goals, err := s.goalRepo.GetDatedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %v", err)
	}

	byDate := make(map[time.Time][]models.CalendarTask)
	for i, goal := range goals {
		if goalID != nil && goal.ID != *goalID {
			continue
		}
		color := progress.GoalColor(i)

		milestones, err := s.milestoneRepo.GetMilestonesByGoal(ctx, goal.ID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load milestones: %v", err)
		}
		for _, ms := range milestones {
			if err := s.addMilestoneTasks(ctx, byDate, goal, ms, color, start, end); err != nil {
				return nil, err
			}
		}
	}

	for _, tasks := range byDate {
		sort.Slice(tasks, func(i, j int) bool {
			if tasks[i].Type != tasks[j].Type {
				return tasks[i].Type < tasks[j].Type
			}
			return tasks[i].Title < tasks[j].Title
		})
	}
	return byDate, nil
}

func (s *CalendarService) addMilestoneTasks(ctx context.Context, byDate map[time.Time][]models.CalendarTask, goal models.Goal, ms models.Milestone, color string, start, end time.Time) error {
	msStart, msEnd := progress.EffectivePeriod(ms)
	winStart, winEnd := start, end
	if msStart.After(winStart) {
		winStart = msStart
	}
	if msEnd.Before(winEnd) {
		winEnd = msEnd
	}

	if !winEnd.Before(winStart) {
		actions, err := s.recurringRepo.GetActionsByMilestone(ctx, ms.ID, false)
		if err != nil {
			return fmt.Errorf("failed to load recurring actions: %v", err)
		}
		for _, action := range actions {
			logs, err := s.recurringRepo.GetLogs(ctx, action.ID)
			if err != nil {
				return fmt.Errorf("failed to load action logs: %v", err)
			}
			done := make(map[time.Time]bool, len(logs))
			for _, log := range logs {
				done[progress.DateOnly(log.Date)] = log.Completed
			}

			for _, date := range progress.NewSchedule(action.Weekdays, winStart, winEnd).Dates() {
				byDate[date] = append(byDate[date], models.CalendarTask{
					ID:        action.ID,
					Type:      TaskTypeRecurring,
					Title:     action.Title,
					Completed: done[date],
					GoalID:    goal.ID,
					GoalColor: color,
				})
			}
		}
	}

	oneTime, err := s.oneTimeRepo.GetActionsByDeadlineRange(ctx, []primitive.ObjectID{ms.ID}, start, end)
	if err != nil {
		return fmt.Errorf("failed to load one-time actions: %v", err)
	}
	for _, action := range oneTime {
		date := progress.DateOnly(action.Deadline)
		byDate[date] = append(byDate[date], models.CalendarTask{
			ID:        action.ID,
			Type:      TaskTypeOneTime,
			Title:     action.Title,
			Completed: action.Completed,
			GoalID:    goal.ID,
			GoalColor: color,
		})
	}
	return nil
}
