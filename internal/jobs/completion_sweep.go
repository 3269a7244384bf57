package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/internal/repository"
	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/sirupsen/logrus"
)

// CompletionSweep walks every active goal and recomputes the is_completed
// flag of recurring actions whose period has elapsed. Reads already trigger
// the same recompute lazily; the sweep keeps rarely-read data honest too.
type CompletionSweep struct {
	GoalRepo      *repository.GoalRepository
	MilestoneRepo *repository.MilestoneRepository
	MilestoneSvc  *services.MilestoneService
}

// NewCompletionSweep creates a new instance of CompletionSweep.
func NewCompletionSweep(
	goalRepo *repository.GoalRepository,
	milestoneRepo *repository.MilestoneRepository,
	milestoneSvc *services.MilestoneService,
) *CompletionSweep {
	return &CompletionSweep{
		GoalRepo:      goalRepo,
		MilestoneRepo: milestoneRepo,
		MilestoneSvc:  milestoneSvc,
	}
}

// Run recomputes completion flags across all active goals. Milestones whose
// period has not yet ended are skipped, their flags cannot change.
func (s *CompletionSweep) Run(ctx context.Context) error {
	goals, err := s.GoalRepo.GetAllActiveGoals(ctx, 1000)
	if err != nil {
		return fmt.Errorf("failed to fetch goals: %v", err)
	}

	today := progress.DateOnly(time.Now())
	swept := 0
	for _, goal := range goals {
		milestones, err := s.MilestoneRepo.GetMilestonesByGoal(ctx, goal.ID, false)
		if err != nil {
			logrus.WithError(err).WithField("goalID", goal.ID.Hex()).Error("Sweep failed to load milestones")
			continue
		}
		for _, ms := range milestones {
			_, end := progress.EffectivePeriod(ms)
			if !today.After(end) {
				continue
			}
			if _, err := s.MilestoneSvc.ComputeView(ctx, ms); err != nil {
				logrus.WithError(err).WithField("milestoneID", ms.ID.Hex()).Error("Sweep failed to recompute milestone")
				continue
			}
			swept++
		}
	}

	logrus.WithField("milestones", swept).Info("Completion sweep finished")
	return nil
}
