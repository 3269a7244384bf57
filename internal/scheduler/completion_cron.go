package cron

import (
	"context"

	"github.com/aibek-dev/goaltrack/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartCompletionCronJobs schedules the nightly completion sweep.
func StartCompletionCronJobs(sweep *jobs.CompletionSweep) {
	c := cron.New()

	// Shortly after midnight, once the previous day is fully in the past
	c.AddFunc("10 0 * * *", func() {
		if err := sweep.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Completion sweep failed")
		}
	})

	c.Start()
}
