package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/aibek-dev/goaltrack/internal/progress"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task kinds used in the unified task list.
const (
	TaskTypeRecurring = "recurring"
	TaskTypeOneTime   = "one-time"
)

// RecurringTaskID builds the synthetic id of one scheduled occurrence of a
// recurring action.
func RecurringTaskID(actionID primitive.ObjectID, date time.Time) string {
	return fmt.Sprintf("recurring-%s-%s", actionID.Hex(), date.Format("2006-01-02"))
}

// OneTimeTaskID builds the synthetic id of a one-time action entry.
func OneTimeTaskID(actionID primitive.ObjectID) string {
	return fmt.Sprintf("onetime-%s", actionID.Hex())
}

// ParseTaskID splits a synthetic task id back into its kind, the underlying
// action id and, for recurring occurrences, the scheduled date.
func ParseTaskID(id string) (kind string, actionID primitive.ObjectID, date time.Time, err error) {
	switch {
	case strings.HasPrefix(id, "recurring-"):
		rest := strings.TrimPrefix(id, "recurring-")
		parts := strings.SplitN(rest, "-", 2)
		if len(parts) != 2 {
			return "", primitive.NilObjectID, time.Time{}, progress.Validationf("malformed task id %q", id)
		}
		actionID, err = primitive.ObjectIDFromHex(parts[0])
		if err != nil {
			return "", primitive.NilObjectID, time.Time{}, progress.Validationf("malformed task id %q", id)
		}
		date, err = time.ParseInLocation("2006-01-02", parts[1], time.UTC)
		if err != nil {
			return "", primitive.NilObjectID, time.Time{}, progress.Validationf("malformed task id %q", id)
		}
		return TaskTypeRecurring, actionID, date, nil

	case strings.HasPrefix(id, "onetime-"):
		actionID, err = primitive.ObjectIDFromHex(strings.TrimPrefix(id, "onetime-"))
		if err != nil {
			return "", primitive.NilObjectID, time.Time{}, progress.Validationf("malformed task id %q", id)
		}
		return TaskTypeOneTime, actionID, time.Time{}, nil
	}
	return "", primitive.NilObjectID, time.Time{}, progress.Validationf("malformed task id %q", id)
}
