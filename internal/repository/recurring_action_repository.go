package repository

import (
	"context"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/aibek-dev/goaltrack/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecurringActionRepository handles database operations for recurring
// actions and their completion logs.
type RecurringActionRepository struct {
	actions *mongo.Collection
	logs    *mongo.Collection
}

// NewRecurringActionRepository creates a new instance of
// RecurringActionRepository.
func NewRecurringActionRepository(db *mongo.Database) *RecurringActionRepository {
	return &RecurringActionRepository{
		actions: db.Collection("recurring_actions"),
		logs:    db.Collection("recurring_action_logs"),
	}
}

// CreateAction inserts a new recurring action.
func (r *RecurringActionRepository) CreateAction(ctx context.Context, action *models.RecurringAction) (*models.RecurringAction, error) {
	action.CreatedAt = time.Now()

	result, err := r.actions.InsertOne(ctx, action)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert recurring action")
		return nil, err
	}
	action.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithField("action_id", action.ID.Hex()).Info("Recurring action created")
	return action, nil
}

// GetActionByID fetches a recurring action by its ID. Returns nil when no
// action matches.
func (r *RecurringActionRepository) GetActionByID(ctx context.Context, id primitive.ObjectID) (*models.RecurringAction, error) {
	var action models.RecurringAction
	err := r.actions.FindOne(ctx, bson.M{"_id": id}).Decode(&action)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to find recurring action")
		return nil, err
	}
	return &action, nil
}

// GetActionsByMilestone fetches the recurring actions of a milestone.
// Soft-deleted actions are included only when requested.
func (r *RecurringActionRepository) GetActionsByMilestone(ctx context.Context, milestoneID primitive.ObjectID, includeDeleted bool) ([]models.RecurringAction, error) {
	filter := bson.M{"milestone_id": milestoneID}
	if !includeDeleted {
		filter["is_deleted"] = false
	}

	cursor, err := r.actions.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("milestone_id", milestoneID.Hex()).Error("Failed to fetch recurring actions")
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.RecurringAction
	for cursor.Next(ctx) {
		var action models.RecurringAction
		if err := cursor.Decode(&action); err != nil {
			logger.Log.WithError(err).Error("Failed to decode recurring action")
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, cursor.Err()
}

// UpdateAction replaces the mutable fields of a recurring action.
func (r *RecurringActionRepository) UpdateAction(ctx context.Context, id primitive.ObjectID, action *models.RecurringAction) (*models.RecurringAction, error) {
	_, err := r.actions.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": action},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to update recurring action")
		return nil, err
	}
	return action, nil
}

// SetActionCompleted persists the recomputed is_completed flag.
func (r *RecurringActionRepository) SetActionCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	_, err := r.actions.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_completed": completed},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to set is_completed")
		return err
	}
	return nil
}

// SoftDeleteAction marks a recurring action as deleted.
func (r *RecurringActionRepository) SoftDeleteAction(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.actions.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deleted": true},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to soft-delete recurring action")
		return err
	}
	logger.Log.WithField("action_id", id.Hex()).Info("Recurring action soft-deleted")
	return nil
}

// SetTargetPercentByMilestone sets a uniform target percent on every active
// recurring action of one milestone, returning the affected action ids.
func (r *RecurringActionRepository) SetTargetPercentByMilestone(ctx context.Context, milestoneID primitive.ObjectID, percent int) ([]primitive.ObjectID, error) {
	_, err := r.actions.UpdateMany(ctx,
		bson.M{"milestone_id": milestoneID, "is_deleted": false},
		bson.M{"$set": bson.M{"target_percent": percent}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("milestone_id", milestoneID.Hex()).Error("Failed to bulk-set target percent")
		return nil, err
	}

	actions, err := r.GetActionsByMilestone(ctx, milestoneID, false)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}

	logger.Log.WithFields(map[string]interface{}{
		"milestone_id": milestoneID.Hex(),
		"percent":      percent,
		"count":        len(ids),
	}).Info("Target percent bulk-updated")
	return ids, nil
}

// UpsertLog records a completion for (action, date). An existing log for the
// same date is updated in place; a duplicate row is never created.
func (r *RecurringActionRepository) UpsertLog(ctx context.Context, actionID primitive.ObjectID, date time.Time, completed bool) (*models.RecurringActionLog, error) {
	filter := bson.M{"action_id": actionID, "date": date}
	update := bson.M{
		"$set":         bson.M{"completed": completed},
		"$setOnInsert": bson.M{"action_id": actionID, "date": date},
	}

	opts := mongoUpsertAfter()
	var log models.RecurringActionLog
	err := r.logs.FindOneAndUpdate(ctx, filter, update, opts).Decode(&log)
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", actionID.Hex()).Error("Failed to upsert action log")
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"action_id": actionID.Hex(),
		"date":      date.Format("2006-01-02"),
		"completed": completed,
	}).Info("Action log upserted")
	return &log, nil
}

// GetLogByID fetches one log row, verifying it belongs to the action.
func (r *RecurringActionRepository) GetLogByID(ctx context.Context, logID, actionID primitive.ObjectID) (*models.RecurringActionLog, error) {
	var log models.RecurringActionLog
	err := r.logs.FindOne(ctx, bson.M{"_id": logID, "action_id": actionID}).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// GetLogs fetches all logs of one action.
func (r *RecurringActionRepository) GetLogs(ctx context.Context, actionID primitive.ObjectID) ([]models.RecurringActionLog, error) {
	cursor, err := r.logs.Find(ctx, bson.M{"action_id": actionID})
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", actionID.Hex()).Error("Failed to fetch action logs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.RecurringActionLog
	for cursor.Next(ctx) {
		var log models.RecurringActionLog
		if err := cursor.Decode(&log); err != nil {
			logger.Log.WithError(err).Error("Failed to decode action log")
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, cursor.Err()
}

// GetLogByDate fetches the log of one action on one date, or nil.
func (r *RecurringActionRepository) GetLogByDate(ctx context.Context, actionID primitive.ObjectID, date time.Time) (*models.RecurringActionLog, error) {
	var log models.RecurringActionLog
	err := r.logs.FindOne(ctx, bson.M{"action_id": actionID, "date": date}).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// MoveLog shifts one log row to a new date.
func (r *RecurringActionRepository) MoveLog(ctx context.Context, logID primitive.ObjectID, newDate time.Time) error {
	_, err := r.logs.UpdateOne(ctx, bson.M{"_id": logID}, bson.M{
		"$set": bson.M{"date": newDate},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("log_id", logID.Hex()).Error("Failed to move action log")
		return err
	}
	return nil
}
