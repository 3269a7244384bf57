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

// OneTimeActionRepository handles database operations for one-time actions.
type OneTimeActionRepository struct {
	collection *mongo.Collection
}

// NewOneTimeActionRepository creates a new instance of
// OneTimeActionRepository.
func NewOneTimeActionRepository(db *mongo.Database) *OneTimeActionRepository {
	return &OneTimeActionRepository{
		collection: db.Collection("one_time_actions"),
	}
}

// CreateAction inserts a new one-time action.
func (r *OneTimeActionRepository) CreateAction(ctx context.Context, action *models.OneTimeAction) (*models.OneTimeAction, error) {
	action.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, action)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert one-time action")
		return nil, err
	}
	action.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithField("action_id", action.ID.Hex()).Info("One-time action created")
	return action, nil
}

// GetActionByID fetches a one-time action by its ID. Returns nil when no
// action matches.
func (r *OneTimeActionRepository) GetActionByID(ctx context.Context, id primitive.ObjectID) (*models.OneTimeAction, error) {
	var action models.OneTimeAction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&action)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to find one-time action")
		return nil, err
	}
	return &action, nil
}

// GetActionsByMilestone fetches the one-time actions of a milestone.
// Soft-deleted actions are included only when requested.
func (r *OneTimeActionRepository) GetActionsByMilestone(ctx context.Context, milestoneID primitive.ObjectID, includeDeleted bool) ([]models.OneTimeAction, error) {
	filter := bson.M{"milestone_id": milestoneID}
	if !includeDeleted {
		filter["is_deleted"] = false
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("milestone_id", milestoneID.Hex()).Error("Failed to fetch one-time actions")
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.OneTimeAction
	for cursor.Next(ctx) {
		var action models.OneTimeAction
		if err := cursor.Decode(&action); err != nil {
			logger.Log.WithError(err).Error("Failed to decode one-time action")
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, cursor.Err()
}

// GetActionsByDeadlineRange fetches active one-time actions of several
// milestones whose deadline falls inside [start, end].
func (r *OneTimeActionRepository) GetActionsByDeadlineRange(ctx context.Context, milestoneIDs []primitive.ObjectID, start, end time.Time) ([]models.OneTimeAction, error) {
	if len(milestoneIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"milestone_id": bson.M{"$in": milestoneIDs},
		"is_deleted":   false,
		"deadline":     bson.M{"$gte": start, "$lte": end},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch one-time actions by deadline range")
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.OneTimeAction
	for cursor.Next(ctx) {
		var action models.OneTimeAction
		if err := cursor.Decode(&action); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, cursor.Err()
}

// UpdateAction replaces the mutable fields of a one-time action.
func (r *OneTimeActionRepository) UpdateAction(ctx context.Context, id primitive.ObjectID, action *models.OneTimeAction) (*models.OneTimeAction, error) {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": action},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to update one-time action")
		return nil, err
	}
	return action, nil
}

// SoftDeleteAction marks a one-time action as deleted.
func (r *OneTimeActionRepository) SoftDeleteAction(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deleted": true},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("action_id", id.Hex()).Error("Failed to soft-delete one-time action")
		return err
	}
	logger.Log.WithField("action_id", id.Hex()).Info("One-time action soft-deleted")
	return nil
}
