package repository

import (
	"context"
	"time"

	"github.com/aibek-dev/goaltrack/internal/models"
	"github.com/aibek-dev/goaltrack/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GoalRepository handles database operations related to goals.
type GoalRepository struct {
	collection *mongo.Collection
}

// NewGoalRepository creates a new instance of GoalRepository.
func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{
		collection: db.Collection("goals"),
	}
}

// CreateGoal inserts a new goal.
func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert goal")
		return nil, err
	}
	goal.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithField("goal_id", goal.ID.Hex()).Info("Goal created")
	return goal, nil
}

// GetGoalByID fetches a goal by its ID. Returns nil when no goal matches.
func (r *GoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to find goal by ID")
		return nil, err
	}
	return &goal, nil
}

// GetGoals fetches the goals of a user, ordered by id ascending. Archived
// goals are included only when requested.
func (r *GoalRepository) GetGoals(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]models.Goal, error) {
	filter := bson.M{"user_id": userID}
	if !includeArchived {
		filter["is_archived"] = false
	}
	return r.findGoals(ctx, filter)
}

// GetDatedGoals fetches the active goals of a user that carry a period,
// ordered by id ascending so that calendar colors stay stable.
func (r *GoalRepository) GetDatedGoals(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	return r.findGoals(ctx, bson.M{
		"user_id":     userID,
		"is_archived": false,
		"start_date":  bson.M{"$ne": nil},
		"end_date":    bson.M{"$ne": nil},
	})
}

func (r *GoalRepository) findGoals(ctx context.Context, filter bson.M) ([]models.Goal, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	for cursor.Next(ctx) {
		var goal models.Goal
		if err := cursor.Decode(&goal); err != nil {
			logger.Log.WithError(err).Error("Failed to decode goal")
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, cursor.Err()
}

// GetAllActiveGoals fetches non-archived goals across all users, used by the
// completion sweep job.
func (r *GoalRepository) GetAllActiveGoals(ctx context.Context, limit int64) ([]models.Goal, error) {
	findOptions := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"is_archived": false}, findOptions)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch active goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	for cursor.Next(ctx) {
		var goal models.Goal
		if err := cursor.Decode(&goal); err != nil {
			logger.Log.WithError(err).Error("Failed to decode goal")
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, cursor.Err()
}

// UpdateGoal replaces the mutable fields of a goal.
func (r *GoalRepository) UpdateGoal(ctx context.Context, id primitive.ObjectID, goal *models.Goal) (*models.Goal, error) {
	goal.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": goal},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update goal")
		return nil, err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal updated")
	return goal, nil
}

// ArchiveGoal soft-deletes a goal.
func (r *GoalRepository) ArchiveGoal(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_archived": true, "archived_at": now, "updated_at": now},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to archive goal")
		return err
	}
	logger.Log.WithField("goal_id", id.Hex()).Info("Goal archived")
	return nil
}

// RestoreGoal reverses an archive.
func (r *GoalRepository) RestoreGoal(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"is_archived": false, "updated_at": time.Now()},
		"$unset": bson.M{"archived_at": ""},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to restore goal")
		return err
	}
	logger.Log.WithField("goal_id", id.Hex()).Info("Goal restored")
	return nil
}
