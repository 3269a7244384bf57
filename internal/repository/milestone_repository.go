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

// MilestoneRepository handles database operations related to milestones.
type MilestoneRepository struct {
	collection *mongo.Collection
}

// NewMilestoneRepository creates a new instance of MilestoneRepository.
func NewMilestoneRepository(db *mongo.Database) *MilestoneRepository {
	return &MilestoneRepository{
		collection: db.Collection("milestones"),
	}
}

// CreateMilestone inserts a new milestone.
func (r *MilestoneRepository) CreateMilestone(ctx context.Context, ms *models.Milestone) (*models.Milestone, error) {
	ms.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, ms)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert milestone")
		return nil, err
	}
	ms.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithField("milestone_id", ms.ID.Hex()).Info("Milestone created")
	return ms, nil
}

// GetMilestoneByID fetches a milestone by its ID. Returns nil when no
// milestone matches.
func (r *MilestoneRepository) GetMilestoneByID(ctx context.Context, id primitive.ObjectID) (*models.Milestone, error) {
	var ms models.Milestone
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ms)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Log.WithError(err).WithField("milestone_id", id.Hex()).Error("Failed to find milestone by ID")
		return nil, err
	}
	return &ms, nil
}

// GetMilestonesByGoal fetches the milestones of a goal ordered by start
// date. Archived milestones are included only when requested; the period
// overlap validator passes includeArchived=true so that every sibling is
// considered.
func (r *MilestoneRepository) GetMilestonesByGoal(ctx context.Context, goalID primitive.ObjectID, includeArchived bool) ([]models.Milestone, error) {
	filter := bson.M{"goal_id": goalID}
	if !includeArchived {
		filter["is_archived"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", goalID.Hex()).Error("Failed to fetch milestones")
		return nil, err
	}
	defer cursor.Close(ctx)

	var milestones []models.Milestone
	for cursor.Next(ctx) {
		var ms models.Milestone
		if err := cursor.Decode(&ms); err != nil {
			logger.Log.WithError(err).Error("Failed to decode milestone")
			return nil, err
		}
		milestones = append(milestones, ms)
	}
	return milestones, cursor.Err()
}

// UpdateMilestone replaces the mutable fields of a milestone.
func (r *MilestoneRepository) UpdateMilestone(ctx context.Context, id primitive.ObjectID, ms *models.Milestone) (*models.Milestone, error) {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": ms},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("milestone_id", id.Hex()).Error("Failed to update milestone")
		return nil, err
	}

	logger.Log.WithField("milestone_id", id.Hex()).Info("Milestone updated")
	return ms, nil
}

// ArchiveMilestone soft-deletes a milestone.
func (r *MilestoneRepository) ArchiveMilestone(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_archived": true, "archived_at": time.Now()},
	})
	if err != nil {
		logger.Log.WithError(err).WithField("milestone_id", id.Hex()).Error("Failed to archive milestone")
		return err
	}
	logger.Log.WithField("milestone_id", id.Hex()).Info("Milestone archived")
	return nil
}
