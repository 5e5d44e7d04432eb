package planner

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"wayfare/db"
	"wayfare/models"
	"wayfare/rdx"
)

// Repository is the durable side of the store. The Mongo implementation
// below is the production one; tests swap in an in-memory fake.
type Repository interface {
	List(ctx context.Context, userID string) ([]models.Planner, error)
	Insert(ctx context.Context, p models.Planner) error
	Replace(ctx context.Context, userID, plannerID string, p models.Planner) error
	Delete(ctx context.Context, userID, plannerID string) error
}

// SnapshotCache is the best-effort fallback copy of a user's planner list.
type SnapshotCache interface {
	Save(ctx context.Context, userID string, planners []models.Planner)
	Load(ctx context.Context, userID string) []models.Planner
	Drop(ctx context.Context, userID string)
}

var ErrNotPersisted = errors.New("planner not persisted")

type mongoRepo struct{}

// NewMongoRepository returns the Repository backed by the planners collection.
func NewMongoRepository() Repository { return mongoRepo{} }

func (mongoRepo) List(ctx context.Context, userID string) ([]models.Planner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "deleted": bson.M{"$ne": true}}
	cursor, err := db.PlannersCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var planners []models.Planner
	if err := cursor.All(ctx, &planners); err != nil {
		return nil, err
	}
	if planners == nil {
		planners = []models.Planner{}
	}
	return planners, nil
}

func (mongoRepo) Insert(ctx context.Context, p models.Planner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.PlannersCollection.InsertOne(ctx, p)
	return err
}

func (mongoRepo) Replace(ctx context.Context, userID, plannerID string, p models.Planner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"plannerId": plannerID, "userId": userID}
	res, err := db.PlannersCollection.ReplaceOne(ctx, filter, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Planner came from the snapshot cache but was never written, or
		// was deleted concurrently; adopt it.
		if _, err := db.PlannersCollection.InsertOne(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (mongoRepo) Delete(ctx context.Context, userID, plannerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"plannerId": plannerID, "userId": userID}
	update := bson.M{"$set": bson.M{"deleted": true}}
	res, err := db.PlannersCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

type redisSnapshots struct{}

// NewRedisSnapshots returns the SnapshotCache backed by Redis.
func NewRedisSnapshots() SnapshotCache { return redisSnapshots{} }

func (redisSnapshots) Save(ctx context.Context, userID string, planners []models.Planner) {
	rdx.SavePlannerSnapshot(ctx, userID, planners)
}

func (redisSnapshots) Load(ctx context.Context, userID string) []models.Planner {
	return rdx.LoadPlannerSnapshot(ctx, userID)
}

func (redisSnapshots) Drop(ctx context.Context, userID string) {
	rdx.DropPlannerSnapshot(ctx, userID)
}
