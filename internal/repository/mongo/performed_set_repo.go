package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const performedSetCollectionName = "performed_sets"

// mongoPerformedSetRepository implements repository.PerformedSetRepository
type mongoPerformedSetRepository struct {
	collection *mongo.Collection
}

// NewMongoPerformedSetRepository creates a new PerformedSet repository backed by MongoDB.
func NewMongoPerformedSetRepository(db *mongo.Database) repository.PerformedSetRepository {
	return &mongoPerformedSetRepository{
		collection: db.Collection(performedSetCollectionName),
	}
}

// Create inserts a logged set.
func (r *mongoPerformedSetRepository) Create(ctx context.Context, set *domain.PerformedSet) (primitive.ObjectID, error) {
	if set.WorkoutID == primitive.NilObjectID || set.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("performed set requires workoutId and exerciseId")
	}
	set.ID = primitive.NewObjectID()
	if set.PerformedAt.IsZero() {
		set.PerformedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, set); err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return set.ID, nil
}

// ListByWorkout retrieves the sets of a workout in set order.
func (r *mongoPerformedSetRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.find(ctx, bson.M{"workoutId": workoutID},
		bson.D{{Key: "setNumber", Value: 1}, {Key: "performedAt", Value: 1}})
}

// ListByExercise retrieves a user's history for one exercise, oldest first.
func (r *mongoPerformedSetRepository) ListByExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.find(ctx, bson.M{"userId": userID, "exerciseId": exerciseID},
		bson.D{{Key: "performedAt", Value: 1}})
}

// ListByPlannedExercise retrieves every set logged against a planned exercise.
func (r *mongoPerformedSetRepository) ListByPlannedExercise(ctx context.Context, plannedExerciseID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.find(ctx, bson.M{"plannedExerciseId": plannedExerciseID},
		bson.D{{Key: "performedAt", Value: 1}})
}

func (r *mongoPerformedSetRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]domain.PerformedSet, error) {
	var sets []domain.PerformedSet
	err := findAll(ctx, r.collection, filter, &sets, options.Find().SetSort(sort))
	return sets, err
}

func (r *mongoPerformedSetRepository) CountByExercise(ctx context.Context, exerciseID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"exerciseId": exerciseID})
}

func (r *mongoPerformedSetRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsurePerformedSetIndexes creates necessary indexes for the performed_sets collection.
func EnsurePerformedSetIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "performedAt", Value: 1}}},
		{Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "setNumber", Value: 1}}},
		{
			Keys:    bson.D{{Key: "plannedExerciseId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
