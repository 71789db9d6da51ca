package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository.
// Muscle-group links are embedded in the exercise document.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise name and user ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return exercise.ID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise); err != nil {
		return nil, mapError(err)
	}
	return &exercise, nil
}

func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var exercises []domain.Exercise
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	err := findAll(ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, &exercises, opts)
	return exercises, err
}

// ListByUser retrieves the user's exercises narrowed by the filter.
func (r *mongoExerciseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	filter := bson.M{"userId": userID}
	if s := strings.TrimSpace(f.Search); s != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if f.MuscleGroupID != nil {
		filter["$or"] = bson.A{
			bson.M{"primaryMuscleGroupId": *f.MuscleGroupID},
			bson.M{"muscleGroups.muscleGroupId": *f.MuscleGroupID},
		}
	}
	if f.BodyweightOnly {
		filter["equipmentId"] = nil // Absent or null
	} else if f.EquipmentID != nil {
		filter["equipmentId"] = *f.EquipmentID
	}
	if f.ActiveOnly {
		filter["isActive"] = true
	}

	direction := 1
	if f.Descending {
		direction = -1
	}
	findOptions := options.Find()
	if f.SortBy == "created_at" {
		findOptions.SetSort(bson.D{{Key: "createdAt", Value: direction}})
	} else {
		// Case-insensitive name ordering
		findOptions.SetSort(bson.D{{Key: "name", Value: direction}}).
			SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}

	var exercises []domain.Exercise
	err := findAll(ctx, r.collection, filter, &exercises, findOptions)
	return exercises, err
}

// Update modifies an existing exercise. The owner is never rewritten here.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}
	exercise.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":                 exercise.Name,
			"primaryMuscleGroupId": exercise.PrimaryMuscleGroupID,
			"equipmentId":          exercise.EquipmentID,
			"isCompound":           exercise.IsCompound,
			"isActive":             exercise.IsActive,
			"notes":                exercise.Notes,
			"muscleGroups":         exercise.MuscleGroups,
			"videoKey":             exercise.VideoKey,
			"updatedAt":            exercise.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, ensuring it belongs to the specified user.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either missing or owned by someone else
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExerciseRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "muscleGroups.muscleGroupId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
