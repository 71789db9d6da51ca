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

const plannedExerciseCollectionName = "planned_exercises"

// mongoPlannedExerciseRepository implements repository.PlannedExerciseRepository.
type mongoPlannedExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoPlannedExerciseRepository creates a new PlannedExercise repository.
func NewMongoPlannedExerciseRepository(db *mongo.Database) repository.PlannedExerciseRepository {
	return &mongoPlannedExerciseRepository{
		collection: db.Collection(plannedExerciseCollectionName),
	}
}

func (r *mongoPlannedExerciseRepository) Create(ctx context.Context, pe *domain.PlannedExercise) (primitive.ObjectID, error) {
	if pe.TrainingDayID == primitive.NilObjectID || pe.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("planned exercise requires trainingDayId and exerciseId")
	}
	pe.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pe.CreatedAt = now
	pe.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, pe); err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return pe.ID, nil
}

func (r *mongoPlannedExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedExercise, error) {
	var pe domain.PlannedExercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pe); err != nil {
		return nil, mapError(err)
	}
	return &pe, nil
}

func (r *mongoPlannedExerciseRepository) ListByDays(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.PlannedExercise, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}
	var list []domain.PlannedExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "trainingDayId", Value: 1}, {Key: "orderIndex", Value: 1}})
	err := findAll(ctx, r.collection, bson.M{"trainingDayId": bson.M{"$in": dayIDs}}, &list, findOptions)
	return list, err
}

func (r *mongoPlannedExerciseRepository) ListByExercise(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.PlannedExercise, error) {
	var list []domain.PlannedExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "trainingDayId", Value: 1}, {Key: "orderIndex", Value: 1}})
	err := findAll(ctx, r.collection, bson.M{"exerciseId": exerciseID}, &list, findOptions)
	return list, err
}

func (r *mongoPlannedExerciseRepository) MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	var top struct {
		OrderIndex int `bson:"orderIndex"`
	}
	findOptions := options.FindOne().
		SetSort(bson.D{{Key: "orderIndex", Value: -1}}).
		SetProjection(bson.M{"orderIndex": 1})
	err := r.collection.FindOne(ctx, bson.M{"trainingDayId": dayID}, findOptions).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return top.OrderIndex, nil
}

func (r *mongoPlannedExerciseRepository) Update(ctx context.Context, pe *domain.PlannedExercise) error {
	pe.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"exerciseId":      pe.ExerciseID,
			"sets":            pe.Sets,
			"repRange":        pe.RepRange,
			"intensityTypeId": pe.IntensityTypeID,
			"intensityValue":  pe.IntensityValue,
			"techniqueTypeId": pe.TechniqueTypeID,
			"restSeconds":     pe.RestSeconds,
			"notes":           pe.Notes,
			"supersetGroupId": pe.SupersetGroupID,
			"updatedAt":       pe.UpdatedAt,
		},
	}
	return r.updateOne(ctx, pe.ID, update)
}

func (r *mongoPlannedExerciseRepository) SetPosition(ctx context.Context, id, dayID primitive.ObjectID, orderIndex int) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"trainingDayId": dayID, "orderIndex": orderIndex, "updatedAt": time.Now().UTC()},
	})
}

func (r *mongoPlannedExerciseRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlannedExerciseRepository) ShiftDown(ctx context.Context, dayID primitive.ObjectID, afterIndex int) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"trainingDayId": dayID, "orderIndex": bson.M{"$gt": afterIndex}},
		bson.M{"$inc": bson.M{"orderIndex": -1}, "$set": bson.M{"updatedAt": time.Now().UTC()}})
	return err
}

func (r *mongoPlannedExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlannedExerciseRepository) DeleteByDays(ctx context.Context, dayIDs []primitive.ObjectID) error {
	if len(dayIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"trainingDayId": bson.M{"$in": dayIDs}})
	return err
}

// EnsurePlannedExerciseIndexes creates necessary indexes. Call during startup.
func EnsurePlannedExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainingDayId", Value: 1}, {Key: "orderIndex", Value: 1}}},
		{Keys: bson.D{{Key: "exerciseId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
