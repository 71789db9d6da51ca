package mongo

import (
	"context"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingDayCollectionName = "training_days"

// mongoTrainingDayRepository implements repository.TrainingDayRepository.
// Muscle-group focus is embedded as an ordered array.
type mongoTrainingDayRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingDayRepository creates a new TrainingDay repository.
func NewMongoTrainingDayRepository(db *mongo.Database) repository.TrainingDayRepository {
	return &mongoTrainingDayRepository{
		collection: db.Collection(trainingDayCollectionName),
	}
}

func (r *mongoTrainingDayRepository) Create(ctx context.Context, day *domain.TrainingDay) (primitive.ObjectID, error) {
	if err := r.CreateMany(ctx, []*domain.TrainingDay{day}); err != nil {
		return primitive.NilObjectID, err
	}
	return day.ID, nil
}

func (r *mongoTrainingDayRepository) CreateMany(ctx context.Context, days []*domain.TrainingDay) error {
	if len(days) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(days))
	for i, d := range days {
		d.ID = primitive.NewObjectID()
		d.CreatedAt = now
		d.UpdatedAt = now
		docs[i] = d
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return mapError(err)
}

func (r *mongoTrainingDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDay, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoTrainingDayRepository) GetSecondSession(ctx context.Context, parentID primitive.ObjectID) (*domain.TrainingDay, error) {
	return r.findOne(ctx, bson.M{"parentTrainingDayId": parentID})
}

func (r *mongoTrainingDayRepository) FindByShape(ctx context.Context, weekID primitive.ObjectID, dayNumber int, isSecondSession bool) (*domain.TrainingDay, error) {
	return r.findOne(ctx, bson.M{
		"mesocycleWeekId": weekID,
		"dayNumber":       dayNumber,
		"isSecondSession": isSecondSession,
	}, options.FindOne().SetSort(bson.D{{Key: "orderIndex", Value: 1}}))
}

func (r *mongoTrainingDayRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.TrainingDay, error) {
	var day domain.TrainingDay
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&day); err != nil {
		return nil, mapError(err)
	}
	return &day, nil
}

func (r *mongoTrainingDayRepository) ListByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.TrainingDay, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	var days []domain.TrainingDay
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}, {Key: "createdAt", Value: 1}})
	err := findAll(ctx, r.collection, bson.M{"mesocycleWeekId": bson.M{"$in": weekIDs}}, &days, findOptions)
	return days, err
}

func (r *mongoTrainingDayRepository) Update(ctx context.Context, day *domain.TrainingDay) error {
	day.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":         day.Name,
			"notes":        day.Notes,
			"dayOfWeek":    day.DayOfWeek,
			"muscleGroups": day.MuscleGroups,
			"updatedAt":    day.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": day.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingDayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingDayRepository) DeleteByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) error {
	if len(weekIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"mesocycleWeekId": bson.M{"$in": weekIDs}})
	return err
}

// EnsureTrainingDayIndexes allows at most one second session per parent day.
func EnsureTrainingDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mesocycleWeekId", Value: 1}, {Key: "orderIndex", Value: 1}}},
		{
			Keys: bson.D{{Key: "parentTrainingDayId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"parentTrainingDayId": bson.M{"$exists": true}}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
