// internal/repository/mongo/mesocycle_repo.go
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

const (
	mesocycleCollectionName = "mesocycles"
	weekCollectionName      = "mesocycle_weeks"
)

// mongoMesocycleRepository implements repository.MesocycleRepository
type mongoMesocycleRepository struct {
	collection *mongo.Collection
}

// NewMongoMesocycleRepository creates a new Mesocycle repository.
func NewMongoMesocycleRepository(db *mongo.Database) repository.MesocycleRepository {
	return &mongoMesocycleRepository{
		collection: db.Collection(mesocycleCollectionName),
	}
}

// Create inserts a new mesocycle.
func (r *mongoMesocycleRepository) Create(ctx context.Context, m *domain.Mesocycle) (primitive.ObjectID, error) {
	if m.UserID == primitive.NilObjectID || m.Name == "" {
		return primitive.NilObjectID, errors.New("mesocycle requires userId and name")
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return m.ID, nil
}

// GetByID retrieves a single mesocycle by its ID.
func (r *mongoMesocycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error) {
	var m domain.Mesocycle
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// ListByUser retrieves every mesocycle of a user, newest first.
func (r *mongoMesocycleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error) {
	var list []domain.Mesocycle
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := findAll(ctx, r.collection, bson.M{"userId": userID}, &list, findOptions)
	return list, err
}

// Update writes the editable fields. Duration and frequency are fixed at creation.
func (r *mongoMesocycleRepository) Update(ctx context.Context, m *domain.Mesocycle) error {
	if m.ID == primitive.NilObjectID {
		return errors.New("mesocycle ID is required for update")
	}
	m.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":        m.Name,
			"description": m.Description,
			"startDate":   m.StartDate,
			"status":      m.Status,
			"settings":    m.Settings,
			"updatedAt":   m.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": m.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMesocycleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMesocycleIndexes creates necessary indexes. Call during startup.
func EnsureMesocycleIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// --- Weeks ---

type mongoWeekRepository struct {
	collection *mongo.Collection
}

// NewMongoWeekRepository creates a new MesocycleWeek repository.
func NewMongoWeekRepository(db *mongo.Database) repository.WeekRepository {
	return &mongoWeekRepository{
		collection: db.Collection(weekCollectionName),
	}
}

func (r *mongoWeekRepository) CreateMany(ctx context.Context, weeks []*domain.MesocycleWeek) error {
	if len(weeks) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(weeks))
	for i, w := range weeks {
		w.ID = primitive.NewObjectID()
		w.CreatedAt = now
		w.UpdatedAt = now
		docs[i] = w
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return mapError(err)
}

func (r *mongoWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleWeek, error) {
	var w domain.MesocycleWeek
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func (r *mongoWeekRepository) GetByNumber(ctx context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.MesocycleWeek, error) {
	var w domain.MesocycleWeek
	filter := bson.M{"mesocycleId": mesocycleID, "weekNumber": weekNumber}
	if err := r.collection.FindOne(ctx, filter).Decode(&w); err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func (r *mongoWeekRepository) ListByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) ([]domain.MesocycleWeek, error) {
	var weeks []domain.MesocycleWeek
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})
	err := findAll(ctx, r.collection, bson.M{"mesocycleId": mesocycleID}, &weeks, findOptions)
	return weeks, err
}

func (r *mongoWeekRepository) Update(ctx context.Context, w *domain.MesocycleWeek) error {
	w.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"weekType":          w.WeekType,
			"intensityModifier": w.IntensityModifier,
			"volumeModifier":    w.VolumeModifier,
			"notes":             w.Notes,
			"updatedAt":         w.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": w.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWeekRepository) DeleteByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"mesocycleId": mesocycleID})
	return err
}

// EnsureWeekIndexes makes week numbers unique per mesocycle.
func EnsureWeekIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mesocycleId", Value: 1}, {Key: "weekNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
