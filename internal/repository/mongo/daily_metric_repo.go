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

const dailyMetricCollectionName = "daily_metrics"

// mongoDailyMetricRepository implements repository.DailyMetricRepository.
type mongoDailyMetricRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyMetricRepository creates a new DailyMetric repository.
func NewMongoDailyMetricRepository(db *mongo.Database) repository.DailyMetricRepository {
	return &mongoDailyMetricRepository{
		collection: db.Collection(dailyMetricCollectionName),
	}
}

// Upsert writes the metric on its (userId, date, metricType) key.
func (r *mongoDailyMetricRepository) Upsert(ctx context.Context, m *domain.DailyMetric) error {
	now := time.Now().UTC()
	m.Date = domain.TruncateToDate(m.Date)

	filter := bson.M{"userId": m.UserID, "date": m.Date, "metricType": m.MetricType}
	update := bson.M{
		"$set": bson.M{
			"value":     m.Value,
			"unit":      m.Unit,
			"notes":     m.Notes,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	findOptions := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored domain.DailyMetric
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, findOptions).Decode(&stored); err != nil {
		return mapError(err)
	}
	*m = stored
	return nil
}

func (r *mongoDailyMetricRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyMetric, error) {
	var m domain.DailyMetric
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *mongoDailyMetricRepository) Update(ctx context.Context, m *domain.DailyMetric) error {
	m.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"value": m.Value, "unit": m.Unit, "notes": m.Notes, "updatedAt": m.UpdatedAt},
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

func (r *mongoDailyMetricRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoDailyMetricRepository) ListRange(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType, from, to time.Time) ([]domain.DailyMetric, error) {
	filter := bson.M{
		"userId":     userID,
		"metricType": metricType,
		"date":       bson.M{"$gte": domain.TruncateToDate(from), "$lte": domain.TruncateToDate(to)},
	}
	var metrics []domain.DailyMetric
	err := findAll(ctx, r.collection, filter, &metrics, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	return metrics, err
}

func (r *mongoDailyMetricRepository) Latest(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType) (*domain.DailyMetric, error) {
	var m domain.DailyMetric
	findOptions := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "metricType": metricType}, findOptions).Decode(&m)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *mongoDailyMetricRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureDailyMetricIndexes enforces one row per (user, date, type).
func EnsureDailyMetricIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "metricType", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
