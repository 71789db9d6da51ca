package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// Transactions need a replica set (a single-node one is enough).
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// --- Transactions ---

type txManager struct {
	client *mongo.Client
}

// NewTxManager returns a TxManager backed by client sessions. Repositories receive the
// session context as ctx, so their operations join the transaction.
func NewTxManager(client *mongo.Client) repository.TxManager {
	return &txManager{client: client}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// --- Indexes ---

// EnsureIndexes creates the indexes of every collection. Call once during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{muscleGroupCollectionName, ensureSlugIndex},
		{equipmentCollectionName, ensureSlugIndex},
		{intensityTypeCollectionName, ensureSlugIndex},
		{techniqueTypeCollectionName, ensureSlugIndex},
		{setTypeCollectionName, ensureSlugIndex},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{mesocycleCollectionName, EnsureMesocycleIndexes},
		{weekCollectionName, EnsureWeekIndexes},
		{trainingDayCollectionName, EnsureTrainingDayIndexes},
		{plannedExerciseCollectionName, EnsurePlannedExerciseIndexes},
		{workoutCollectionName, EnsureWorkoutIndexes},
		{performedSetCollectionName, EnsurePerformedSetIndexes},
		{dailyMetricCollectionName, EnsureDailyMetricIndexes},
	}
	for _, s := range steps {
		if err := s.ensure(ctx, db.Collection(s.collection)); err != nil {
			return fmt.Errorf("failed to create indexes for collection %s: %w", s.collection, err)
		}
		log.Debug("Indexes ensured", "collection", s.collection)
	}
	return nil
}

func ensureSlugIndex(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// --- Errors ---

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

// findAll runs a query and decodes every document into out (a pointer to a slice).
func findAll(ctx context.Context, collection *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}
