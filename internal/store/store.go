// internal/store/store.go
package store

import (
	"context"
	"fmt"

	"alcyxob/strength-planner/internal/config"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	mongorepo "alcyxob/strength-planner/internal/repository/mongo"
	sqliterepo "alcyxob/strength-planner/internal/repository/sqlite"
)

// Store bundles the repositories of one backend together with its transaction manager.
type Store struct {
	Users            repository.UserRepository
	Catalog          repository.CatalogRepository
	Exercises        repository.ExerciseRepository
	Mesocycles       repository.MesocycleRepository
	Weeks            repository.WeekRepository
	TrainingDays     repository.TrainingDayRepository
	PlannedExercises repository.PlannedExerciseRepository
	Workouts         repository.WorkoutRepository
	PerformedSets    repository.PerformedSetRepository
	DailyMetrics     repository.DailyMetricRepository
	Tx               repository.TxManager

	closeFn func() error
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Open connects to the backend named by cfg.Driver and prepares its schema
// (migrations for sqlite, indexes for mongo).
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err := sqliterepo.Open(ctx, cfg.Path, log)
		if err != nil {
			return nil, err
		}
		log.Info("SQLite database ready", "path", cfg.Path)
		return NewSQLite(db), nil

	case config.DriverMongo:
		client, err := mongorepo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.Name)
		if err := mongorepo.EnsureIndexes(ctx, db, log.With("store", "mongo")); err != nil {
			_ = mongorepo.DisconnectDB(client)
			return nil, err
		}
		log.Info("Successfully connected to MongoDB", "database", cfg.Name)

		return &Store{
			Users:            mongorepo.NewMongoUserRepository(db),
			Catalog:          mongorepo.NewMongoCatalogRepository(db),
			Exercises:        mongorepo.NewMongoExerciseRepository(db),
			Mesocycles:       mongorepo.NewMongoMesocycleRepository(db),
			Weeks:            mongorepo.NewMongoWeekRepository(db),
			TrainingDays:     mongorepo.NewMongoTrainingDayRepository(db),
			PlannedExercises: mongorepo.NewMongoPlannedExerciseRepository(db),
			Workouts:         mongorepo.NewMongoWorkoutRepository(db),
			PerformedSets:    mongorepo.NewMongoPerformedSetRepository(db),
			DailyMetrics:     mongorepo.NewMongoDailyMetricRepository(db),
			Tx:               mongorepo.NewTxManager(client),
			closeFn:          func() error { return mongorepo.DisconnectDB(client) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// NewSQLite wires every repository to an open SQLite database.
func NewSQLite(db *sqliterepo.DB) *Store {
	return &Store{
		Users:            sqliterepo.NewUserRepository(db),
		Catalog:          sqliterepo.NewCatalogRepository(db),
		Exercises:        sqliterepo.NewExerciseRepository(db),
		Mesocycles:       sqliterepo.NewMesocycleRepository(db),
		Weeks:            sqliterepo.NewWeekRepository(db),
		TrainingDays:     sqliterepo.NewTrainingDayRepository(db),
		PlannedExercises: sqliterepo.NewPlannedExerciseRepository(db),
		Workouts:         sqliterepo.NewWorkoutRepository(db),
		PerformedSets:    sqliterepo.NewPerformedSetRepository(db),
		DailyMetrics:     sqliterepo.NewDailyMetricRepository(db),
		Tx:               db,
		closeFn:          db.Close,
	}
}
