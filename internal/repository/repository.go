package repository

import (
	"alcyxob/strength-planner/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxManager runs a unit of work atomically. Repositories called with the ctx handed to fn
// take part in the transaction. Nested calls reuse the outer transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CatalogRepository gives read access to shared reference data.
type CatalogRepository interface {
	ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) // By display order
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)      // By name
	ListIntensityTypes(ctx context.Context) ([]domain.IntensityType, error)
	ListTechniqueTypes(ctx context.Context) ([]domain.TechniqueType, error)
	ListSetTypes(ctx context.Context) ([]domain.SetType, error)
	// Seed inserts every row whose slug is not stored yet and returns how many were added.
	Seed(ctx context.Context, catalog *domain.Catalog) (int, error)
}

// ExerciseFilter narrows ListByUser results.
type ExerciseFilter struct {
	Search         string              // Case-insensitive substring of the name
	MuscleGroupID  *primitive.ObjectID // Matches primary or secondary involvement
	EquipmentID    *primitive.ObjectID
	BodyweightOnly bool // Exercises without equipment
	ActiveOnly     bool
	SortBy         string // "name" (default) or "created_at"
	Descending     bool
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error // Ensure user owns the exercise
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// MesocycleRepository defines the interface for interacting with mesocycle data.
type MesocycleRepository interface {
	Create(ctx context.Context, mesocycle *domain.Mesocycle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error) // Newest first
	Update(ctx context.Context, mesocycle *domain.Mesocycle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WeekRepository stores the weeks of a mesocycle.
type WeekRepository interface {
	CreateMany(ctx context.Context, weeks []*domain.MesocycleWeek) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleWeek, error)
	GetByNumber(ctx context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.MesocycleWeek, error)
	ListByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) ([]domain.MesocycleWeek, error) // By week number
	Update(ctx context.Context, week *domain.MesocycleWeek) error
	DeleteByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) error
}

// TrainingDayRepository stores training days and their muscle-group focus.
type TrainingDayRepository interface {
	Create(ctx context.Context, day *domain.TrainingDay) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, days []*domain.TrainingDay) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDay, error)
	ListByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.TrainingDay, error) // By order index
	GetSecondSession(ctx context.Context, parentID primitive.ObjectID) (*domain.TrainingDay, error)
	FindByShape(ctx context.Context, weekID primitive.ObjectID, dayNumber int, isSecondSession bool) (*domain.TrainingDay, error)
	Update(ctx context.Context, day *domain.TrainingDay) error // Name, notes, day of week, muscle groups
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) error
}

// PlannedExerciseRepository stores the ordered exercise slots of training days.
type PlannedExerciseRepository interface {
	Create(ctx context.Context, pe *domain.PlannedExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedExercise, error)
	ListByDays(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.PlannedExercise, error) // By day, then order index
	ListByExercise(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.PlannedExercise, error)
	// MaxOrderIndex returns -1 for a day without planned exercises.
	MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error)
	// Update writes the programming fields. Day and order index are left untouched.
	Update(ctx context.Context, pe *domain.PlannedExercise) error
	SetPosition(ctx context.Context, id, dayID primitive.ObjectID, orderIndex int) error
	// ShiftDown decrements the order index of every row in the day positioned after afterIndex.
	ShiftDown(ctx context.Context, dayID primitive.ObjectID, afterIndex int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByDays(ctx context.Context, dayIDs []primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) // Newest first
	Update(ctx context.Context, workout *domain.Workout) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// PerformedSetRepository stores logged sets.
type PerformedSetRepository interface {
	Create(ctx context.Context, set *domain.PerformedSet) (primitive.ObjectID, error)
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.PerformedSet, error)
	ListByExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.PerformedSet, error) // Oldest first
	ListByPlannedExercise(ctx context.Context, plannedExerciseID primitive.ObjectID) ([]domain.PerformedSet, error)
	CountByExercise(ctx context.Context, exerciseID primitive.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// DailyMetricRepository stores per-day body metrics, unique per (user, date, type).
type DailyMetricRepository interface {
	// Upsert inserts or overwrites value, unit and notes on the (user, date, type) key.
	Upsert(ctx context.Context, metric *domain.DailyMetric) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyMetric, error)
	Update(ctx context.Context, metric *domain.DailyMetric) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListRange returns metrics with from <= date <= to, oldest first.
	ListRange(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType, from, to time.Time) ([]domain.DailyMetric, error)
	Latest(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType) (*domain.DailyMetric, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}
