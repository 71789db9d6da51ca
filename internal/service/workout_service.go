package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var weightUnits = map[string]bool{"kg": true, "lb": true}

type StartWorkoutInput struct {
	TrainingDayID *primitive.ObjectID
	Type          domain.WorkoutType // Defaults to planned with a training day, freestyle otherwise
	Notes         string
}

type LogSetInput struct {
	ExerciseID        primitive.ObjectID
	PlannedExerciseID *primitive.ObjectID
	SetNumber         int // 0 picks the next number for the exercise
	Reps              int
	Weight            float64
	WeightUnit        string
	RPE               *float64
	RIR               *int
	SetTypeID         *primitive.ObjectID
	SupersetGroupID   string
	RestTakenSeconds  *int
	IsWarmup          bool
	IsFailure         bool
	Notes             string
}

type CompleteWorkoutInput struct {
	SessionRPE *float64
	Mood       string
	Notes      *string
}

// WorkoutDetails is a workout with its logged sets in order.
type WorkoutDetails struct {
	domain.Workout
	Sets []domain.PerformedSet `json:"sets"`
}

// WorkoutService is the minimal logging side that feeds the performance aggregator.
type WorkoutService interface {
	StartWorkout(ctx context.Context, userID primitive.ObjectID, in StartWorkoutInput) (*domain.Workout, error)
	LogSet(ctx context.Context, userID, workoutID primitive.ObjectID, in LogSetInput) (*domain.PerformedSet, error)
	CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, in CompleteWorkoutInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetails, error)
	ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo      repository.WorkoutRepository
	performedSetRepo repository.PerformedSetRepository
	exerciseRepo     repository.ExerciseRepository
	plannedRepo      repository.PlannedExerciseRepository
	dayRepo          repository.TrainingDayRepository
	weekRepo         repository.WeekRepository
	mesocycleRepo    repository.MesocycleRepository
	catalog          CatalogService
	log              *logger.Logger
	now              func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	performedSetRepo repository.PerformedSetRepository,
	exerciseRepo repository.ExerciseRepository,
	plannedRepo repository.PlannedExerciseRepository,
	dayRepo repository.TrainingDayRepository,
	weekRepo repository.WeekRepository,
	mesocycleRepo repository.MesocycleRepository,
	catalog CatalogService,
	log *logger.Logger,
) WorkoutService {
	return &workoutService{
		workoutRepo:      workoutRepo,
		performedSetRepo: performedSetRepo,
		exerciseRepo:     exerciseRepo,
		plannedRepo:      plannedRepo,
		dayRepo:          dayRepo,
		weekRepo:         weekRepo,
		mesocycleRepo:    mesocycleRepo,
		catalog:          catalog,
		log:              log.With("service", "WorkoutService"),
		now:              time.Now,
	}
}

// dayOwnedBy resolves day -> week -> mesocycle and checks the owner.
func (s *workoutService) dayOwnedBy(ctx context.Context, userID, dayID primitive.ObjectID) (*domain.TrainingDay, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		return nil, lookupErr("training day", err)
	}
	week, err := s.weekRepo.GetByID(ctx, day.MesocycleWeekID)
	if err != nil {
		return nil, lookupErr("week", err)
	}
	mesocycle, err := s.mesocycleRepo.GetByID(ctx, week.MesocycleID)
	if err != nil {
		return nil, lookupErr("mesocycle", err)
	}
	if mesocycle.UserID != userID {
		return nil, notFound("training day")
	}
	return day, nil
}

// StartWorkout opens a new session, optionally tied to a planned training day.
func (s *workoutService) StartWorkout(ctx context.Context, userID primitive.ObjectID, in StartWorkoutInput) (*domain.Workout, error) {
	workoutType := in.Type
	if workoutType == "" {
		workoutType = domain.WorkoutFreestyle
		if in.TrainingDayID != nil {
			workoutType = domain.WorkoutPlanned
		}
	}
	switch workoutType {
	case domain.WorkoutPlanned:
		if in.TrainingDayID == nil {
			return nil, invalid("training_day_id", "is required for planned workouts")
		}
	case domain.WorkoutFreestyle:
	default:
		return nil, invalid("type", "must be planned or freestyle")
	}

	if in.TrainingDayID != nil {
		if _, err := s.dayOwnedBy(ctx, userID, *in.TrainingDayID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalid("training_day_id", "unknown training day")
			}
			return nil, err
		}
	}

	workout := &domain.Workout{
		UserID:        userID,
		TrainingDayID: in.TrainingDayID,
		Type:          workoutType,
		StartedAt:     s.now().UTC(),
		Notes:         in.Notes,
	}
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, storageErr("create workout", err)
	}
	s.log.Info("Workout started", "user_id", userID.Hex(), "workout_id", workout.ID.Hex())
	return workout, nil
}

func (s *workoutService) ownedWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, lookupErr("workout", err)
	}
	if workout.UserID != userID {
		return nil, ErrAccessDenied
	}
	return workout, nil
}

// LogSet records one set in an open workout.
func (s *workoutService) LogSet(ctx context.Context, userID, workoutID primitive.ObjectID, in LogSetInput) (*domain.PerformedSet, error) {
	// 1. Validate Input
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.IsCompleted() {
		return nil, conflict("workout is already completed")
	}
	if in.SetNumber < 0 {
		return nil, invalid("set_number", "must not be negative")
	}
	if in.Reps < 0 {
		return nil, invalid("reps", "must not be negative")
	}
	if in.Weight < 0 {
		return nil, invalid("weight", "must not be negative")
	}
	unit := strings.ToLower(strings.TrimSpace(in.WeightUnit))
	if unit == "" {
		unit = "kg"
	}
	if !weightUnits[unit] {
		return nil, invalid("weight_unit", "must be kg or lb")
	}
	if in.RPE != nil && (*in.RPE < 1 || *in.RPE > 10) {
		return nil, invalid("rpe", "must be between 1 and 10")
	}
	if in.RIR != nil && (*in.RIR < 0 || *in.RIR > 10) {
		return nil, invalid("rir", "must be between 0 and 10")
	}

	// 2. Check references
	exercise, err := s.exerciseRepo.GetByID(ctx, in.ExerciseID)
	if err != nil || exercise.UserID != userID {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("exercise_id", "unknown exercise")
		}
		return nil, storageErr("load exercise", err)
	}
	if in.PlannedExerciseID != nil {
		pe, err := s.plannedRepo.GetByID(ctx, *in.PlannedExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("planned_exercise_id", "unknown planned exercise")
			}
			return nil, storageErr("load planned exercise", err)
		}
		if _, err := s.dayOwnedBy(ctx, userID, pe.TrainingDayID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalid("planned_exercise_id", "unknown planned exercise")
			}
			return nil, err
		}
	}
	if in.SetTypeID != nil {
		cat, err := s.catalog.Get(ctx)
		if err != nil {
			return nil, err
		}
		if _, ok := cat.SetType(*in.SetTypeID); !ok {
			return nil, invalid("set_type_id", "unknown set type")
		}
	}

	// 3. Number the set when the client did not
	setNumber := in.SetNumber
	if setNumber == 0 {
		existing, err := s.performedSetRepo.ListByWorkout(ctx, workoutID)
		if err != nil {
			return nil, storageErr("list sets", err)
		}
		for _, ps := range existing {
			if ps.ExerciseID == in.ExerciseID && ps.SetNumber > setNumber {
				setNumber = ps.SetNumber
			}
		}
		setNumber++
	}

	set := &domain.PerformedSet{
		WorkoutID:         workoutID,
		UserID:            userID,
		ExerciseID:        in.ExerciseID,
		PlannedExerciseID: in.PlannedExerciseID,
		SetNumber:         setNumber,
		Reps:              in.Reps,
		Weight:            in.Weight,
		WeightUnit:        unit,
		RPE:               in.RPE,
		RIR:               in.RIR,
		SetTypeID:         in.SetTypeID,
		Notes:             in.Notes,
		SupersetGroupID:   in.SupersetGroupID,
		RestTakenSeconds:  in.RestTakenSeconds,
		IsWarmup:          in.IsWarmup,
		IsFailure:         in.IsFailure,
		PerformedAt:       s.now().UTC(),
	}
	if _, err := s.performedSetRepo.Create(ctx, set); err != nil {
		return nil, storageErr("log set", err)
	}
	return set, nil
}

// CompleteWorkout closes the session and records its duration.
func (s *workoutService) CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, in CompleteWorkoutInput) (*domain.Workout, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.IsCompleted() {
		return nil, conflict("workout is already completed")
	}
	if in.SessionRPE != nil && (*in.SessionRPE < 1 || *in.SessionRPE > 10) {
		return nil, invalid("session_rpe", "must be between 1 and 10")
	}
	if in.Mood != "" && !validMood(in.Mood) {
		return nil, invalid("mood", "must be one of %s", strings.Join(domain.Moods, ", "))
	}

	completedAt := s.now().UTC()
	duration := int(completedAt.Sub(workout.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	workout.CompletedAt = &completedAt
	workout.DurationSeconds = &duration
	workout.SessionRPE = in.SessionRPE
	workout.Mood = in.Mood
	if in.Notes != nil {
		workout.Notes = *in.Notes
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, storageErr("complete workout", err)
	}
	s.log.Info("Workout completed", "workout_id", workoutID.Hex(), "duration_seconds", duration)
	return workout, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetails, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	sets, err := s.performedSetRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, storageErr("list sets", err)
	}
	if sets == nil {
		sets = []domain.PerformedSet{}
	}
	return &WorkoutDetails{Workout: *workout, Sets: sets}, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list workouts", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

func validMood(mood string) bool {
	for _, m := range domain.Moods {
		if m == mood {
			return true
		}
	}
	return false
}
