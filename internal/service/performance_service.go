package service

import (
	"context"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseStats aggregates a user's working sets of one exercise. Warm-up sets never count.
type ExerciseStats struct {
	ExerciseID         primitive.ObjectID `json:"exercise_id"`
	TimesPerformed     int                `json:"times_performed"` // Distinct workouts
	TotalSets          int                `json:"total_sets"`
	MaxWeight          float64            `json:"max_weight"`
	MaxRepsAtMaxWeight int                `json:"max_reps_at_max_weight"`
	PRDate             string             `json:"pr_date,omitempty"`
	Estimated1RM       *float64           `json:"estimated_1rm,omitempty"`
	MaxSessionVolume   float64            `json:"max_session_volume"`
	TotalVolume        float64            `json:"total_volume"`
	LastPerformedDate  string             `json:"last_performed_date,omitempty"`
}

// PlannedExerciseSummary compares a planned exercise with what was logged against it.
type PlannedExerciseSummary struct {
	PlannedExerciseID primitive.ObjectID `json:"planned_exercise_id"`
	PlannedSets       int                `json:"planned_sets"`
	CompletedSets     int                `json:"completed_sets"`
	TotalVolume       float64            `json:"total_volume"`
	TopSetWeight      float64            `json:"top_set_weight"`
	Estimated1RM      *float64           `json:"estimated_1rm,omitempty"`
}

// PerformanceService derives statistics from logged sets. It never writes.
type PerformanceService interface {
	ExerciseStats(ctx context.Context, userID, exerciseID primitive.ObjectID) (*ExerciseStats, error)
	PlannedExerciseSummary(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) (*PlannedExerciseSummary, error)
}

type performanceService struct {
	performedSetRepo repository.PerformedSetRepository
	exerciseRepo     repository.ExerciseRepository
	planner          PlannerService
	log              *logger.Logger
}

// NewPerformanceService creates a new instance of performanceService. Ownership of planned
// exercises is resolved through the planner.
func NewPerformanceService(performedSetRepo repository.PerformedSetRepository, exerciseRepo repository.ExerciseRepository, planner PlannerService, log *logger.Logger) PerformanceService {
	return &performanceService{
		performedSetRepo: performedSetRepo,
		exerciseRepo:     exerciseRepo,
		planner:          planner,
		log:              log.With("service", "PerformanceService"),
	}
}

func (s *performanceService) ExerciseStats(ctx context.Context, userID, exerciseID primitive.ObjectID) (*ExerciseStats, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, lookupErr("exercise", err)
	}
	if exercise.UserID != userID {
		return nil, ErrAccessDenied
	}

	sets, err := s.performedSetRepo.ListByExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, storageErr("list performed sets", err)
	}
	return aggregateExercise(exerciseID, sets), nil
}

// aggregateExercise expects sets oldest first, so the PR date is when the record was first set.
func aggregateExercise(exerciseID primitive.ObjectID, sets []domain.PerformedSet) *ExerciseStats {
	stats := &ExerciseStats{ExerciseID: exerciseID}
	sessionVolume := make(map[primitive.ObjectID]float64)
	var best1RM float64

	for i := range sets {
		set := &sets[i]
		if set.IsWarmup {
			continue
		}
		stats.TotalSets++
		volume := set.Volume()
		stats.TotalVolume += volume
		sessionVolume[set.WorkoutID] += volume

		if set.Weight > stats.MaxWeight || (set.Weight == stats.MaxWeight && set.Reps > stats.MaxRepsAtMaxWeight) {
			stats.MaxWeight = set.Weight
			stats.MaxRepsAtMaxWeight = set.Reps
			stats.PRDate = set.PerformedAt.Format(domain.DateLayout)
		}
		if e1rm, ok := set.Estimated1RM(); ok && e1rm > best1RM {
			best1RM = e1rm
		}
		if last := set.PerformedAt.Format(domain.DateLayout); last > stats.LastPerformedDate {
			stats.LastPerformedDate = last
		}
	}

	stats.TimesPerformed = len(sessionVolume)
	for _, v := range sessionVolume {
		if v > stats.MaxSessionVolume {
			stats.MaxSessionVolume = v
		}
	}
	stats.TotalVolume = domain.Round2(stats.TotalVolume)
	stats.MaxSessionVolume = domain.Round2(stats.MaxSessionVolume)
	if best1RM > 0 {
		rounded := domain.Round2(best1RM)
		stats.Estimated1RM = &rounded
	}
	return stats
}

func (s *performanceService) PlannedExerciseSummary(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) (*PlannedExerciseSummary, error) {
	pe, err := s.planner.GetPlannedExercise(ctx, userID, mesocycleID, plannedID)
	if err != nil {
		return nil, err
	}
	sets, err := s.performedSetRepo.ListByPlannedExercise(ctx, plannedID)
	if err != nil {
		return nil, storageErr("list performed sets", err)
	}

	summary := &PlannedExerciseSummary{PlannedExerciseID: plannedID, PlannedSets: pe.Sets}
	var best1RM float64
	for i := range sets {
		set := &sets[i]
		if set.IsWarmup {
			continue
		}
		summary.CompletedSets++
		summary.TotalVolume += set.Volume()
		if set.Weight > summary.TopSetWeight {
			summary.TopSetWeight = set.Weight
		}
		if e1rm, ok := set.Estimated1RM(); ok && e1rm > best1RM {
			best1RM = e1rm
		}
	}
	summary.TotalVolume = domain.Round2(summary.TotalVolume)
	if best1RM > 0 {
		rounded := domain.Round2(best1RM)
		summary.Estimated1RM = &rounded
	}
	return summary, nil
}
