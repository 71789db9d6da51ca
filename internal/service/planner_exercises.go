package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxRepRangeLength = 50
	maxRestSeconds    = 3600
)

// validateProgramming checks the catalog and exercise references of a planned exercise.
func (s *plannerService) validateProgramming(ctx context.Context, userID primitive.ObjectID, pe *domain.PlannedExercise) error {
	if pe.Sets < domain.MinSets || pe.Sets > domain.MaxSets {
		return invalid("sets", "must be between %d and %d", domain.MinSets, domain.MaxSets)
	}
	pe.RepRange = strings.TrimSpace(pe.RepRange)
	if pe.RepRange == "" {
		return invalid("rep_range", "is required")
	}
	if len(pe.RepRange) > maxRepRangeLength {
		return invalid("rep_range", "must be at most %d characters", maxRepRangeLength)
	}
	if pe.RestSeconds != nil && (*pe.RestSeconds < 0 || *pe.RestSeconds > maxRestSeconds) {
		return invalid("rest_seconds", "must be between 0 and %d", maxRestSeconds)
	}
	if pe.IntensityValue != nil && *pe.IntensityValue < 0 {
		return invalid("intensity_value", "must not be negative")
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, pe.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("exercise_id", "unknown exercise")
		}
		return storageErr("load exercise", err)
	}
	if exercise.UserID != userID {
		return invalid("exercise_id", "unknown exercise")
	}

	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return err
	}
	if pe.IntensityTypeID != nil {
		if _, ok := cat.IntensityType(*pe.IntensityTypeID); !ok {
			return invalid("intensity_type_id", "unknown intensity type")
		}
	}
	if pe.TechniqueTypeID != nil {
		if _, ok := cat.TechniqueType(*pe.TechniqueTypeID); !ok {
			return invalid("technique_type_id", "unknown technique type")
		}
	}
	return nil
}

// AddExercise appends a planned exercise at the end of the day.
func (s *plannerService) AddExercise(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, in PlannedExerciseInput) (*domain.PlannedExercise, error) {
	day, err := s.ownedDay(ctx, userID, mesocycleID, dayID)
	if err != nil {
		return nil, err
	}

	pe := &domain.PlannedExercise{
		TrainingDayID:   day.ID,
		ExerciseID:      in.ExerciseID,
		Sets:            in.Sets,
		RepRange:        in.RepRange,
		IntensityTypeID: in.IntensityTypeID,
		IntensityValue:  in.IntensityValue,
		TechniqueTypeID: in.TechniqueTypeID,
		RestSeconds:     in.RestSeconds,
		Notes:           in.Notes,
	}
	if err := s.validateProgramming(ctx, userID, pe); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		last, err := s.plannedRepo.MaxOrderIndex(ctx, day.ID)
		if err != nil {
			return err
		}
		pe.OrderIndex = last + 1
		_, err = s.plannedRepo.Create(ctx, pe)
		return err
	})
	if err != nil {
		return nil, storageErr("add planned exercise", err)
	}
	return pe, nil
}

// plannedIn loads a planned exercise and checks that its day belongs to the mesocycle.
func (s *plannerService) plannedIn(ctx context.Context, mesocycleID, plannedID primitive.ObjectID) (*domain.PlannedExercise, error) {
	pe, err := s.plannedRepo.GetByID(ctx, plannedID)
	if err != nil {
		return nil, lookupErr("planned exercise", err)
	}
	if _, err := s.dayIn(ctx, mesocycleID, pe.TrainingDayID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("planned exercise")
		}
		return nil, err
	}
	return pe, nil
}

func (s *plannerService) ownedPlanned(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) (*domain.PlannedExercise, error) {
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return nil, err
	}
	return s.plannedIn(ctx, mesocycleID, plannedID)
}

func (s *plannerService) GetPlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) (*domain.PlannedExercise, error) {
	return s.ownedPlanned(ctx, userID, mesocycleID, plannedID)
}

// UpdatePlannedExercise edits the programming in place. The position is left alone.
func (s *plannerService) UpdatePlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID, in UpdatePlannedExerciseInput) (*domain.PlannedExercise, error) {
	pe, err := s.ownedPlanned(ctx, userID, mesocycleID, plannedID)
	if err != nil {
		return nil, err
	}

	if in.ExerciseID != nil {
		pe.ExerciseID = *in.ExerciseID
	}
	if in.Sets != nil {
		pe.Sets = *in.Sets
	}
	if in.RepRange != nil {
		pe.RepRange = *in.RepRange
	}
	if in.ClearIntensity {
		pe.IntensityTypeID, pe.IntensityValue = nil, nil
	}
	if in.IntensityTypeID != nil {
		pe.IntensityTypeID = in.IntensityTypeID
	}
	if in.IntensityValue != nil {
		pe.IntensityValue = in.IntensityValue
	}
	if in.ClearTechnique {
		pe.TechniqueTypeID = nil
	}
	if in.TechniqueTypeID != nil {
		pe.TechniqueTypeID = in.TechniqueTypeID
	}
	if in.RestSeconds != nil {
		pe.RestSeconds = in.RestSeconds
	}
	if in.Notes != nil {
		pe.Notes = *in.Notes
	}

	if err := s.validateProgramming(ctx, userID, pe); err != nil {
		return nil, err
	}
	if err := s.plannedRepo.Update(ctx, pe); err != nil {
		return nil, storageErr("update planned exercise", err)
	}
	return pe, nil
}

// RemovePlannedExercise deletes the row and closes the gap it leaves in the day.
func (s *plannerService) RemovePlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) error {
	pe, err := s.ownedPlanned(ctx, userID, mesocycleID, plannedID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.plannedRepo.Delete(ctx, pe.ID); err != nil {
			return err
		}
		return s.plannedRepo.ShiftDown(ctx, pe.TrainingDayID, pe.OrderIndex)
	})
	if err != nil {
		return storageErr("remove planned exercise", err)
	}
	return nil
}

// ReorderExercises applies every assignment in one transaction. Each affected day must
// end up with the contiguous sequence 0..n-1, otherwise nothing is changed.
func (s *plannerService) ReorderExercises(ctx context.Context, userID, mesocycleID primitive.ObjectID, assignments []ReorderAssignment) error {
	// 1. Validate Input
	if len(assignments) == 0 {
		return invalid("exercises", "at least one assignment is required")
	}
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return err
	}

	affected := make(map[primitive.ObjectID]bool)
	seen := make(map[primitive.ObjectID]bool, len(assignments))
	for _, a := range assignments {
		if a.OrderIndex < 0 {
			return invalid("order_index", "must not be negative")
		}
		if seen[a.PlannedExerciseID] {
			return invalid("exercises", "planned exercise %s listed twice", a.PlannedExerciseID.Hex())
		}
		seen[a.PlannedExerciseID] = true

		pe, err := s.plannedIn(ctx, mesocycleID, a.PlannedExerciseID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("id", "planned exercise %s is not part of this mesocycle", a.PlannedExerciseID.Hex())
			}
			return err
		}
		if _, err := s.dayIn(ctx, mesocycleID, a.TrainingDayID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return invalid("training_day_id", "training day %s is not part of this mesocycle", a.TrainingDayID.Hex())
			}
			return err
		}
		affected[pe.TrainingDayID] = true
		affected[a.TrainingDayID] = true
	}

	// 2. Apply and verify inside one transaction
	dayIDs := make([]primitive.ObjectID, 0, len(affected))
	for id := range affected {
		dayIDs = append(dayIDs, id)
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, a := range assignments {
			if err := s.plannedRepo.SetPosition(ctx, a.PlannedExerciseID, a.TrainingDayID, a.OrderIndex); err != nil {
				return err
			}
		}

		planned, err := s.plannedRepo.ListByDays(ctx, dayIDs)
		if err != nil {
			return err
		}
		byDay := make(map[primitive.ObjectID][]int, len(dayIDs))
		for _, id := range dayIDs {
			byDay[id] = nil
		}
		for _, pe := range planned {
			byDay[pe.TrainingDayID] = append(byDay[pe.TrainingDayID], pe.OrderIndex)
		}
		for id, indexes := range byDay {
			if !domain.IsContiguous(indexes) {
				return invalid("exercises", "order indexes of training day %s must be 0..%d without gaps or duplicates", id.Hex(), len(indexes)-1)
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("reorder planned exercises", err)
	}
	return nil
}

// CreateSuperset links planned exercises of one day under a fresh group id.
func (s *plannerService) CreateSuperset(ctx context.Context, userID, mesocycleID primitive.ObjectID, plannedIDs []primitive.ObjectID) (string, error) {
	if len(plannedIDs) < 2 {
		return "", invalid("planned_exercise_ids", "a superset needs at least two exercises")
	}
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return "", err
	}

	members := make([]*domain.PlannedExercise, 0, len(plannedIDs))
	seen := make(map[primitive.ObjectID]bool, len(plannedIDs))
	for _, id := range plannedIDs {
		if seen[id] {
			return "", invalid("planned_exercise_ids", "planned exercise %s listed twice", id.Hex())
		}
		seen[id] = true
		pe, err := s.plannedIn(ctx, mesocycleID, id)
		if err != nil {
			return "", err
		}
		if len(members) > 0 && pe.TrainingDayID != members[0].TrainingDayID {
			return "", invalid("planned_exercise_ids", "superset exercises must belong to the same training day")
		}
		members = append(members, pe)
	}

	groupID := uuid.NewString()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, pe := range members {
			pe.SupersetGroupID = groupID
			if err := s.plannedRepo.Update(ctx, pe); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", storageErr("create superset", err)
	}
	return groupID, nil
}

// ClearSuperset takes one planned exercise out of its superset.
func (s *plannerService) ClearSuperset(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) error {
	pe, err := s.ownedPlanned(ctx, userID, mesocycleID, plannedID)
	if err != nil {
		return err
	}
	if pe.SupersetGroupID == "" {
		return nil
	}
	pe.SupersetGroupID = ""
	if err := s.plannedRepo.Update(ctx, pe); err != nil {
		return storageErr("clear superset", err)
	}
	return nil
}

// sortByOrderDesc orders planned exercises by day, highest order index first.
func sortByOrderDesc(planned []domain.PlannedExercise) {
	sort.Slice(planned, func(i, j int) bool {
		if planned[i].TrainingDayID != planned[j].TrainingDayID {
			return planned[i].TrainingDayID.Hex() < planned[j].TrainingDayID.Hex()
		}
		return planned[i].OrderIndex > planned[j].OrderIndex
	})
}
