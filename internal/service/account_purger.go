package service

import (
	"context"

	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	"alcyxob/strength-planner/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// storePurger deletes a user's data child-first in one transaction, so it also works on
// backends without cascading foreign keys.
type storePurger struct {
	st  *store.Store
	log *logger.Logger
}

// NewUserDataPurger returns a UserDataPurger backed by the given store.
func NewUserDataPurger(st *store.Store, log *logger.Logger) UserDataPurger {
	return &storePurger{st: st, log: log.With("component", "UserDataPurger")}
}

func (p *storePurger) PurgeUser(ctx context.Context, userID primitive.ObjectID) error {
	return p.st.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := p.st.DailyMetrics.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := p.st.PerformedSets.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := p.st.Workouts.DeleteByUser(ctx, userID); err != nil {
			return err
		}

		mesocycles, err := p.st.Mesocycles.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, m := range mesocycles {
			if err := deleteMesocycleTree(ctx, p.st.Mesocycles, p.st.Weeks, p.st.TrainingDays, p.st.PlannedExercises, m.ID); err != nil {
				return err
			}
		}

		if err := p.st.Exercises.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		p.log.Debug("User data purged", "user_id", userID.Hex(), "mesocycles", len(mesocycles))
		return p.st.Users.Delete(ctx, userID)
	})
}

// deleteMesocycleTree removes planned exercises, days, weeks and finally the mesocycle.
func deleteMesocycleTree(
	ctx context.Context,
	mesocycleRepo repository.MesocycleRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.TrainingDayRepository,
	plannedRepo repository.PlannedExerciseRepository,
	mesocycleID primitive.ObjectID,
) error {
	weeks, err := weekRepo.ListByMesocycle(ctx, mesocycleID)
	if err != nil {
		return err
	}
	weekIDs := make([]primitive.ObjectID, len(weeks))
	for i := range weeks {
		weekIDs[i] = weeks[i].ID
	}

	days, err := dayRepo.ListByWeeks(ctx, weekIDs)
	if err != nil {
		return err
	}
	dayIDs := make([]primitive.ObjectID, len(days))
	for i := range days {
		dayIDs[i] = days[i].ID
	}

	if err := plannedRepo.DeleteByDays(ctx, dayIDs); err != nil {
		return err
	}
	if err := dayRepo.DeleteByWeeks(ctx, weekIDs); err != nil {
		return err
	}
	if err := weekRepo.DeleteByMesocycle(ctx, mesocycleID); err != nil {
		return err
	}
	return mesocycleRepo.Delete(ctx, mesocycleID)
}
