package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/store"
	"alcyxob/strength-planner/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

// testEnv wires every service to a fresh SQLite store.
type testEnv struct {
	st       *store.Store
	cat      *domain.Catalog
	userID   primitive.ObjectID
	catalog  CatalogService
	planner  *plannerService
	exercise *exerciseService
	metrics  *metricService
	workouts *workoutService
	perf     PerformanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := testutil.NewStore(t)
	log := logger.NewNop()

	env := &testEnv{
		st:     st,
		cat:    testutil.SeedCatalog(t, st),
		userID: testutil.SeedUser(t, st, "lifter@example.com"),
	}
	env.catalog = NewCatalogService(st.Catalog, log)
	env.planner = NewPlannerService(st.Mesocycles, st.Weeks, st.TrainingDays, st.PlannedExercises,
		st.Exercises, st.Tx, env.catalog, log).(*plannerService)
	env.planner.now = func() time.Time { return fixedNow }
	env.exercise = NewExerciseService(st.Exercises, st.PlannedExercises, st.PerformedSets, st.Tx,
		env.catalog, nil, log).(*exerciseService)
	env.metrics = NewMetricService(st.DailyMetrics, log).(*metricService)
	env.metrics.now = func() time.Time { return fixedNow }
	env.workouts = NewWorkoutService(st.Workouts, st.PerformedSets, st.Exercises, st.PlannedExercises,
		st.TrainingDays, st.Weeks, st.Mesocycles, env.catalog, log).(*workoutService)
	env.perf = NewPerformanceService(st.PerformedSets, st.Exercises, env.planner, log)
	return env
}

func (e *testEnv) muscle(t *testing.T, slug string) primitive.ObjectID {
	return testutil.MuscleGroup(t, e.cat, slug).ID
}

func (e *testEnv) intensity(t *testing.T, slug string) primitive.ObjectID {
	t.Helper()
	for _, it := range e.cat.IntensityTypes {
		if it.Slug == slug {
			return it.ID
		}
	}
	t.Fatalf("intensity type %q not seeded", slug)
	return primitive.NilObjectID
}

// newMesocycle creates a draft mesocycle starting 2025-01-06.
func (e *testEnv) newMesocycle(t *testing.T, weeks, daysPerWeek int) *domain.Mesocycle {
	t.Helper()
	m, err := e.planner.CreateMesocycle(context.Background(), e.userID, CreateMesocycleInput{
		Name:                "Hypertrophy Block",
		StartDate:           time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		DurationWeeks:       weeks,
		TrainingDaysPerWeek: daysPerWeek,
	})
	require.NoError(t, err)
	return m
}

// weeks returns the mesocycle's weeks by number.
func (e *testEnv) weeks(t *testing.T, mesocycleID primitive.ObjectID) []domain.MesocycleWeek {
	t.Helper()
	weeks, err := e.st.Weeks.ListByMesocycle(context.Background(), mesocycleID)
	require.NoError(t, err)
	return weeks
}

// days returns the days of the given weeks, by order index.
func (e *testEnv) days(t *testing.T, weeks ...domain.MesocycleWeek) []domain.TrainingDay {
	t.Helper()
	ids := make([]primitive.ObjectID, len(weeks))
	for i := range weeks {
		ids[i] = weeks[i].ID
	}
	days, err := e.st.TrainingDays.ListByWeeks(context.Background(), ids)
	require.NoError(t, err)
	return days
}

func (e *testEnv) day(t *testing.T, id primitive.ObjectID) *domain.TrainingDay {
	t.Helper()
	d, err := e.st.TrainingDays.GetByID(context.Background(), id)
	require.NoError(t, err)
	return d
}

// planned returns the planned exercises of one day by order index.
func (e *testEnv) planned(t *testing.T, dayID primitive.ObjectID) []domain.PlannedExercise {
	t.Helper()
	pes, err := e.st.PlannedExercises.ListByDays(context.Background(), []primitive.ObjectID{dayID})
	require.NoError(t, err)
	return pes
}

func orderIndexes(pes []domain.PlannedExercise) []int {
	out := make([]int, len(pes))
	for i := range pes {
		out[i] = pes[i].OrderIndex
	}
	return out
}

func (e *testEnv) addExercise(t *testing.T, mesocycleID, dayID, exerciseID primitive.ObjectID, sets int) *domain.PlannedExercise {
	t.Helper()
	pe, err := e.planner.AddExercise(context.Background(), e.userID, mesocycleID, dayID, PlannedExerciseInput{
		ExerciseID: exerciseID,
		Sets:       sets,
		RepRange:   "8-12",
	})
	require.NoError(t, err)
	return pe
}
