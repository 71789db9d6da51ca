package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// at moves the workout clock.
func (e *testEnv) at(ts time.Time) {
	e.workouts.now = func() time.Time { return ts }
}

func (e *testEnv) logSet(t *testing.T, workoutID primitive.ObjectID, in LogSetInput) *domain.PerformedSet {
	t.Helper()
	set, err := e.workouts.LogSet(context.Background(), e.userID, workoutID, in)
	require.NoError(t, err)
	return set
}

func TestWorkoutLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ex := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))

	env.at(fixedNow)
	w, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{Notes: "gym"})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutFreestyle, w.Type)

	first := env.logSet(t, w.ID, LogSetInput{ExerciseID: ex.ID, Reps: 5, Weight: 100})
	second := env.logSet(t, w.ID, LogSetInput{ExerciseID: ex.ID, Reps: 5, Weight: 100, WeightUnit: "LB"})
	assert.Equal(t, 1, first.SetNumber)
	assert.Equal(t, "kg", first.WeightUnit)
	assert.Equal(t, 2, second.SetNumber)
	assert.Equal(t, "lb", second.WeightUnit)

	env.at(fixedNow.Add(45 * time.Minute))
	rpe := 8.0
	done, err := env.workouts.CompleteWorkout(ctx, env.userID, w.ID, CompleteWorkoutInput{SessionRPE: &rpe, Mood: "good"})
	require.NoError(t, err)
	require.NotNil(t, done.DurationSeconds)
	assert.Equal(t, 2700, *done.DurationSeconds)

	_, err = env.workouts.CompleteWorkout(ctx, env.userID, w.ID, CompleteWorkoutInput{})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.workouts.LogSet(ctx, env.userID, w.ID, LogSetInput{ExerciseID: ex.ID, Reps: 5})
	assert.ErrorIs(t, err, ErrConflict)

	details, err := env.workouts.GetWorkout(ctx, env.userID, w.ID)
	require.NoError(t, err)
	assert.Len(t, details.Sets, 2)
	assert.Equal(t, "good", details.Mood)

	list, err := env.workouts.ListWorkouts(ctx, env.userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLogSetValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ex := testutil.SeedExercise(t, env.st, env.userID, "Row", env.muscle(t, "back"))
	w, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{})
	require.NoError(t, err)

	badRPE, badRIR := 11.0, -1
	unknown := primitive.NewObjectID()
	tests := []struct {
		name  string
		in    LogSetInput
		field string
	}{
		{"negative reps", LogSetInput{ExerciseID: ex.ID, Reps: -1}, "reps"},
		{"negative weight", LogSetInput{ExerciseID: ex.ID, Weight: -5}, "weight"},
		{"stone", LogSetInput{ExerciseID: ex.ID, WeightUnit: "st"}, "weight_unit"},
		{"rpe above 10", LogSetInput{ExerciseID: ex.ID, RPE: &badRPE}, "rpe"},
		{"negative rir", LogSetInput{ExerciseID: ex.ID, RIR: &badRIR}, "rir"},
		{"unknown exercise", LogSetInput{ExerciseID: unknown}, "exercise_id"},
		{"unknown planned exercise", LogSetInput{ExerciseID: ex.ID, PlannedExerciseID: &unknown}, "planned_exercise_id"},
		{"unknown set type", LogSetInput{ExerciseID: ex.ID, SetTypeID: &unknown}, "set_type_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.workouts.LogSet(ctx, env.userID, w.ID, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err = env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{Type: domain.WorkoutPlanned})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.workouts.CompleteWorkout(ctx, env.userID, w.ID, CompleteWorkoutInput{Mood: "ecstatic"})
	assert.ErrorIs(t, err, ErrValidation)

	intruder := testutil.SeedUser(t, env.st, "intruder@example.com")
	_, err = env.workouts.GetWorkout(ctx, intruder, w.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExerciseStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bench := testutil.SeedExercise(t, env.st, env.userID, "Bench", env.muscle(t, "chest"))

	// Session one: a warm-up and two working sets.
	env.at(time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC))
	w1, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{})
	require.NoError(t, err)
	env.logSet(t, w1.ID, LogSetInput{ExerciseID: bench.ID, Reps: 10, Weight: 200, IsWarmup: true})
	env.logSet(t, w1.ID, LogSetInput{ExerciseID: bench.ID, Reps: 5, Weight: 100})
	env.logSet(t, w1.ID, LogSetInput{ExerciseID: bench.ID, Reps: 8, Weight: 90})

	// Session two ties the top weight with more reps.
	env.at(time.Date(2025, 1, 9, 18, 0, 0, 0, time.UTC))
	w2, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{})
	require.NoError(t, err)
	env.logSet(t, w2.ID, LogSetInput{ExerciseID: bench.ID, Reps: 6, Weight: 100})

	stats, err := env.perf.ExerciseStats(ctx, env.userID, bench.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TimesPerformed)
	assert.Equal(t, 3, stats.TotalSets)
	assert.Equal(t, 100.0, stats.MaxWeight)
	assert.Equal(t, 6, stats.MaxRepsAtMaxWeight)
	assert.Equal(t, "2025-01-09", stats.PRDate)
	assert.Equal(t, "2025-01-09", stats.LastPerformedDate)
	assert.Equal(t, 1820.0, stats.TotalVolume)      // 500 + 720 + 600
	assert.Equal(t, 1220.0, stats.MaxSessionVolume) // Session one
	require.NotNil(t, stats.Estimated1RM)
	assert.Equal(t, 116.14, *stats.Estimated1RM) // 100 / (1.0278 - 0.0278*6)

	empty := testutil.SeedExercise(t, env.st, env.userID, "Fly", env.muscle(t, "chest"))
	stats, err = env.perf.ExerciseStats(ctx, env.userID, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSets)
	assert.Nil(t, stats.Estimated1RM)

	intruder := testutil.SeedUser(t, env.st, "intruder@example.com")
	_, err = env.perf.ExerciseStats(ctx, intruder, bench.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestPlannedExerciseSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	squat := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))
	pe := env.addExercise(t, m.ID, day.ID, squat.ID, 4)

	w, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{TrainingDayID: &day.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutPlanned, w.Type)

	env.logSet(t, w.ID, LogSetInput{ExerciseID: squat.ID, PlannedExerciseID: &pe.ID, Reps: 5, Weight: 60, IsWarmup: true})
	env.logSet(t, w.ID, LogSetInput{ExerciseID: squat.ID, PlannedExerciseID: &pe.ID, Reps: 5, Weight: 140})
	env.logSet(t, w.ID, LogSetInput{ExerciseID: squat.ID, PlannedExerciseID: &pe.ID, Reps: 5, Weight: 140})
	env.logSet(t, w.ID, LogSetInput{ExerciseID: squat.ID, PlannedExerciseID: &pe.ID, Reps: 15, Weight: 100})

	summary, err := env.perf.PlannedExerciseSummary(ctx, env.userID, m.ID, pe.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.PlannedSets)
	assert.Equal(t, 3, summary.CompletedSets)
	assert.Equal(t, 2900.0, summary.TotalVolume)
	assert.Equal(t, 140.0, summary.TopSetWeight)
	require.NotNil(t, summary.Estimated1RM)
	assert.Equal(t, 157.52, *summary.Estimated1RM)

	other := env.newMesocycle(t, 1, 1)
	_, err = env.perf.PlannedExerciseSummary(ctx, env.userID, other.ID, pe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
