package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	"alcyxob/strength-planner/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMesocycleSkeleton(t *testing.T) {
	tests := []struct {
		weeks, days int
	}{
		{1, 1},
		{4, 3},
		{6, 7},
		{52, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.weeks, tt.days), func(t *testing.T) {
			env := newTestEnv(t)
			m := env.newMesocycle(t, tt.weeks, tt.days)
			assert.Equal(t, domain.MesocycleDraft, m.Status)

			weeks := env.weeks(t, m.ID)
			require.Len(t, weeks, tt.weeks)
			for i, w := range weeks {
				assert.Equal(t, i+1, w.WeekNumber)
				assert.Equal(t, domain.WeekNormal, w.WeekType)
				assert.Equal(t, 1.0, w.IntensityModifier)
				assert.Equal(t, 1.0, w.VolumeModifier)

				days := env.days(t, w)
				require.Len(t, days, tt.days)
				for j, d := range days {
					assert.Equal(t, j+1, d.DayNumber)
					assert.Equal(t, fmt.Sprintf("Day %d", j+1), d.Name)
					assert.Equal(t, float64(j), d.OrderIndex)
					assert.False(t, d.IsSecondSession)
				}
			}
		})
	}
}

func TestCreateMesocycleValidation(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    CreateMesocycleInput
		field string
	}{
		{"missing name", CreateMesocycleInput{StartDate: start, DurationWeeks: 4, TrainingDaysPerWeek: 3}, "name"},
		{"missing start", CreateMesocycleInput{Name: "x", DurationWeeks: 4, TrainingDaysPerWeek: 3}, "start_date"},
		{"zero weeks", CreateMesocycleInput{Name: "x", StartDate: start, DurationWeeks: 0, TrainingDaysPerWeek: 3}, "duration_weeks"},
		{"53 weeks", CreateMesocycleInput{Name: "x", StartDate: start, DurationWeeks: 53, TrainingDaysPerWeek: 3}, "duration_weeks"},
		{"zero days", CreateMesocycleInput{Name: "x", StartDate: start, DurationWeeks: 4, TrainingDaysPerWeek: 0}, "training_days_per_week"},
		{"eight days", CreateMesocycleInput{Name: "x", StartDate: start, DurationWeeks: 4, TrainingDaysPerWeek: 8}, "training_days_per_week"},
		{"completed status", CreateMesocycleInput{Name: "x", StartDate: start, DurationWeeks: 4, TrainingDaysPerWeek: 3, Status: domain.MesocycleCompleted}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.planner.CreateMesocycle(context.Background(), env.userID, tt.in)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	list, err := env.planner.ListMesocycles(context.Background(), env.userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// failingDayRepo fails CreateMany so skeleton creation aborts halfway.
type failingDayRepo struct {
	repository.TrainingDayRepository
}

func (failingDayRepo) CreateMany(context.Context, []*domain.TrainingDay) error {
	return errors.New("disk full")
}

func TestCreateMesocycleIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	st := env.st
	planner := NewPlannerService(st.Mesocycles, st.Weeks, failingDayRepo{st.TrainingDays}, st.PlannedExercises,
		st.Exercises, st.Tx, env.catalog, logger.NewNop())

	_, err := planner.CreateMesocycle(context.Background(), env.userID, CreateMesocycleInput{
		Name: "Doomed", StartDate: fixedNow, DurationWeeks: 4, TrainingDaysPerWeek: 3,
	})
	require.ErrorIs(t, err, ErrStorage)

	list, err := st.Mesocycles.ListByUser(context.Background(), env.userID)
	require.NoError(t, err)
	assert.Empty(t, list, "no mesocycle row may survive a failed skeleton")
}

func TestSecondSessionScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 4, 3)

	weeks := env.weeks(t, m.ID)
	require.Len(t, env.days(t, weeks...), 12)

	week1 := env.days(t, weeks[0])
	day2 := week1[1]
	assert.Equal(t, "Day 2", day2.Name)

	session, err := env.planner.AddSecondSession(ctx, env.userID, m.ID, day2.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day 2 - PM", session.Name)
	assert.Equal(t, 1.5, session.OrderIndex)
	assert.True(t, session.IsSecondSession)
	require.NotNil(t, session.ParentTrainingDayID)
	assert.Equal(t, day2.ID, *session.ParentTrainingDayID)
	assert.Equal(t, day2.DayNumber, session.DayNumber)

	assert.Len(t, env.days(t, weeks...), 13)
	assert.Equal(t, "Day 2 - AM", env.day(t, day2.ID).Name)

	// The session sorts right after its parent.
	names := []string{}
	for _, d := range env.days(t, weeks[0]) {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Day 1", "Day 2 - AM", "Day 2 - PM", "Day 3"}, names)

	_, err = env.planner.AddSecondSession(ctx, env.userID, m.ID, day2.ID)
	assert.ErrorIs(t, err, ErrConflict)

	err = env.planner.RemoveSecondSession(ctx, env.userID, m.ID, day2.ID)
	assert.ErrorIs(t, err, ErrValidation, "the parent is not a second session")

	require.NoError(t, env.planner.RemoveSecondSession(ctx, env.userID, m.ID, session.ID))
	assert.Len(t, env.days(t, weeks...), 12)
	assert.Equal(t, "Day 2", env.day(t, day2.ID).Name)
}

// retryingTx runs every unit of work twice: the first attempt is rolled back with a
// transient error, the way a Mongo session retries WithTransaction callbacks.
type retryingTx struct {
	repository.TxManager
	attempts int
}

func (r *retryingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	_ = r.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		r.attempts++
		if err := fn(ctx); err != nil {
			return err
		}
		return errors.New("TransientTransactionError")
	})
	r.attempts++
	return r.TxManager.WithinTransaction(ctx, fn)
}

func TestSecondSessionSurvivesTransactionRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	st := env.st
	tx := &retryingTx{TxManager: st.Tx}
	planner := NewPlannerService(st.Mesocycles, st.Weeks, st.TrainingDays, st.PlannedExercises,
		st.Exercises, tx, env.catalog, logger.NewNop())

	m := env.newMesocycle(t, 1, 2)
	day2 := env.days(t, env.weeks(t, m.ID)...)[1]

	session, err := planner.AddSecondSession(ctx, env.userID, m.ID, day2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tx.attempts)
	assert.Equal(t, "Day 2 - PM", session.Name)
	assert.Equal(t, "Day 2 - AM", env.day(t, day2.ID).Name)
	require.Len(t, env.days(t, env.weeks(t, m.ID)...), 3)
}

func TestSecondSessionKeepsSuffixedName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 2)
	day := env.days(t, env.weeks(t, m.ID)...)[0]

	name := "Push - Heavy"
	_, err := env.planner.UpdateTrainingDay(ctx, env.userID, m.ID, day.ID, UpdateTrainingDayInput{Name: &name})
	require.NoError(t, err)

	session, err := env.planner.AddSecondSession(ctx, env.userID, m.ID, day.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push - Heavy - PM", session.Name)
	assert.Equal(t, "Push - Heavy", env.day(t, day.ID).Name)

	_, err = env.planner.AddSecondSession(ctx, env.userID, m.ID, session.ID)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.planner.RemoveSecondSession(ctx, env.userID, m.ID, session.ID))
	assert.Equal(t, "Push - Heavy", env.day(t, day.ID).Name)
}

func TestRemoveSecondSessionDeletesItsExercises(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	ex := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))

	session, err := env.planner.AddSecondSession(ctx, env.userID, m.ID, day.ID)
	require.NoError(t, err)
	pe := env.addExercise(t, m.ID, session.ID, ex.ID, 3)

	require.NoError(t, env.planner.RemoveSecondSession(ctx, env.userID, m.ID, session.ID))
	_, err = env.st.PlannedExercises.GetByID(ctx, pe.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlannedExerciseOrderStaysContiguous(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	chest := env.muscle(t, "chest")

	var added []*domain.PlannedExercise
	for i := 0; i < 5; i++ {
		ex := testutil.SeedExercise(t, env.st, env.userID, fmt.Sprintf("Exercise %d", i), chest)
		pe := env.addExercise(t, m.ID, day.ID, ex.ID, 3)
		assert.Equal(t, i, pe.OrderIndex)
		added = append(added, pe)
		assert.Equal(t, seq(i+1), orderIndexes(env.planned(t, day.ID)))
	}

	// Middle, first, then last.
	for n, pe := range []*domain.PlannedExercise{added[2], added[0], added[4]} {
		require.NoError(t, env.planner.RemovePlannedExercise(ctx, env.userID, m.ID, pe.ID))
		remaining := env.planned(t, day.ID)
		assert.Equal(t, seq(4-n), orderIndexes(remaining))
	}

	remaining := env.planned(t, day.ID)
	assert.Equal(t, added[1].ID, remaining[0].ID)
	assert.Equal(t, added[3].ID, remaining[1].ID)

	ex := testutil.SeedExercise(t, env.st, env.userID, "Late addition", chest)
	pe := env.addExercise(t, m.ID, day.ID, ex.ID, 2)
	assert.Equal(t, 2, pe.OrderIndex)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestAddExerciseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	ex := testutil.SeedExercise(t, env.st, env.userID, "Bench Press", env.muscle(t, "chest"))
	strangerID := testutil.SeedUser(t, env.st, "stranger@example.com")
	foreign := testutil.SeedExercise(t, env.st, strangerID, "Foreign", env.muscle(t, "chest"))
	unknown := primitive.NewObjectID()

	tests := []struct {
		name  string
		in    PlannedExerciseInput
		field string
	}{
		{"zero sets", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 0, RepRange: "5"}, "sets"},
		{"21 sets", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 21, RepRange: "5"}, "sets"},
		{"no rep range", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 3}, "rep_range"},
		{"51 char rep range", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 3, RepRange: strings.Repeat("x", 51)}, "rep_range"},
		{"unknown exercise", PlannedExerciseInput{ExerciseID: unknown, Sets: 3, RepRange: "5"}, "exercise_id"},
		{"foreign exercise", PlannedExerciseInput{ExerciseID: foreign.ID, Sets: 3, RepRange: "5"}, "exercise_id"},
		{"unknown intensity", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 3, RepRange: "5", IntensityTypeID: &unknown}, "intensity_type_id"},
		{"unknown technique", PlannedExerciseInput{ExerciseID: ex.ID, Sets: 3, RepRange: "5", TechniqueTypeID: &unknown}, "technique_type_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.planner.AddExercise(ctx, env.userID, m.ID, day.ID, tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, env.planned(t, day.ID))

	// Free-text prescriptions up to 50 characters are kept as written.
	pe, err := env.planner.AddExercise(ctx, env.userID, m.ID, day.ID, PlannedExerciseInput{
		ExerciseID: ex.ID, Sets: 3, RepRange: "8-12 then 2x AMRAP drop",
	})
	require.NoError(t, err)
	assert.Equal(t, "8-12 then 2x AMRAP drop", pe.RepRange)
}

func TestUpdatePlannedExerciseKeepsPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	chest := env.muscle(t, "chest")
	first := env.addExercise(t, m.ID, day.ID, testutil.SeedExercise(t, env.st, env.userID, "A", chest).ID, 3)
	second := env.addExercise(t, m.ID, day.ID, testutil.SeedExercise(t, env.st, env.userID, "B", chest).ID, 3)

	sets, reps, rpe := 5, "3-5", 8.5
	rpeID := env.intensity(t, domain.IntensityRPE)
	updated, err := env.planner.UpdatePlannedExercise(ctx, env.userID, m.ID, second.ID, UpdatePlannedExerciseInput{
		Sets: &sets, RepRange: &reps, IntensityTypeID: &rpeID, IntensityValue: &rpe,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.OrderIndex)

	stored := env.planned(t, day.ID)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Equal(t, 5, stored[1].Sets)
	assert.Equal(t, "3-5", stored[1].RepRange)
	require.NotNil(t, stored[1].IntensityValue)
	assert.Equal(t, 8.5, *stored[1].IntensityValue)

	updated, err = env.planner.UpdatePlannedExercise(ctx, env.userID, m.ID, second.ID, UpdatePlannedExerciseInput{ClearIntensity: true})
	require.NoError(t, err)
	assert.Nil(t, updated.IntensityTypeID)
	assert.Nil(t, updated.IntensityValue)
}

func TestReorderExercises(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 2)
	days := env.days(t, env.weeks(t, m.ID)...)
	chest := env.muscle(t, "chest")

	a := env.addExercise(t, m.ID, days[0].ID, testutil.SeedExercise(t, env.st, env.userID, "A", chest).ID, 3)
	b := env.addExercise(t, m.ID, days[0].ID, testutil.SeedExercise(t, env.st, env.userID, "B", chest).ID, 3)
	c := env.addExercise(t, m.ID, days[0].ID, testutil.SeedExercise(t, env.st, env.userID, "C", chest).ID, 3)

	t.Run("swap within a day", func(t *testing.T) {
		err := env.planner.ReorderExercises(ctx, env.userID, m.ID, []ReorderAssignment{
			{PlannedExerciseID: a.ID, TrainingDayID: days[0].ID, OrderIndex: 2},
			{PlannedExerciseID: c.ID, TrainingDayID: days[0].ID, OrderIndex: 0},
		})
		require.NoError(t, err)
		got := env.planned(t, days[0].ID)
		assert.Equal(t, []primitive.ObjectID{c.ID, b.ID, a.ID}, []primitive.ObjectID{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("inconsistent renumbering rolls back", func(t *testing.T) {
		err := env.planner.ReorderExercises(ctx, env.userID, m.ID, []ReorderAssignment{
			{PlannedExerciseID: b.ID, TrainingDayID: days[0].ID, OrderIndex: 5},
		})
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, []int{0, 1, 2}, orderIndexes(env.planned(t, days[0].ID)))
		stored, err := env.st.PlannedExercises.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.OrderIndex)
	})

	t.Run("move to another day", func(t *testing.T) {
		err := env.planner.ReorderExercises(ctx, env.userID, m.ID, []ReorderAssignment{
			{PlannedExerciseID: b.ID, TrainingDayID: days[1].ID, OrderIndex: 0},
			{PlannedExerciseID: a.ID, TrainingDayID: days[0].ID, OrderIndex: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, orderIndexes(env.planned(t, days[0].ID)))
		moved := env.planned(t, days[1].ID)
		require.Len(t, moved, 1)
		assert.Equal(t, b.ID, moved[0].ID)
	})

	t.Run("foreign ids are rejected", func(t *testing.T) {
		other := env.newMesocycle(t, 1, 1)
		otherDay := env.days(t, env.weeks(t, other.ID)...)[0]
		err := env.planner.ReorderExercises(ctx, env.userID, m.ID, []ReorderAssignment{
			{PlannedExerciseID: a.ID, TrainingDayID: otherDay.ID, OrderIndex: 0},
		})
		assert.ErrorIs(t, err, ErrValidation)

		err = env.planner.ReorderExercises(ctx, env.userID, m.ID, []ReorderAssignment{
			{PlannedExerciseID: a.ID, TrainingDayID: days[0].ID, OrderIndex: -1},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDuplicateWeek(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 3, 2)
	weeks := env.weeks(t, m.ID)
	src := env.days(t, weeks[0])
	dst := env.days(t, weeks[1])
	chest, back := env.muscle(t, "chest"), env.muscle(t, "back")
	bench := testutil.SeedExercise(t, env.st, env.userID, "Bench", chest)
	row := testutil.SeedExercise(t, env.st, env.userID, "Row", back)

	// Source programming, including a superset and an intensity prescription.
	rpeID := env.intensity(t, domain.IntensityRPE)
	rpe, rest := 8.0, 120
	_, err := env.planner.AddExercise(ctx, env.userID, m.ID, src[0].ID, PlannedExerciseInput{
		ExerciseID: bench.ID, Sets: 4, RepRange: "6-8", IntensityTypeID: &rpeID, IntensityValue: &rpe,
		RestSeconds: &rest, Notes: "pause reps",
	})
	require.NoError(t, err)
	rowPE := env.addExercise(t, m.ID, src[0].ID, row.ID, 3)
	benchPE := env.planned(t, src[0].ID)[0]
	_, err = env.planner.CreateSuperset(ctx, env.userID, m.ID, []primitive.ObjectID{benchPE.ID, rowPE.ID})
	require.NoError(t, err)
	env.addExercise(t, m.ID, src[1].ID, row.ID, 5)

	upper, notes := "Upper", "heavy day"
	_, err = env.planner.UpdateTrainingDay(ctx, env.userID, m.ID, src[0].ID, UpdateTrainingDayInput{Name: &upper, Notes: &notes})
	require.NoError(t, err)

	// A second session in the source has no counterpart in the target and is skipped.
	session, err := env.planner.AddSecondSession(ctx, env.userID, m.ID, src[1].ID)
	require.NoError(t, err)
	env.addExercise(t, m.ID, session.ID, bench.ID, 2)

	// Stale target programming that must disappear.
	stale := env.addExercise(t, m.ID, dst[0].ID, row.ID, 10)

	require.NoError(t, env.planner.DuplicateWeek(ctx, env.userID, m.ID, weeks[0].ID, 2))

	_, err = env.st.PlannedExercises.GetByID(ctx, stale.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	for i := range src {
		want := env.planned(t, src[i].ID)
		got := env.planned(t, dst[i].ID)
		require.Len(t, got, len(want))
		for j := range want {
			w, g := want[j], got[j]
			assert.NotEqual(t, w.ID, g.ID)
			assert.Equal(t, dst[i].ID, g.TrainingDayID)
			w.ID, w.TrainingDayID, w.CreatedAt, w.UpdatedAt = g.ID, g.TrainingDayID, g.CreatedAt, g.UpdatedAt
			assert.Equal(t, w, g)
		}
	}
	assert.Equal(t, "Upper", env.day(t, dst[0].ID).Name)
	assert.Equal(t, "heavy day", env.day(t, dst[0].ID).Notes)
	assert.Len(t, env.days(t, weeks[1]), 2, "no second session is created in the target")

	t.Run("missing target week", func(t *testing.T) {
		err := env.planner.DuplicateWeek(ctx, env.userID, m.ID, weeks[0].ID, 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("onto itself", func(t *testing.T) {
		before := env.planned(t, src[0].ID)
		require.NoError(t, env.planner.DuplicateWeek(ctx, env.userID, m.ID, weeks[0].ID, 1))
		after := env.planned(t, src[0].ID)
		require.Len(t, after, len(before))
		for j := range before {
			assert.Equal(t, before[j].ExerciseID, after[j].ExerciseID)
			assert.Equal(t, before[j].Sets, after[j].Sets)
			assert.Equal(t, before[j].OrderIndex, after[j].OrderIndex)
			assert.Equal(t, before[j].SupersetGroupID, after[j].SupersetGroupID)
		}
		assert.Equal(t, "Upper", env.day(t, src[0].ID).Name)
	})
}

// failingPlannedRepo lets the first n creates through, then fails.
type failingPlannedRepo struct {
	repository.PlannedExerciseRepository
	remaining int
}

func (r *failingPlannedRepo) Create(ctx context.Context, pe *domain.PlannedExercise) (primitive.ObjectID, error) {
	if r.remaining == 0 {
		return primitive.NilObjectID, errors.New("connection reset")
	}
	r.remaining--
	return r.PlannedExerciseRepository.Create(ctx, pe)
}

func TestDuplicateWeekIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 2, 2)
	weeks := env.weeks(t, m.ID)
	src, dst := env.days(t, weeks[0]), env.days(t, weeks[1])
	ex := testutil.SeedExercise(t, env.st, env.userID, "Deadlift", env.muscle(t, "hamstrings"))

	env.addExercise(t, m.ID, src[0].ID, ex.ID, 3)
	env.addExercise(t, m.ID, src[1].ID, ex.ID, 3)
	original := env.addExercise(t, m.ID, dst[1].ID, ex.ID, 7)

	st := env.st
	planner := NewPlannerService(st.Mesocycles, st.Weeks, st.TrainingDays,
		&failingPlannedRepo{PlannedExerciseRepository: st.PlannedExercises, remaining: 1},
		st.Exercises, st.Tx, env.catalog, logger.NewNop())

	err := planner.DuplicateWeek(ctx, env.userID, m.ID, weeks[0].ID, 2)
	require.ErrorIs(t, err, ErrStorage)

	assert.Empty(t, env.planned(t, dst[0].ID), "first day copy must be rolled back")
	remaining := env.planned(t, dst[1].ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, original.ID, remaining[0].ID)
}

func TestSupersets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 2)
	days := env.days(t, env.weeks(t, m.ID)...)
	chest := env.muscle(t, "chest")
	a := env.addExercise(t, m.ID, days[0].ID, testutil.SeedExercise(t, env.st, env.userID, "A", chest).ID, 3)
	b := env.addExercise(t, m.ID, days[0].ID, testutil.SeedExercise(t, env.st, env.userID, "B", chest).ID, 3)
	other := env.addExercise(t, m.ID, days[1].ID, testutil.SeedExercise(t, env.st, env.userID, "C", chest).ID, 3)

	_, err := env.planner.CreateSuperset(ctx, env.userID, m.ID, []primitive.ObjectID{a.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.planner.CreateSuperset(ctx, env.userID, m.ID, []primitive.ObjectID{a.ID, other.ID})
	assert.ErrorIs(t, err, ErrValidation)

	groupID, err := env.planner.CreateSuperset(ctx, env.userID, m.ID, []primitive.ObjectID{a.ID, b.ID})
	require.NoError(t, err)
	_, err = primitive.ObjectIDFromHex(groupID)
	assert.Error(t, err, "group ids are uuids")

	stored := env.planned(t, days[0].ID)
	assert.Equal(t, groupID, stored[0].SupersetGroupID)
	assert.Equal(t, groupID, stored[1].SupersetGroupID)

	require.NoError(t, env.planner.ClearSuperset(ctx, env.userID, m.ID, a.ID))
	stored = env.planned(t, days[0].ID)
	assert.Empty(t, stored[0].SupersetGroupID)
	assert.Equal(t, groupID, stored[1].SupersetGroupID)
}

func TestGetMesocycleView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	active := domain.MesocycleActive
	m := env.newMesocycle(t, 4, 2)
	_, err := env.planner.UpdateMesocycle(ctx, env.userID, m.ID, UpdateMesocycleInput{Status: &active})
	require.NoError(t, err)

	chest, shoulders, triceps := env.muscle(t, "chest"), env.muscle(t, "shoulders"), env.muscle(t, "triceps")
	bench := testutil.SeedExercise(t, env.st, env.userID, "Bench Press", chest, triceps, shoulders)
	dips := testutil.SeedExercise(t, env.st, env.userID, "Dips", triceps, chest)
	inactive := false
	_, err = env.exercise.UpdateExercise(ctx, env.userID, dips.ID, ExerciseInput{
		Name: "Dips", PrimaryMuscleGroupID: triceps, SecondaryMuscleGroupIDs: []primitive.ObjectID{chest}, IsActive: &inactive,
	})
	require.NoError(t, err)

	day := env.days(t, env.weeks(t, m.ID)[0])[0]
	env.addExercise(t, m.ID, day.ID, bench.ID, 3)
	env.addExercise(t, m.ID, day.ID, dips.ID, 2)

	view, err := env.planner.GetMesocycle(ctx, env.userID, m.ID)
	require.NoError(t, err)

	assert.Equal(t, "2025-02-03", view.EndDate)
	require.NotNil(t, view.CurrentWeek)
	assert.Equal(t, 2, *view.CurrentWeek) // fixedNow is 2025-01-15
	require.Len(t, view.Weeks, 4)
	assert.Len(t, view.Weeks[0].Days, 2)
	assert.Len(t, view.Exercises, 1, "only active exercises are offered")
	assert.NotEmpty(t, view.Catalog.MuscleGroups)

	dv := view.Weeks[0].Days[0]
	require.Len(t, dv.Exercises, 2)
	assert.Equal(t, "Bench Press", dv.Exercises[0].Exercise.Name)
	assert.Equal(t, "Dips", dv.Exercises[1].Exercise.Name, "inactive exercises still resolve")
	assert.Equal(t, 5, dv.TotalSets)

	// Chest: 3 (bench) + 1 (dips secondary); shoulders 1.5; triceps 1.5 + 2.
	assert.Equal(t, []MuscleGroupVolume{
		{MuscleGroupID: chest, Name: "Chest", Sets: 4},
		{MuscleGroupID: shoulders, Name: "Shoulders", Sets: 1.5},
		{MuscleGroupID: triceps, Name: "Triceps", Sets: 3.5},
	}, dv.VolumeByMuscleGroup)
}

func TestPlannerAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 1, 1)
	day := env.days(t, env.weeks(t, m.ID)...)[0]
	intruder := testutil.SeedUser(t, env.st, "intruder@example.com")

	_, err := env.planner.GetMesocycle(ctx, intruder, m.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = env.planner.AddSecondSession(ctx, intruder, m.ID, day.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, env.planner.DeleteMesocycle(ctx, intruder, m.ID), ErrAccessDenied)

	_, err = env.planner.GetMesocycle(ctx, env.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	// A day of another mesocycle is not found through this one.
	other := env.newMesocycle(t, 1, 1)
	_, err = env.planner.AddSecondSession(ctx, env.userID, other.ID, day.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateWeekAndDeleteMesocycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 2, 2)
	weeks := env.weeks(t, m.ID)

	deload, vol := domain.WeekDeload, 0.5
	week, err := env.planner.UpdateWeek(ctx, env.userID, m.ID, weeks[1].ID, UpdateWeekInput{WeekType: &deload, VolumeModifier: &vol})
	require.NoError(t, err)
	assert.Equal(t, domain.WeekDeload, week.WeekType)
	assert.Equal(t, 0.5, week.VolumeModifier)

	bad := 0.0
	_, err = env.planner.UpdateWeek(ctx, env.userID, m.ID, weeks[1].ID, UpdateWeekInput{IntensityModifier: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	ex := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))
	day := env.days(t, weeks[0])[0]
	pe := env.addExercise(t, m.ID, day.ID, ex.ID, 3)
	_, err = env.planner.SetDayMuscleGroups(ctx, env.userID, m.ID, day.ID, []primitive.ObjectID{env.muscle(t, "quads"), env.muscle(t, "glutes")})
	require.NoError(t, err)

	require.NoError(t, env.planner.DeleteMesocycle(ctx, env.userID, m.ID))
	_, err = env.st.Mesocycles.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.TrainingDays.GetByID(ctx, day.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.st.PlannedExercises.GetByID(ctx, pe.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
