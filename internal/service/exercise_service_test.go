package service

import (
	"context"
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

// memoryFiles records presign and delete calls instead of talking to S3.
type memoryFiles struct {
	deleted []string
}

func (f *memoryFiles) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://bucket.local/%s?method=PUT&type=%s", key, contentType), nil
}

func (f *memoryFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.local/" + key, nil
}

func (f *memoryFiles) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestCreateExercise(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chest, triceps := env.muscle(t, "chest"), env.muscle(t, "triceps")
	barbell := env.cat.Equipment[0].ID

	ex, err := env.exercise.CreateExercise(ctx, env.userID, ExerciseInput{
		Name:                    "  Bench Press ",
		PrimaryMuscleGroupID:    chest,
		EquipmentID:             &barbell,
		SecondaryMuscleGroupIDs: []primitive.ObjectID{triceps, triceps},
		IsCompound:              true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", ex.Name)
	assert.True(t, ex.IsActive)
	assert.Equal(t, []domain.ExerciseMuscleGroup{
		{MuscleGroupID: chest, Involvement: domain.InvolvementPrimary},
		{MuscleGroupID: triceps, Involvement: domain.InvolvementSecondary},
	}, ex.MuscleGroups)

	unknown := primitive.NewObjectID()
	tests := []struct {
		name  string
		in    ExerciseInput
		field string
	}{
		{"blank name", ExerciseInput{Name: " ", PrimaryMuscleGroupID: chest}, "name"},
		{"long name", ExerciseInput{Name: strings.Repeat("x", 256), PrimaryMuscleGroupID: chest}, "name"},
		{"unknown primary", ExerciseInput{Name: "x", PrimaryMuscleGroupID: unknown}, "primary_muscle_group_id"},
		{"unknown equipment", ExerciseInput{Name: "x", PrimaryMuscleGroupID: chest, EquipmentID: &unknown}, "equipment_id"},
		{"unknown secondary", ExerciseInput{Name: "x", PrimaryMuscleGroupID: chest, SecondaryMuscleGroupIDs: []primitive.ObjectID{unknown}}, "secondary_muscle_group_ids"},
		{"primary listed as secondary", ExerciseInput{Name: "x", PrimaryMuscleGroupID: chest, SecondaryMuscleGroupIDs: []primitive.ObjectID{triceps, chest}}, "secondary_muscle_group_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.exercise.CreateExercise(ctx, env.userID, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestListExercisesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chest, back, triceps := env.muscle(t, "chest"), env.muscle(t, "back"), env.muscle(t, "triceps")
	testutil.SeedExercise(t, env.st, env.userID, "Bench Press", chest, triceps)
	testutil.SeedExercise(t, env.st, env.userID, "Barbell Row", back)
	dips := testutil.SeedExercise(t, env.st, env.userID, "Dips", triceps, chest)
	testutil.SeedExercise(t, env.st, testutil.SeedUser(t, env.st, "other@example.com"), "Other Bench", chest)

	inactive := false
	_, err := env.exercise.UpdateExercise(ctx, env.userID, dips.ID, ExerciseInput{
		Name: "Dips", PrimaryMuscleGroupID: triceps, SecondaryMuscleGroupIDs: []primitive.ObjectID{chest}, IsActive: &inactive,
	})
	require.NoError(t, err)

	names := func(filter repository.ExerciseFilter) []string {
		t.Helper()
		list, err := env.exercise.ListExercises(ctx, env.userID, filter)
		require.NoError(t, err)
		out := make([]string, len(list))
		for i := range list {
			out[i] = list[i].Name
		}
		return out
	}

	assert.Equal(t, []string{"Barbell Row", "Bench Press", "Dips"}, names(repository.ExerciseFilter{}))
	assert.Equal(t, []string{"Bench Press", "Dips"}, names(repository.ExerciseFilter{MuscleGroupID: &chest}))
	assert.Equal(t, []string{"Bench Press"}, names(repository.ExerciseFilter{MuscleGroupID: &chest, ActiveOnly: true}))
	assert.Equal(t, []string{"Barbell Row", "Bench Press"}, names(repository.ExerciseFilter{Search: "b", ActiveOnly: true}))
	assert.Equal(t, []string{"Dips", "Bench Press", "Barbell Row"}, names(repository.ExerciseFilter{Descending: true}))

	_, err = env.exercise.ListExercises(ctx, env.userID, repository.ExerciseFilter{SortBy: "popularity"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteExerciseCascadesPlannedSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMesocycle(t, 2, 1)
	days := env.days(t, env.weeks(t, m.ID)...)
	chest, back := env.muscle(t, "chest"), env.muscle(t, "back")
	bench := testutil.SeedExercise(t, env.st, env.userID, "Bench", chest)
	row := testutil.SeedExercise(t, env.st, env.userID, "Row", back)

	// Day one: bench, row, bench, row. Day two: row, bench.
	env.addExercise(t, m.ID, days[0].ID, bench.ID, 3)
	env.addExercise(t, m.ID, days[0].ID, row.ID, 3)
	env.addExercise(t, m.ID, days[0].ID, bench.ID, 3)
	env.addExercise(t, m.ID, days[0].ID, row.ID, 3)
	env.addExercise(t, m.ID, days[1].ID, row.ID, 3)
	env.addExercise(t, m.ID, days[1].ID, bench.ID, 3)

	require.NoError(t, env.exercise.DeleteExercise(ctx, env.userID, bench.ID))

	for _, d := range days {
		remaining := env.planned(t, d.ID)
		assert.Equal(t, seq(len(remaining)), orderIndexes(remaining))
		for _, pe := range remaining {
			assert.Equal(t, row.ID, pe.ExerciseID)
		}
	}
	assert.Len(t, env.planned(t, days[0].ID), 2)
	assert.Len(t, env.planned(t, days[1].ID), 1)

	_, err := env.exercise.GetExercise(ctx, env.userID, bench.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteExerciseWithLoggedSets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ex := testutil.SeedExercise(t, env.st, env.userID, "Deadlift", env.muscle(t, "hamstrings"))
	w, err := env.workouts.StartWorkout(ctx, env.userID, StartWorkoutInput{})
	require.NoError(t, err)
	env.logSet(t, w.ID, LogSetInput{ExerciseID: ex.ID, Reps: 5, Weight: 180})

	err = env.exercise.DeleteExercise(ctx, env.userID, ex.ID)
	assert.ErrorIs(t, err, ErrConflict)

	intruder := testutil.SeedUser(t, env.st, "intruder@example.com")
	assert.ErrorIs(t, env.exercise.DeleteExercise(ctx, intruder, ex.ID), ErrAccessDenied)
}

func TestExerciseVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ex := testutil.SeedExercise(t, env.st, env.userID, "Squat", env.muscle(t, "quads"))

	_, err := env.exercise.RequestVideoUploadURL(ctx, env.userID, ex.ID, "video/mp4")
	assert.ErrorIs(t, err, ErrMediaUnavailable)

	files := &memoryFiles{}
	svc := NewExerciseService(env.st.Exercises, env.st.PlannedExercises, env.st.PerformedSets, env.st.Tx,
		env.catalog, files, logger.NewNop())

	_, err = svc.RequestVideoUploadURL(ctx, env.userID, ex.ID, "image/gif")
	assert.ErrorIs(t, err, ErrValidation)

	first, err := svc.RequestVideoUploadURL(ctx, env.userID, ex.ID, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ObjectKey, "exercises/"+env.userID.Hex()+"/"+ex.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(first.ObjectKey, ".mp4"))
	assert.Contains(t, first.UploadURL, first.ObjectKey)

	details, err := svc.GetExercise(ctx, env.userID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.local/"+first.ObjectKey, details.VideoURL)

	// Replacing the video drops the old object.
	second, err := svc.RequestVideoUploadURL(ctx, env.userID, ex.ID, "video/webm")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ObjectKey}, files.deleted)

	require.NoError(t, svc.DeleteExercise(ctx, env.userID, ex.ID))
	assert.Equal(t, []string{first.ObjectKey, second.ObjectKey}, files.deleted)
}
