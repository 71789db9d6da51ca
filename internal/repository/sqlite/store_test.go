package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"alcyxob/strength-planner/internal/catalog"
	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "planner.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Lifter", Email: email, PasswordHash: "hash"}
	_, err := NewUserRepository(db).Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func seedCatalog(t *testing.T, db *DB) *domain.Catalog {
	t.Helper()
	ctx := context.Background()
	repo := NewCatalogRepository(db)
	_, err := repo.Seed(ctx, catalog.Defaults())
	require.NoError(t, err)

	mgs, err := repo.ListMuscleGroups(ctx)
	require.NoError(t, err)
	eq, err := repo.ListEquipment(ctx)
	require.NoError(t, err)
	return &domain.Catalog{MuscleGroups: mgs, Equipment: eq}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	ctx := context.Background()

	db, err := Open(ctx, path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path, logger.NewNop())
	require.NoError(t, err)
	defer db.Close()

	m, err := NewMigrator(db.db, logger.NewNop())
	require.NoError(t, err)
	version, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := seedUser(t, db, "a@example.com")

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.Create(ctx, &domain.User{Name: "Dup", Email: "a@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalogSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewCatalogRepository(db)

	n, err := repo.Seed(ctx, catalog.Defaults())
	require.NoError(t, err)
	assert.Equal(t, 15+17+3+8+13, n)

	n, err = repo.Seed(ctx, catalog.Defaults())
	require.NoError(t, err)
	assert.Zero(t, n)

	mgs, err := repo.ListMuscleGroups(ctx)
	require.NoError(t, err)
	require.Len(t, mgs, 15)
	assert.Equal(t, "chest", mgs[0].Slug)
	assert.Equal(t, "abductors", mgs[14].Slug)

	sets, err := repo.ListSetTypes(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 13)
	assert.Equal(t, "STR", sets[0].Abbreviation)
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	boom := errors.New("boom")

	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := users.Create(ctx, &domain.User{Name: "Tx", Email: "tx@example.com", PasswordHash: "x"})
		require.NoError(t, err)
		// Nested calls join the outer transaction.
		return db.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := users.GetByEmail(ctx, "tx@example.com")
			require.NoError(t, err)
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	_, err = users.GetByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExerciseRepositoryLinksAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cat := seedCatalog(t, db)
	user := seedUser(t, db, "ex@example.com")
	repo := NewExerciseRepository(db)

	chest, triceps, quads := cat.MuscleGroups[0].ID, cat.MuscleGroups[4].ID, cat.MuscleGroups[9].ID
	require.Equal(t, "Barbell", cat.Equipment[0].Name) // ordered by name
	barbell := cat.Equipment[0].ID

	links, err := domain.BuildMuscleGroupLinks(chest, []primitive.ObjectID{triceps})
	require.NoError(t, err)
	bench := &domain.Exercise{UserID: user.ID, Name: "Bench Press", PrimaryMuscleGroupID: chest,
		EquipmentID: &barbell, IsCompound: true, IsActive: true, MuscleGroups: links}
	_, err = repo.Create(ctx, bench)
	require.NoError(t, err)

	squatLinks, _ := domain.BuildMuscleGroupLinks(quads, nil)
	squat := &domain.Exercise{UserID: user.ID, Name: "Air Squat", PrimaryMuscleGroupID: quads,
		IsActive: false, MuscleGroups: squatLinks}
	_, err = repo.Create(ctx, squat)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, bench.ID)
	require.NoError(t, err)
	require.Len(t, got.MuscleGroups, 2)
	assert.Equal(t, domain.InvolvementPrimary, got.MuscleGroups[0].Involvement)
	assert.Equal(t, []primitive.ObjectID{triceps}, got.SecondaryMuscleGroupIDs())

	tests := []struct {
		name   string
		filter repository.ExerciseFilter
		want   []string
	}{
		{"all by name", repository.ExerciseFilter{}, []string{"Air Squat", "Bench Press"}},
		{"search", repository.ExerciseFilter{Search: "bench"}, []string{"Bench Press"}},
		{"secondary muscle", repository.ExerciseFilter{MuscleGroupID: &triceps}, []string{"Bench Press"}},
		{"bodyweight", repository.ExerciseFilter{BodyweightOnly: true}, []string{"Air Squat"}},
		{"equipment", repository.ExerciseFilter{EquipmentID: &barbell}, []string{"Bench Press"}},
		{"active only", repository.ExerciseFilter{ActiveOnly: true}, []string{"Bench Press"}},
		{"descending", repository.ExerciseFilter{Descending: true}, []string{"Bench Press", "Air Squat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.ListByUser(ctx, user.ID, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, e := range list {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	bench.MuscleGroups = bench.MuscleGroups[:1]
	require.NoError(t, repo.Update(ctx, bench))
	got, err = repo.GetByID(ctx, bench.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SecondaryMuscleGroupIDs())

	assert.ErrorIs(t, repo.Delete(ctx, bench.ID, primitive.NewObjectID()), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, bench.ID, user.ID))
}

func TestPlannedExerciseOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cat := seedCatalog(t, db)
	user := seedUser(t, db, "pe@example.com")

	meso := &domain.Mesocycle{UserID: user.ID, Name: "Block", StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 1, TrainingDaysPerWeek: 1, Status: domain.MesocycleDraft}
	_, err := NewMesocycleRepository(db).Create(ctx, meso)
	require.NoError(t, err)
	week := &domain.MesocycleWeek{MesocycleID: meso.ID, WeekNumber: 1, WeekType: domain.WeekNormal,
		IntensityModifier: 1, VolumeModifier: 1}
	require.NoError(t, NewWeekRepository(db).CreateMany(ctx, []*domain.MesocycleWeek{week}))
	day := &domain.TrainingDay{MesocycleWeekID: week.ID, DayNumber: 1, Name: "Day 1"}
	_, err = NewTrainingDayRepository(db).Create(ctx, day)
	require.NoError(t, err)

	links, _ := domain.BuildMuscleGroupLinks(cat.MuscleGroups[0].ID, nil)
	ex := &domain.Exercise{UserID: user.ID, Name: "Press", PrimaryMuscleGroupID: cat.MuscleGroups[0].ID,
		IsActive: true, MuscleGroups: links}
	_, err = NewExerciseRepository(db).Create(ctx, ex)
	require.NoError(t, err)

	repo := NewPlannedExerciseRepository(db)
	maxIdx, err := repo.MaxOrderIndex(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, maxIdx)

	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		pe := &domain.PlannedExercise{TrainingDayID: day.ID, ExerciseID: ex.ID, OrderIndex: i, Sets: 3, RepRange: "8-12"}
		_, err := repo.Create(ctx, pe)
		require.NoError(t, err)
		ids = append(ids, pe.ID)
	}

	require.NoError(t, repo.Delete(ctx, ids[0]))
	require.NoError(t, repo.ShiftDown(ctx, day.ID, 0))

	list, err := repo.ListByDays(ctx, []primitive.ObjectID{day.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0].ID)
	assert.Equal(t, 0, list[0].OrderIndex)
	assert.Equal(t, 1, list[1].OrderIndex)

	// Deleting the day cascades to its planned exercises.
	require.NoError(t, NewTrainingDayRepository(db).Delete(ctx, day.ID))
	_, err = repo.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDailyMetricUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "m@example.com")
	repo := NewDailyMetricRepository(db)
	day := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

	first := &domain.DailyMetric{UserID: user.ID, Date: day, MetricType: domain.MetricBodyweight, Value: 80, Unit: "kg"}
	require.NoError(t, repo.Upsert(ctx, first))
	second := &domain.DailyMetric{UserID: user.ID, Date: day, MetricType: domain.MetricBodyweight, Value: 79.5, Unit: "kg", Notes: "am"}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	list, err := repo.ListRange(ctx, user.ID, domain.MetricBodyweight, day.AddDate(0, 0, -6), day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 79.5, list[0].Value)
	assert.Equal(t, "am", list[0].Notes)
	assert.Equal(t, domain.TruncateToDate(day), list[0].Date)

	latest, err := repo.Latest(ctx, user.ID, domain.MetricBodyweight)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = repo.Latest(ctx, user.ID, domain.MetricSteps)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
