package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMesocycleDerivedDates(t *testing.T) {
	m := &Mesocycle{StartDate: day("2025-01-06"), DurationWeeks: 4}

	assert.Equal(t, day("2025-02-03"), m.EndDate())

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before start", day("2024-12-30"), 1},
		{"first day", day("2025-01-06"), 1},
		{"last day of week one", day("2025-01-12"), 1},
		{"week two", day("2025-01-13"), 2},
		{"week four", day("2025-01-31"), 4},
		{"after end", day("2025-06-01"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.CurrentWeek(tt.now))
		})
	}
}

func TestRollingAverage(t *testing.T) {
	t.Run("left truncated window", func(t *testing.T) {
		metrics := []DailyMetric{
			{Date: day("2025-01-01"), Value: 10},
			{Date: day("2025-01-02"), Value: 20},
			{Date: day("2025-01-03"), Value: 30},
		}
		points := RollingAverage(metrics, 7)
		require.Len(t, points, 3)
		assert.Equal(t, []float64{10, 15, 20}, []float64{points[0].RollingAvg, points[1].RollingAvg, points[2].RollingAvg})
		assert.Equal(t, "2025-01-03", points[2].Date)
	})

	t.Run("window slides", func(t *testing.T) {
		metrics := []DailyMetric{{Value: 1}, {Value: 2}, {Value: 3}, {Value: 4}}
		points := RollingAverage(metrics, 2)
		assert.Equal(t, 1.0, points[0].RollingAvg)
		assert.Equal(t, 1.5, points[1].RollingAvg)
		assert.Equal(t, 2.5, points[2].RollingAvg)
		assert.Equal(t, 3.5, points[3].RollingAvg)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		metrics := []DailyMetric{{Value: 80.123}, {Value: 80.0}, {Value: 80.0}}
		points := RollingAverage(metrics, 7)
		assert.Equal(t, 80.12, points[0].Value)
		assert.Equal(t, 80.04, points[2].RollingAvg)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RollingAverage(nil, 7))
	})
}

func TestEstimated1RM(t *testing.T) {
	tests := []struct {
		name   string
		set    PerformedSet
		want   float64
		wantOK bool
	}{
		{"single", PerformedSet{Weight: 100, Reps: 1}, 100, true},
		{"five reps", PerformedSet{Weight: 100, Reps: 5}, 112.51, true},
		{"twelve reps", PerformedSet{Weight: 60, Reps: 12}, 86.43, true},
		{"thirteen reps", PerformedSet{Weight: 60, Reps: 13}, 0, false},
		{"zero reps", PerformedSet{Weight: 60, Reps: 0}, 0, false},
		{"no weight", PerformedSet{Weight: 0, Reps: 5}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.set.Estimated1RM()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, Round2(got))
		})
	}

	assert.Equal(t, 500.0, (&PerformedSet{Weight: 50, Reps: 10}).Volume())
}

func TestBuildMuscleGroupLinks(t *testing.T) {
	chest, triceps, delts := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	links, err := BuildMuscleGroupLinks(chest, []primitive.ObjectID{triceps, delts, triceps})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, ExerciseMuscleGroup{MuscleGroupID: chest, Involvement: InvolvementPrimary}, links[0])
	assert.Equal(t, InvolvementSecondary, links[1].Involvement)

	_, err = BuildMuscleGroupLinks(chest, []primitive.ObjectID{triceps, chest})
	assert.ErrorIs(t, err, ErrPrimaryInSecondary)

	ex := &Exercise{PrimaryMuscleGroupID: chest, MuscleGroups: links}
	assert.Equal(t, []primitive.ObjectID{triceps, delts}, ex.SecondaryMuscleGroupIDs())
	inv, ok := ex.InvolvementOf(delts)
	assert.True(t, ok)
	assert.Equal(t, InvolvementSecondary, inv)
	_, ok = ex.InvolvementOf(primitive.NewObjectID())
	assert.False(t, ok)
}

func TestIsContiguous(t *testing.T) {
	assert.True(t, IsContiguous(nil))
	assert.True(t, IsContiguous([]int{2, 0, 1}))
	assert.False(t, IsContiguous([]int{0, 2}))
	assert.False(t, IsContiguous([]int{0, 0}))
	assert.False(t, IsContiguous([]int{-1, 0}))
}

func TestPlannedExerciseCopyTo(t *testing.T) {
	intensity := primitive.NewObjectID()
	value := 8.0
	rest := 90
	src := &PlannedExercise{
		ID:              primitive.NewObjectID(),
		TrainingDayID:   primitive.NewObjectID(),
		ExerciseID:      primitive.NewObjectID(),
		OrderIndex:      2,
		Sets:            3,
		RepRange:        "8-12",
		IntensityTypeID: &intensity,
		IntensityValue:  &value,
		RestSeconds:     &rest,
		Notes:           "slow eccentric",
		SupersetGroupID: "ss-1",
	}
	target := primitive.NewObjectID()

	c := src.CopyTo(target)
	assert.Equal(t, primitive.NilObjectID, c.ID)
	assert.Equal(t, target, c.TrainingDayID)
	assert.Equal(t, src.OrderIndex, c.OrderIndex)
	assert.Equal(t, *src.IntensityValue, *c.IntensityValue)
	assert.Equal(t, src.SupersetGroupID, c.SupersetGroupID)

	*c.IntensityValue = 9
	assert.Equal(t, 8.0, *src.IntensityValue, "copy must not alias the source")
}

func TestValidators(t *testing.T) {
	assert.True(t, MesocycleActive.Valid())
	assert.False(t, MesocycleStatus("paused").Valid())
	assert.True(t, WeekDeload.Valid())
	assert.False(t, WeekType("light").Valid())
	assert.True(t, MetricSteps.Valid())
	assert.False(t, MetricType("calories").Valid())
	assert.True(t, ValidWeekday("friday"))
	assert.False(t, ValidWeekday("Friday"))
}
