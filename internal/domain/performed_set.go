package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rep range over which the 1RM estimate is considered reliable.
const (
	MinRepsFor1RM = 1
	MaxRepsFor1RM = 12
)

// PerformedSet is one logged set. It is read-only for the planner.
type PerformedSet struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	WorkoutID         primitive.ObjectID  `bson:"workoutId" json:"workout_id"`
	UserID            primitive.ObjectID  `bson:"userId" json:"user_id"` // Denormalized from the workout
	ExerciseID        primitive.ObjectID  `bson:"exerciseId" json:"exercise_id"`
	PlannedExerciseID *primitive.ObjectID `bson:"plannedExerciseId,omitempty" json:"planned_exercise_id,omitempty"`
	SetNumber         int                 `bson:"setNumber" json:"set_number"`
	Reps              int                 `bson:"reps" json:"reps"`
	Weight            float64             `bson:"weight" json:"weight"`
	WeightUnit        string              `bson:"weightUnit" json:"weight_unit"`
	RPE               *float64            `bson:"rpe,omitempty" json:"rpe,omitempty"`
	RIR               *int                `bson:"rir,omitempty" json:"rir,omitempty"`
	SetTypeID         *primitive.ObjectID `bson:"setTypeId,omitempty" json:"set_type_id,omitempty"`
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	SupersetGroupID   string              `bson:"supersetGroupId,omitempty" json:"superset_group_id,omitempty"`
	RestTakenSeconds  *int                `bson:"restTakenSeconds,omitempty" json:"rest_taken_seconds,omitempty"`
	IsWarmup          bool                `bson:"isWarmup" json:"is_warmup"`
	IsFailure         bool                `bson:"isFailure" json:"is_failure"`
	PerformedAt       time.Time           `bson:"performedAt" json:"performed_at"`
}

// Volume is weight x reps.
func (s *PerformedSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Estimated1RM uses the Brzycki formula, weight / (1.0278 - 0.0278 * reps).
// The estimate is only defined for 1..12 reps.
func (s *PerformedSet) Estimated1RM() (float64, bool) {
	if s.Reps < MinRepsFor1RM || s.Reps > MaxRepsFor1RM || s.Weight <= 0 {
		return 0, false
	}
	return s.Weight / (1.0278 - 0.0278*float64(s.Reps)), true
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
