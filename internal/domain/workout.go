package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType distinguishes sessions run from a plan and ad-hoc sessions.
type WorkoutType string

const (
	WorkoutPlanned   WorkoutType = "planned"
	WorkoutFreestyle WorkoutType = "freestyle"
)

// Accepted workout moods.
var Moods = []string{"terrible", "bad", "neutral", "good", "excellent"}

// Workout represents a single logged training session.
type Workout struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"user_id"`
	TrainingDayID   *primitive.ObjectID `bson:"trainingDayId,omitempty" json:"training_day_id,omitempty"` // Set for planned workouts
	Type            WorkoutType         `bson:"type" json:"type"`
	StartedAt       time.Time           `bson:"startedAt" json:"started_at"`
	CompletedAt     *time.Time          `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	DurationSeconds *int                `bson:"durationSeconds,omitempty" json:"duration_seconds,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	SessionRPE      *float64            `bson:"sessionRpe,omitempty" json:"session_rpe,omitempty"`
	Mood            string              `bson:"mood,omitempty" json:"mood,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updated_at"`
}

func (w *Workout) IsCompleted() bool {
	return w.CompletedAt != nil
}
