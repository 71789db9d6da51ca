// internal/domain/exercise.go
package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Involvement tags how a muscle group participates in an exercise.
type Involvement string

const (
	InvolvementPrimary   Involvement = "primary"
	InvolvementSecondary Involvement = "secondary"
)

// ErrPrimaryInSecondary is returned when an exercise lists its primary muscle group as secondary too.
var ErrPrimaryInSecondary = errors.New("primary muscle group cannot also be a secondary muscle group")

// ExerciseMuscleGroup is the join entity between an Exercise and a MuscleGroup.
type ExerciseMuscleGroup struct {
	MuscleGroupID primitive.ObjectID `bson:"muscleGroupId" json:"muscle_group_id"`
	Involvement   Involvement        `bson:"involvement" json:"involvement"`
}

// Exercise represents a single exercise definition in a user's library.
type Exercise struct {
	ID                   primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID    `bson:"userId" json:"user_id"`                            // Owner
	Name                 string                `bson:"name" json:"name"`
	PrimaryMuscleGroupID primitive.ObjectID    `bson:"primaryMuscleGroupId" json:"primary_muscle_group_id"` // Denormalized copy of the primary link
	EquipmentID          *primitive.ObjectID   `bson:"equipmentId,omitempty" json:"equipment_id,omitempty"` // nil means bodyweight
	IsCompound           bool                  `bson:"isCompound" json:"is_compound"`
	IsActive             bool                  `bson:"isActive" json:"is_active"`
	Notes                string                `bson:"notes,omitempty" json:"notes,omitempty"`
	MuscleGroups         []ExerciseMuscleGroup `bson:"muscleGroups" json:"muscle_groups"`
	VideoKey             string                `bson:"videoKey,omitempty" json:"-"` // Object key of the demo video in storage
	CreatedAt            time.Time             `bson:"createdAt" json:"created_at"`
	UpdatedAt            time.Time             `bson:"updatedAt" json:"updated_at"`
}

// BuildMuscleGroupLinks produces the join rows for an exercise: exactly one primary link
// followed by one secondary link per distinct secondary id.
func BuildMuscleGroupLinks(primary primitive.ObjectID, secondary []primitive.ObjectID) ([]ExerciseMuscleGroup, error) {
	links := []ExerciseMuscleGroup{{MuscleGroupID: primary, Involvement: InvolvementPrimary}}
	seen := map[primitive.ObjectID]bool{primary: true}
	for _, id := range secondary {
		if id == primary {
			return nil, ErrPrimaryInSecondary
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, ExerciseMuscleGroup{MuscleGroupID: id, Involvement: InvolvementSecondary})
	}
	return links, nil
}

// SecondaryMuscleGroupIDs returns the ids of all secondary links.
func (e *Exercise) SecondaryMuscleGroupIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, l := range e.MuscleGroups {
		if l.Involvement == InvolvementSecondary {
			ids = append(ids, l.MuscleGroupID)
		}
	}
	return ids
}

// InvolvementOf reports how the exercise involves the muscle group, if at all.
func (e *Exercise) InvolvementOf(muscleGroupID primitive.ObjectID) (Involvement, bool) {
	if muscleGroupID == e.PrimaryMuscleGroupID {
		return InvolvementPrimary, true
	}
	for _, l := range e.MuscleGroups {
		if l.MuscleGroupID == muscleGroupID {
			return l.Involvement, true
		}
	}
	return "", false
}
