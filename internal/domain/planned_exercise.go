package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Planned exercise limits.
const (
	MinSets = 1
	MaxSets = 20
)

// PlannedExercise is a prescribed exercise assignment attached to a training day.
// Within one training day, order_index values form the contiguous sequence 0..n-1.
type PlannedExercise struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainingDayID   primitive.ObjectID  `bson:"trainingDayId" json:"training_day_id"`
	ExerciseID      primitive.ObjectID  `bson:"exerciseId" json:"exercise_id"`
	OrderIndex      int                 `bson:"orderIndex" json:"order_index"`
	Sets            int                 `bson:"sets" json:"sets"`
	RepRange        string              `bson:"repRange" json:"rep_range"` // Free text, e.g. "8-12"
	IntensityTypeID *primitive.ObjectID `bson:"intensityTypeId,omitempty" json:"intensity_type_id,omitempty"`
	IntensityValue  *float64            `bson:"intensityValue,omitempty" json:"intensity_value,omitempty"` // Only meaningful with an intensity type
	TechniqueTypeID *primitive.ObjectID `bson:"techniqueTypeId,omitempty" json:"technique_type_id,omitempty"`
	RestSeconds     *int                `bson:"restSeconds,omitempty" json:"rest_seconds,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	SupersetGroupID string              `bson:"supersetGroupId,omitempty" json:"superset_group_id,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updated_at"`
}

// CopyTo returns a copy of the programming (everything but identity and parent) for another day.
func (p *PlannedExercise) CopyTo(trainingDayID primitive.ObjectID) *PlannedExercise {
	c := &PlannedExercise{
		TrainingDayID:   trainingDayID,
		ExerciseID:      p.ExerciseID,
		OrderIndex:      p.OrderIndex,
		Sets:            p.Sets,
		RepRange:        p.RepRange,
		Notes:           p.Notes,
		SupersetGroupID: p.SupersetGroupID,
	}
	if p.IntensityTypeID != nil {
		id := *p.IntensityTypeID
		c.IntensityTypeID = &id
	}
	if p.IntensityValue != nil {
		v := *p.IntensityValue
		c.IntensityValue = &v
	}
	if p.TechniqueTypeID != nil {
		id := *p.TechniqueTypeID
		c.TechniqueTypeID = &id
	}
	if p.RestSeconds != nil {
		r := *p.RestSeconds
		c.RestSeconds = &r
	}
	return c
}

// IsContiguous reports whether the order indexes form exactly {0, 1, ..., n-1}.
func IsContiguous(indexes []int) bool {
	seen := make([]bool, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(indexes) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
