// internal/domain/mesocycle.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MesocycleStatus tracks the lifecycle of a training block.
type MesocycleStatus string

const (
	MesocycleDraft     MesocycleStatus = "draft"
	MesocycleActive    MesocycleStatus = "active"
	MesocycleCompleted MesocycleStatus = "completed"
	MesocycleArchived  MesocycleStatus = "archived"
)

func (s MesocycleStatus) Valid() bool {
	switch s {
	case MesocycleDraft, MesocycleActive, MesocycleCompleted, MesocycleArchived:
		return true
	}
	return false
}

// Mesocycle limits.
const (
	MinDurationWeeks  = 1
	MaxDurationWeeks  = 52
	MinDaysPerWeek    = 1
	MaxDaysPerWeek    = 7
	SecondSessionStep = 0.5 // order_index offset of a second session relative to its parent
)

// Mesocycle is a multi-week training block owned by one user.
type Mesocycle struct {
	ID                  primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID     `bson:"userId" json:"user_id"`
	Name                string                 `bson:"name" json:"name"`
	Description         string                 `bson:"description,omitempty" json:"description,omitempty"`
	StartDate           time.Time              `bson:"startDate" json:"start_date"`
	DurationWeeks       int                    `bson:"durationWeeks" json:"duration_weeks"`
	TrainingDaysPerWeek int                    `bson:"trainingDaysPerWeek" json:"training_days_per_week"`
	Status              MesocycleStatus        `bson:"status" json:"status"`
	Settings            map[string]interface{} `bson:"settings" json:"settings"`
	CreatedAt           time.Time              `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time              `bson:"updatedAt" json:"updated_at"`
}

// EndDate is start_date + duration_weeks.
func (m *Mesocycle) EndDate() time.Time {
	return m.StartDate.AddDate(0, 0, 7*m.DurationWeeks)
}

// CurrentWeek is clamp(weeks elapsed since start + 1, 1, duration_weeks).
// Only meaningful while the mesocycle is active.
func (m *Mesocycle) CurrentWeek(now time.Time) int {
	elapsed := int(now.Sub(m.StartDate).Hours() / (24 * 7))
	week := elapsed + 1
	if week < 1 {
		week = 1
	}
	if week > m.DurationWeeks {
		week = m.DurationWeeks
	}
	return week
}

// WeekType marks special weeks inside a block.
type WeekType string

const (
	WeekNormal  WeekType = "normal"
	WeekDeload  WeekType = "deload"
	WeekTesting WeekType = "testing"
)

func (t WeekType) Valid() bool {
	return t == WeekNormal || t == WeekDeload || t == WeekTesting
}

// MesocycleWeek is exclusively owned by its Mesocycle.
type MesocycleWeek struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MesocycleID       primitive.ObjectID `bson:"mesocycleId" json:"mesocycle_id"`
	WeekNumber        int                `bson:"weekNumber" json:"week_number"` // Unique per mesocycle, 1..duration_weeks
	WeekType          WeekType           `bson:"weekType" json:"week_type"`
	IntensityModifier float64            `bson:"intensityModifier" json:"intensity_modifier"`
	VolumeModifier    float64            `bson:"volumeModifier" json:"volume_modifier"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updated_at"`
}

// TrainingDayMuscleGroup is the ordered join entity between a TrainingDay and a MuscleGroup.
type TrainingDayMuscleGroup struct {
	MuscleGroupID primitive.ObjectID `bson:"muscleGroupId" json:"muscle_group_id"`
	OrderIndex    int                `bson:"orderIndex" json:"order_index"`
}

// TrainingDay is one scheduled workout slot within a week.
type TrainingDay struct {
	ID                  primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	MesocycleWeekID     primitive.ObjectID       `bson:"mesocycleWeekId" json:"mesocycle_week_id"`
	DayNumber           int                      `bson:"dayNumber" json:"day_number"`
	Name                string                   `bson:"name" json:"name"`
	OrderIndex          float64                  `bson:"orderIndex" json:"order_index"` // Fractional so second sessions interleave
	Notes               string                   `bson:"notes,omitempty" json:"notes,omitempty"`
	DayOfWeek           string                   `bson:"dayOfWeek,omitempty" json:"day_of_week,omitempty"`
	IsSecondSession     bool                     `bson:"isSecondSession" json:"is_second_session"`
	ParentTrainingDayID *primitive.ObjectID      `bson:"parentTrainingDayId,omitempty" json:"parent_training_day_id,omitempty"`
	MuscleGroups        []TrainingDayMuscleGroup `bson:"muscleGroups" json:"muscle_groups"`
	CreatedAt           time.Time                `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time                `bson:"updatedAt" json:"updated_at"`
}

// Weekdays accepted as day_of_week.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func ValidWeekday(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}
