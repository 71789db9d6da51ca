package service

import (
	"context"
	"sort"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set credit per involvement when counting weekly volume by muscle group.
const (
	primarySetCredit   = 1.0
	secondarySetCredit = 0.5
)

// MesocycleView is everything needed to render a mesocycle.
type MesocycleView struct {
	MesocycleSummary
	Weeks     []WeekView        `json:"weeks"`
	Exercises []domain.Exercise `json:"exercises"` // The user's active exercises, by name
	Catalog   *domain.Catalog   `json:"catalog"`
}

type WeekView struct {
	domain.MesocycleWeek
	Days []DayView `json:"days"`
}

type DayView struct {
	domain.TrainingDay
	Exercises           []PlannedExerciseView `json:"exercises"`
	TotalSets           int                   `json:"total_sets"`
	VolumeByMuscleGroup []MuscleGroupVolume   `json:"volume_by_muscle_group"`
}

// PlannedExerciseView resolves the references of a planned exercise.
type PlannedExerciseView struct {
	domain.PlannedExercise
	Exercise      *domain.Exercise      `json:"exercise,omitempty"`
	IntensityType *domain.IntensityType `json:"intensity_type,omitempty"`
	TechniqueType *domain.TechniqueType `json:"technique_type,omitempty"`
}

// MuscleGroupVolume is the set count credited to one muscle group.
type MuscleGroupVolume struct {
	MuscleGroupID primitive.ObjectID `json:"muscle_group_id"`
	Name          string             `json:"name"`
	Sets          float64            `json:"sets"`
}

// GetMesocycle assembles the full nested view: weeks by number, days by order index and
// planned exercises by order index.
func (s *plannerService) GetMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID) (*MesocycleView, error) {
	mesocycle, err := s.ownedMesocycle(ctx, userID, mesocycleID)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	weeks, err := s.weekRepo.ListByMesocycle(ctx, mesocycleID)
	if err != nil {
		return nil, storageErr("list weeks", err)
	}
	weekIDs := make([]primitive.ObjectID, len(weeks))
	for i := range weeks {
		weekIDs[i] = weeks[i].ID
	}

	days, err := s.dayRepo.ListByWeeks(ctx, weekIDs)
	if err != nil {
		return nil, storageErr("list training days", err)
	}
	dayIDs := make([]primitive.ObjectID, len(days))
	for i := range days {
		dayIDs[i] = days[i].ID
	}

	planned, err := s.plannedRepo.ListByDays(ctx, dayIDs)
	if err != nil {
		return nil, storageErr("list planned exercises", err)
	}

	// Resolve every referenced exercise, inactive ones included.
	exerciseIDs := make([]primitive.ObjectID, 0, len(planned))
	seen := make(map[primitive.ObjectID]bool)
	for _, pe := range planned {
		if !seen[pe.ExerciseID] {
			seen[pe.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, pe.ExerciseID)
		}
	}
	referenced, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, storageErr("load exercises", err)
	}
	exercises := make(map[primitive.ObjectID]*domain.Exercise, len(referenced))
	for i := range referenced {
		exercises[referenced[i].ID] = &referenced[i]
	}

	active, err := s.exerciseRepo.ListByUser(ctx, userID, repository.ExerciseFilter{ActiveOnly: true, SortBy: "name"})
	if err != nil {
		return nil, storageErr("list exercises", err)
	}
	if active == nil {
		active = []domain.Exercise{}
	}

	// Group planned exercises per day and days per week.
	plannedByDay := make(map[primitive.ObjectID][]domain.PlannedExercise)
	for _, pe := range planned {
		plannedByDay[pe.TrainingDayID] = append(plannedByDay[pe.TrainingDayID], pe)
	}
	daysByWeek := make(map[primitive.ObjectID][]DayView)
	for _, d := range days {
		daysByWeek[d.MesocycleWeekID] = append(daysByWeek[d.MesocycleWeekID], buildDayView(d, plannedByDay[d.ID], exercises, cat))
	}

	view := &MesocycleView{
		MesocycleSummary: s.summarize(*mesocycle),
		Weeks:            make([]WeekView, 0, len(weeks)),
		Exercises:        active,
		Catalog:          cat,
	}
	for _, w := range weeks {
		dayViews := daysByWeek[w.ID]
		sort.SliceStable(dayViews, func(i, j int) bool { return dayViews[i].OrderIndex < dayViews[j].OrderIndex })
		if dayViews == nil {
			dayViews = []DayView{}
		}
		view.Weeks = append(view.Weeks, WeekView{MesocycleWeek: w, Days: dayViews})
	}
	sort.SliceStable(view.Weeks, func(i, j int) bool { return view.Weeks[i].WeekNumber < view.Weeks[j].WeekNumber })
	return view, nil
}

func buildDayView(day domain.TrainingDay, planned []domain.PlannedExercise, exercises map[primitive.ObjectID]*domain.Exercise, cat *domain.Catalog) DayView {
	sort.SliceStable(planned, func(i, j int) bool { return planned[i].OrderIndex < planned[j].OrderIndex })
	if day.MuscleGroups == nil {
		day.MuscleGroups = []domain.TrainingDayMuscleGroup{}
	}

	view := DayView{TrainingDay: day, Exercises: make([]PlannedExerciseView, 0, len(planned))}
	credits := make(map[primitive.ObjectID]float64)
	for _, pe := range planned {
		pv := PlannedExerciseView{PlannedExercise: pe, Exercise: exercises[pe.ExerciseID]}
		if pe.IntensityTypeID != nil {
			pv.IntensityType, _ = cat.IntensityType(*pe.IntensityTypeID)
		}
		if pe.TechniqueTypeID != nil {
			pv.TechniqueType, _ = cat.TechniqueType(*pe.TechniqueTypeID)
		}
		view.Exercises = append(view.Exercises, pv)
		view.TotalSets += pe.Sets

		if pv.Exercise != nil {
			for mgID, credit := range setCredits(pv.Exercise) {
				credits[mgID] += credit * float64(pe.Sets)
			}
		}
	}
	view.VolumeByMuscleGroup = volumeByMuscleGroup(credits, cat)
	return view
}

// setCredits gives each muscle group of the exercise its per-set credit. The primary
// group always earns a full set.
func setCredits(exercise *domain.Exercise) map[primitive.ObjectID]float64 {
	credits := map[primitive.ObjectID]float64{exercise.PrimaryMuscleGroupID: primarySetCredit}
	for _, link := range exercise.MuscleGroups {
		if link.Involvement == domain.InvolvementSecondary && link.MuscleGroupID != exercise.PrimaryMuscleGroupID {
			credits[link.MuscleGroupID] = secondarySetCredit
		}
	}
	return credits
}

// volumeByMuscleGroup lists the credited groups in catalog display order.
func volumeByMuscleGroup(credits map[primitive.ObjectID]float64, cat *domain.Catalog) []MuscleGroupVolume {
	out := make([]MuscleGroupVolume, 0, len(credits))
	for _, mg := range cat.MuscleGroups {
		if sets, ok := credits[mg.ID]; ok {
			out = append(out, MuscleGroupVolume{MuscleGroupID: mg.ID, Name: mg.Name, Sets: sets})
		}
	}
	return out
}
