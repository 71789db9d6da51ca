// Package catalog holds the default reference data shipped with the planner.
package catalog

import "alcyxob/strength-planner/internal/domain"

// Muscle group categories.
const (
	CategoryUpper = "upper"
	CategoryCore  = "core"
	CategoryLower = "lower"
)

// Defaults returns a fresh copy of the built-in reference data. IDs are left empty so each
// backend assigns its own on first seed.
func Defaults() *domain.Catalog {
	return &domain.Catalog{
		MuscleGroups:   muscleGroups(),
		Equipment:      equipment(),
		IntensityTypes: intensityTypes(),
		TechniqueTypes: techniqueTypes(),
		SetTypes:       setTypes(),
	}
}

func muscleGroups() []domain.MuscleGroup {
	rows := []struct{ name, slug, category string }{
		{"Chest", "chest", CategoryUpper},
		{"Back", "back", CategoryUpper},
		{"Shoulders", "shoulders", CategoryUpper},
		{"Biceps", "biceps", CategoryUpper},
		{"Triceps", "triceps", CategoryUpper},
		{"Forearms", "forearms", CategoryUpper},
		{"Lower Back", "lower-back", CategoryCore},
		{"Abs", "abs", CategoryCore},
		{"Obliques", "obliques", CategoryCore},
		{"Quads", "quads", CategoryLower},
		{"Hamstrings", "hamstrings", CategoryLower},
		{"Glutes", "glutes", CategoryLower},
		{"Calves", "calves", CategoryLower},
		{"Adductors", "adductors", CategoryLower},
		{"Abductors", "abductors", CategoryLower},
	}
	out := make([]domain.MuscleGroup, len(rows))
	for i, r := range rows {
		out[i] = domain.MuscleGroup{Name: r.name, Slug: r.slug, Category: r.category, DisplayOrder: i + 1}
	}
	return out
}

func equipment() []domain.Equipment {
	rows := [][2]string{
		{"Barbell", "barbell"},
		{"Dumbbell", "dumbbell"},
		{"Cable", "cable"},
		{"Machine", "machine"},
		{"Smith Machine", "smith-machine"},
		{"Kettlebell", "kettlebell"},
		{"Bodyweight", "bodyweight"},
		{"Resistance Band", "resistance-band"},
		{"EZ Bar", "ez-bar"},
		{"Safety Squat Bar", "safety-squat-bar"},
		{"Trap Bar", "trap-bar"},
		{"Pull-up Bar", "pull-up-bar"},
		{"Dip Station", "dip-station"},
		{"TRX", "trx"},
		{"Medicine Ball", "medicine-ball"},
		{"Landmine", "landmine"},
		{"None", "none"},
	}
	out := make([]domain.Equipment, len(rows))
	for i, r := range rows {
		out[i] = domain.Equipment{Name: r[0], Slug: r[1]}
	}
	return out
}

func intensityTypes() []domain.IntensityType {
	return []domain.IntensityType{
		{Name: "RPE", Slug: domain.IntensityRPE, Description: "Rate of perceived exertion"},
		{Name: "%1RM", Slug: domain.IntensityPercentage1RM, Description: "Percentage of one-rep max"},
		{Name: "RIR", Slug: domain.IntensityRIR, Description: "Reps in reserve"},
	}
}

func techniqueTypes() []domain.TechniqueType {
	return []domain.TechniqueType{
		{Name: "Straight Sets", Slug: "straight_sets", Description: "Traditional sets with rest between"},
		{Name: "Supersets", Slug: "supersets", Description: "Two exercises performed back-to-back"},
		{Name: "Giant Sets", Slug: "giant_sets", Description: "Three or more exercises back-to-back"},
		{Name: "Drop Sets", Slug: "drop_sets", Description: "Reduce weight and continue"},
		{Name: "Myo-Reps", Slug: "myo_reps", Description: "Activation set followed by mini-sets"},
		{Name: "Cluster Sets", Slug: "cluster_sets", Description: "Rest-pause between mini-sets"},
		{Name: "AMRAP", Slug: "amrap", Description: "As many reps as possible"},
		{Name: "EMOM", Slug: "emom", Description: "Every minute on the minute"},
	}
}

func setTypes() []domain.SetType {
	return []domain.SetType{
		{Name: "Straight Set", Slug: "straight", Abbreviation: "STR", Description: "Standard working set"},
		{Name: "Drop Set", Slug: "drop", Abbreviation: "DROP", Description: "Reduce weight and continue for more reps"},
		{Name: "AMRAP", Slug: "amrap", Abbreviation: "AMRAP", Description: "As many reps as possible"},
		{Name: "Myo-Rep", Slug: "myo_rep", Abbreviation: "MYO", Description: "Activation set followed by mini-sets"},
		{Name: "Myo-Rep Match", Slug: "myo_match", Abbreviation: "MATCH", Description: "Match the reps of the activation set"},
		{Name: "Superset", Slug: "superset", Abbreviation: "SS", Description: "Two exercises performed back-to-back"},
		{Name: "Giant Set", Slug: "giant", Abbreviation: "GS", Description: "Three or more exercises performed back-to-back"},
		{Name: "Cluster Set", Slug: "cluster", Abbreviation: "CLUS", Description: "Rest-pause between mini-sets"},
		{Name: "Rest-Pause", Slug: "rest_pause", Abbreviation: "RP", Description: "Brief rest then continue"},
		{Name: "Negative", Slug: "negative", Abbreviation: "NEG", Description: "Eccentric-only repetitions"},
		{Name: "Forced Reps", Slug: "forced", Abbreviation: "FORCE", Description: "Assisted repetitions after failure"},
		{Name: "Lengthened Partial", Slug: "lengthened_partial", Abbreviation: "PART", Description: "Partial range of motion in the stretched position only"},
		{Name: "Pause Rep", Slug: "pause", Abbreviation: "PAUSE", Description: "Pause at a specific point in the movement"},
	}
}
