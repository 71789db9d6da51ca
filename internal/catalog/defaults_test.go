package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	assert.Len(t, c.MuscleGroups, 15)
	assert.Len(t, c.Equipment, 17)
	assert.Len(t, c.IntensityTypes, 3)
	assert.Len(t, c.TechniqueTypes, 8)
	assert.Len(t, c.SetTypes, 13)

	assert.Equal(t, "Chest", c.MuscleGroups[0].Name)
	assert.Equal(t, 1, c.MuscleGroups[0].DisplayOrder)
	assert.Equal(t, "lower-back", c.MuscleGroups[6].Slug)
	assert.Equal(t, CategoryCore, c.MuscleGroups[6].Category)
	assert.Equal(t, 15, c.MuscleGroups[14].DisplayOrder)
}

func TestDefaultsSlugsAreUnique(t *testing.T) {
	c := Defaults()
	check := func(kind string, slugs []string) {
		seen := map[string]bool{}
		for _, s := range slugs {
			assert.False(t, seen[s], "%s slug %q repeated", kind, s)
			seen[s] = true
		}
	}

	var mg, eq, st []string
	for _, m := range c.MuscleGroups {
		mg = append(mg, m.Slug)
	}
	for _, e := range c.Equipment {
		eq = append(eq, e.Slug)
	}
	for _, s := range c.SetTypes {
		st = append(st, s.Slug)
	}
	check("muscle group", mg)
	check("equipment", eq)
	check("set type", st)
}

func TestDefaultsReturnsFreshCopy(t *testing.T) {
	a := Defaults()
	a.MuscleGroups[0].Name = "changed"
	assert.Equal(t, "Chest", Defaults().MuscleGroups[0].Name)
}
