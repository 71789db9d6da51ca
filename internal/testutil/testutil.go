// Package testutil opens throwaway SQLite stores for service and API tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"alcyxob/strength-planner/internal/catalog"
	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository/sqlite"
	"alcyxob/strength-planner/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStore opens a migrated SQLite database in t.TempDir and closes it in Cleanup.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "planner.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.NewSQLite(db)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// SeedCatalog inserts the default reference data and returns it as stored (with ids).
func SeedCatalog(t *testing.T, st *store.Store) *domain.Catalog {
	t.Helper()
	ctx := context.Background()
	if _, err := st.Catalog.Seed(ctx, catalog.Defaults()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	var (
		c   domain.Catalog
		err error
	)
	if c.MuscleGroups, err = st.Catalog.ListMuscleGroups(ctx); err != nil {
		t.Fatalf("list muscle groups: %v", err)
	}
	if c.Equipment, err = st.Catalog.ListEquipment(ctx); err != nil {
		t.Fatalf("list equipment: %v", err)
	}
	if c.IntensityTypes, err = st.Catalog.ListIntensityTypes(ctx); err != nil {
		t.Fatalf("list intensity types: %v", err)
	}
	if c.TechniqueTypes, err = st.Catalog.ListTechniqueTypes(ctx); err != nil {
		t.Fatalf("list technique types: %v", err)
	}
	if c.SetTypes, err = st.Catalog.ListSetTypes(ctx); err != nil {
		t.Fatalf("list set types: %v", err)
	}
	return &c
}

// SeedUser creates a user with a placeholder password hash.
func SeedUser(t *testing.T, st *store.Store, email string) primitive.ObjectID {
	t.Helper()
	id, err := st.Users.Create(context.Background(), &domain.User{Name: "Test " + email, Email: email, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// MuscleGroup returns the stored muscle group with the given slug.
func MuscleGroup(t *testing.T, c *domain.Catalog, slug string) domain.MuscleGroup {
	t.Helper()
	for _, mg := range c.MuscleGroups {
		if mg.Slug == slug {
			return mg
		}
	}
	t.Fatalf("muscle group %q not seeded", slug)
	return domain.MuscleGroup{}
}

// SeedExercise stores an active exercise with the given primary and secondary muscle groups.
func SeedExercise(t *testing.T, st *store.Store, userID primitive.ObjectID, name string, primary primitive.ObjectID, secondary ...primitive.ObjectID) *domain.Exercise {
	t.Helper()
	links, err := domain.BuildMuscleGroupLinks(primary, secondary)
	if err != nil {
		t.Fatalf("build links: %v", err)
	}
	ex := &domain.Exercise{
		UserID:               userID,
		Name:                 name,
		PrimaryMuscleGroupID: primary,
		IsActive:             true,
		MuscleGroups:         links,
	}
	if _, err := st.Exercises.Create(context.Background(), ex); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return ex
}
