package mongo

import (
	"context"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	muscleGroupCollectionName   = "muscle_groups"
	equipmentCollectionName     = "equipment"
	intensityTypeCollectionName = "intensity_types"
	techniqueTypeCollectionName = "technique_types"
	setTypeCollectionName       = "set_types"
)

// mongoCatalogRepository reads the shared reference collections.
type mongoCatalogRepository struct {
	db *mongo.Database
}

// NewMongoCatalogRepository creates a new catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{db: db}
}

func (r *mongoCatalogRepository) ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	var out []domain.MuscleGroup
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}})
	err := findAll(ctx, r.db.Collection(muscleGroupCollectionName), bson.M{}, &out, opts)
	return out, err
}

func (r *mongoCatalogRepository) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var out []domain.Equipment
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	err := findAll(ctx, r.db.Collection(equipmentCollectionName), bson.M{}, &out, opts)
	return out, err
}

// Insertion order follows the ObjectID timestamp, which matches seed order.
func (r *mongoCatalogRepository) ListIntensityTypes(ctx context.Context) ([]domain.IntensityType, error) {
	var out []domain.IntensityType
	err := findAll(ctx, r.db.Collection(intensityTypeCollectionName), bson.M{}, &out, byInsertion())
	return out, err
}

func (r *mongoCatalogRepository) ListTechniqueTypes(ctx context.Context) ([]domain.TechniqueType, error) {
	var out []domain.TechniqueType
	err := findAll(ctx, r.db.Collection(techniqueTypeCollectionName), bson.M{}, &out, byInsertion())
	return out, err
}

func (r *mongoCatalogRepository) ListSetTypes(ctx context.Context) ([]domain.SetType, error) {
	var out []domain.SetType
	err := findAll(ctx, r.db.Collection(setTypeCollectionName), bson.M{}, &out, byInsertion())
	return out, err
}

func byInsertion() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

// Seed upserts each row on its slug with $setOnInsert, so existing rows are never touched.
func (r *mongoCatalogRepository) Seed(ctx context.Context, catalog *domain.Catalog) (int, error) {
	inserted := 0
	insert := func(collection, slug string, doc interface{}) error {
		result, err := r.db.Collection(collection).UpdateOne(ctx,
			bson.M{"slug": slug},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
		inserted += int(result.UpsertedCount)
		return nil
	}

	for _, mg := range catalog.MuscleGroups {
		mg.ID = newIDIfZero(mg.ID)
		if err := insert(muscleGroupCollectionName, mg.Slug, mg); err != nil {
			return inserted, err
		}
	}
	for _, eq := range catalog.Equipment {
		eq.ID = newIDIfZero(eq.ID)
		if err := insert(equipmentCollectionName, eq.Slug, eq); err != nil {
			return inserted, err
		}
	}
	for _, it := range catalog.IntensityTypes {
		it.ID = newIDIfZero(it.ID)
		if err := insert(intensityTypeCollectionName, it.Slug, it); err != nil {
			return inserted, err
		}
	}
	for _, tt := range catalog.TechniqueTypes {
		tt.ID = newIDIfZero(tt.ID)
		if err := insert(techniqueTypeCollectionName, tt.Slug, tt); err != nil {
			return inserted, err
		}
	}
	for _, st := range catalog.SetTypes {
		st.ID = newIDIfZero(st.ID)
		if err := insert(setTypeCollectionName, st.Slug, st); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

func newIDIfZero(id primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		return primitive.NewObjectID()
	}
	return id
}
