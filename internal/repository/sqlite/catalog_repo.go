package sqlite

import (
	"context"
	"database/sql"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type catalogRepository struct {
	*DB
}

// NewCatalogRepository creates a reference-data repository backed by SQLite.
func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{DB: db}
}

func (r *catalogRepository) ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT id, name, slug, category, display_order FROM muscle_groups ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MuscleGroup
	for rows.Next() {
		var (
			mg domain.MuscleGroup
			id string
		)
		if err := rows.Scan(&id, &mg.Name, &mg.Slug, &mg.Category, &mg.DisplayOrder); err != nil {
			return nil, err
		}
		if mg.ID, err = parseID(id); err != nil {
			return nil, err
		}
		out = append(out, mg)
	}
	return out, rows.Err()
}

func (r *catalogRepository) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `SELECT id, name, slug FROM equipment ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Equipment
	for rows.Next() {
		var (
			eq domain.Equipment
			id string
		)
		if err := rows.Scan(&id, &eq.Name, &eq.Slug); err != nil {
			return nil, err
		}
		if eq.ID, err = parseID(id); err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	return out, rows.Err()
}

func (r *catalogRepository) ListIntensityTypes(ctx context.Context) ([]domain.IntensityType, error) {
	var out []domain.IntensityType
	err := r.listDescribed(ctx, "intensity_types", func(id primitive.ObjectID, name, slug, desc string) {
		out = append(out, domain.IntensityType{ID: id, Name: name, Slug: slug, Description: desc})
	})
	return out, err
}

func (r *catalogRepository) ListTechniqueTypes(ctx context.Context) ([]domain.TechniqueType, error) {
	var out []domain.TechniqueType
	err := r.listDescribed(ctx, "technique_types", func(id primitive.ObjectID, name, slug, desc string) {
		out = append(out, domain.TechniqueType{ID: id, Name: name, Slug: slug, Description: desc})
	})
	return out, err
}

// listDescribed reads the (id, name, slug, description) tables in insertion order.
func (r *catalogRepository) listDescribed(ctx context.Context, table string, add func(id primitive.ObjectID, name, slug, desc string)) error {
	rows, err := r.conn(ctx).QueryContext(ctx, `SELECT id, name, slug, description FROM `+table+` ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, slug, desc string
		if err := rows.Scan(&id, &name, &slug, &desc); err != nil {
			return err
		}
		oid, err := parseID(id)
		if err != nil {
			return err
		}
		add(oid, name, slug, desc)
	}
	return rows.Err()
}

func (r *catalogRepository) ListSetTypes(ctx context.Context) ([]domain.SetType, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT id, name, slug, abbreviation, description FROM set_types ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SetType
	for rows.Next() {
		var (
			st domain.SetType
			id string
		)
		if err := rows.Scan(&id, &st.Name, &st.Slug, &st.Abbreviation, &st.Description); err != nil {
			return nil, err
		}
		if st.ID, err = parseID(id); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *catalogRepository) Seed(ctx context.Context, catalog *domain.Catalog) (int, error) {
	inserted := 0
	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)
		count := func(res sql.Result, err error) error {
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			inserted += int(n)
			return err
		}

		for _, mg := range catalog.MuscleGroups {
			if err := count(q.ExecContext(ctx, `
				INSERT INTO muscle_groups (id, name, slug, category, display_order) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(slug) DO NOTHING`,
				newIDIfZero(mg.ID), mg.Name, mg.Slug, mg.Category, mg.DisplayOrder)); err != nil {
				return err
			}
		}
		for _, eq := range catalog.Equipment {
			if err := count(q.ExecContext(ctx, `
				INSERT INTO equipment (id, name, slug) VALUES (?, ?, ?) ON CONFLICT(slug) DO NOTHING`,
				newIDIfZero(eq.ID), eq.Name, eq.Slug)); err != nil {
				return err
			}
		}
		for _, it := range catalog.IntensityTypes {
			if err := count(q.ExecContext(ctx, `
				INSERT INTO intensity_types (id, name, slug, description) VALUES (?, ?, ?, ?)
				ON CONFLICT(slug) DO NOTHING`,
				newIDIfZero(it.ID), it.Name, it.Slug, it.Description)); err != nil {
				return err
			}
		}
		for _, tt := range catalog.TechniqueTypes {
			if err := count(q.ExecContext(ctx, `
				INSERT INTO technique_types (id, name, slug, description) VALUES (?, ?, ?, ?)
				ON CONFLICT(slug) DO NOTHING`,
				newIDIfZero(tt.ID), tt.Name, tt.Slug, tt.Description)); err != nil {
				return err
			}
		}
		for _, st := range catalog.SetTypes {
			if err := count(q.ExecContext(ctx, `
				INSERT INTO set_types (id, name, slug, abbreviation, description) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(slug) DO NOTHING`,
				newIDIfZero(st.ID), st.Name, st.Slug, st.Abbreviation, st.Description)); err != nil {
				return err
			}
		}
		return nil
	})
	return inserted, err
}

func newIDIfZero(id primitive.ObjectID) string {
	if id.IsZero() {
		return primitive.NewObjectID().Hex()
	}
	return id.Hex()
}
