package sqlite

import (
	"context"
	"database/sql"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const plannedExerciseColumns = `id, training_day_id, exercise_id, order_index, sets, rep_range, intensity_type_id,
	intensity_value, technique_type_id, rest_seconds, notes, superset_group_id, created_at, updated_at`

type plannedExerciseRepository struct {
	*DB
}

// NewPlannedExerciseRepository creates a planned-exercise repository backed by SQLite.
func NewPlannedExerciseRepository(db *DB) repository.PlannedExerciseRepository {
	return &plannedExerciseRepository{DB: db}
}

func (r *plannedExerciseRepository) Create(ctx context.Context, pe *domain.PlannedExercise) (primitive.ObjectID, error) {
	pe.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pe.CreatedAt = now
	pe.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO planned_exercises (`+plannedExerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pe.ID.Hex(), pe.TrainingDayID.Hex(), pe.ExerciseID.Hex(), pe.OrderIndex, pe.Sets, pe.RepRange,
		nullID(pe.IntensityTypeID), nullFloat(pe.IntensityValue), nullID(pe.TechniqueTypeID),
		nullInt(pe.RestSeconds), pe.Notes, pe.SupersetGroupID, formatTime(now), formatTime(now))
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return pe.ID, nil
}

func (r *plannedExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedExercise, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+plannedExerciseColumns+` FROM planned_exercises WHERE id = ?`, id.Hex())
	return scanPlannedExercise(row)
}

func (r *plannedExerciseRepository) ListByDays(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.PlannedExercise, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(dayIDs)
	return r.list(ctx, `
		SELECT `+plannedExerciseColumns+` FROM planned_exercises
		WHERE training_day_id IN `+in+` ORDER BY training_day_id, order_index`, args...)
}

func (r *plannedExerciseRepository) ListByExercise(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.PlannedExercise, error) {
	return r.list(ctx, `
		SELECT `+plannedExerciseColumns+` FROM planned_exercises
		WHERE exercise_id = ? ORDER BY training_day_id, order_index`, exerciseID.Hex())
}

func (r *plannedExerciseRepository) list(ctx context.Context, query string, args ...any) ([]domain.PlannedExercise, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlannedExercise
	for rows.Next() {
		pe, err := scanPlannedExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pe)
	}
	return out, rows.Err()
}

func (r *plannedExerciseRepository) MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	var maxIdx sql.NullInt64
	err := r.conn(ctx).QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM planned_exercises WHERE training_day_id = ?`, dayID.Hex()).Scan(&maxIdx)
	if err != nil {
		return 0, err
	}
	if !maxIdx.Valid {
		return -1, nil
	}
	return int(maxIdx.Int64), nil
}

func (r *plannedExerciseRepository) Update(ctx context.Context, pe *domain.PlannedExercise) error {
	pe.UpdatedAt = time.Now().UTC()
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE planned_exercises SET exercise_id = ?, sets = ?, rep_range = ?, intensity_type_id = ?,
			intensity_value = ?, technique_type_id = ?, rest_seconds = ?, notes = ?, superset_group_id = ?,
			updated_at = ?
		WHERE id = ?`,
		pe.ExerciseID.Hex(), pe.Sets, pe.RepRange, nullID(pe.IntensityTypeID), nullFloat(pe.IntensityValue),
		nullID(pe.TechniqueTypeID), nullInt(pe.RestSeconds), pe.Notes, pe.SupersetGroupID,
		formatTime(pe.UpdatedAt), pe.ID.Hex()))
}

func (r *plannedExerciseRepository) SetPosition(ctx context.Context, id, dayID primitive.ObjectID, orderIndex int) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE planned_exercises SET training_day_id = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		dayID.Hex(), orderIndex, formatTime(time.Now()), id.Hex()))
}

func (r *plannedExerciseRepository) ShiftDown(ctx context.Context, dayID primitive.ObjectID, afterIndex int) error {
	_, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE planned_exercises SET order_index = order_index - 1, updated_at = ?
		WHERE training_day_id = ? AND order_index > ?`,
		formatTime(time.Now()), dayID.Hex(), afterIndex)
	return err
}

func (r *plannedExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `DELETE FROM planned_exercises WHERE id = ?`, id.Hex()))
}

func (r *plannedExerciseRepository) DeleteByDays(ctx context.Context, dayIDs []primitive.ObjectID) error {
	if len(dayIDs) == 0 {
		return nil
	}
	in, args := inClause(dayIDs)
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM planned_exercises WHERE training_day_id IN `+in, args...)
	return err
}

func scanPlannedExercise(row rowScanner) (*domain.PlannedExercise, error) {
	var (
		pe                       domain.PlannedExercise
		id, dayID, exerciseID    string
		intensityType, technique sql.NullString
		intensityValue           sql.NullFloat64
		rest                     sql.NullInt64
		created, updated         string
	)
	if err := row.Scan(&id, &dayID, &exerciseID, &pe.OrderIndex, &pe.Sets, &pe.RepRange, &intensityType,
		&intensityValue, &technique, &rest, &pe.Notes, &pe.SupersetGroupID, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	pe.IntensityValue = ptrFloat(intensityValue)
	pe.RestSeconds = ptrInt(rest)
	var err error
	if pe.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if pe.TrainingDayID, err = parseID(dayID); err != nil {
		return nil, err
	}
	if pe.ExerciseID, err = parseID(exerciseID); err != nil {
		return nil, err
	}
	if pe.IntensityTypeID, err = parseNullID(intensityType); err != nil {
		return nil, err
	}
	if pe.TechniqueTypeID, err = parseNullID(technique); err != nil {
		return nil, err
	}
	if pe.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if pe.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &pe, nil
}
