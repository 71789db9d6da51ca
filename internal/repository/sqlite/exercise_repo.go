package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exerciseColumns = `e.id, e.user_id, e.name, e.primary_muscle_group_id, e.equipment_id, e.is_compound,
	e.is_active, e.notes, e.video_key, e.created_at, e.updated_at`

type exerciseRepository struct {
	*DB
}

// NewExerciseRepository creates an exercise repository backed by SQLite.
// Muscle-group links live in the exercise_muscle_groups join table.
func NewExerciseRepository(db *DB) repository.ExerciseRepository {
	return &exerciseRepository{DB: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("exercise name and user ID are required")
	}
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.conn(ctx).ExecContext(ctx, `
			INSERT INTO exercises (id, user_id, name, primary_muscle_group_id, equipment_id, is_compound,
				is_active, notes, video_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			exercise.ID.Hex(), exercise.UserID.Hex(), exercise.Name, exercise.PrimaryMuscleGroupID.Hex(),
			nullID(exercise.EquipmentID), exercise.IsCompound, exercise.IsActive, exercise.Notes,
			exercise.VideoKey, formatTime(now), formatTime(now))
		if err != nil {
			return mapError(err)
		}
		return r.insertLinks(ctx, exercise)
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return exercise.ID, nil
}

func (r *exerciseRepository) insertLinks(ctx context.Context, exercise *domain.Exercise) error {
	for _, l := range exercise.MuscleGroups {
		if _, err := r.conn(ctx).ExecContext(ctx, `
			INSERT INTO exercise_muscle_groups (exercise_id, muscle_group_id, involvement) VALUES (?, ?, ?)`,
			exercise.ID.Hex(), l.MuscleGroupID.Hex(), string(l.Involvement)); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises e WHERE e.id = ?`, id.Hex())
	exercise, err := scanExercise(row)
	if err != nil {
		return nil, err
	}
	if err := r.attachLinks(ctx, []*domain.Exercise{exercise}); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (r *exerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	return r.query(ctx, `SELECT `+exerciseColumns+` FROM exercises e WHERE e.id IN `+in+` ORDER BY e.name`, args...)
}

func (r *exerciseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var (
		where = []string{"e.user_id = ?"}
		args  = []any{userID.Hex()}
	)
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, `e.name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(s)+"%")
	}
	if filter.MuscleGroupID != nil {
		where = append(where, `(e.primary_muscle_group_id = ? OR EXISTS (
			SELECT 1 FROM exercise_muscle_groups m WHERE m.exercise_id = e.id AND m.muscle_group_id = ?))`)
		args = append(args, filter.MuscleGroupID.Hex(), filter.MuscleGroupID.Hex())
	}
	if filter.BodyweightOnly {
		where = append(where, "e.equipment_id IS NULL")
	} else if filter.EquipmentID != nil {
		where = append(where, "e.equipment_id = ?")
		args = append(args, filter.EquipmentID.Hex())
	}
	if filter.ActiveOnly {
		where = append(where, "e.is_active = 1")
	}

	order := "e.name COLLATE NOCASE"
	if filter.SortBy == "created_at" {
		order = "e.created_at"
	}
	if filter.Descending {
		order += " DESC"
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises e WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	return r.query(ctx, query, args...)
}

func (r *exerciseRepository) query(ctx context.Context, query string, args ...any) ([]domain.Exercise, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var list []*domain.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, exercise)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before the next query, the pool holds a single connection.
	rows.Close()

	if err := r.attachLinks(ctx, list); err != nil {
		return nil, err
	}
	out := make([]domain.Exercise, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out, nil
}

// attachLinks loads the muscle-group join rows for the given exercises, primary link first.
func (r *exerciseRepository) attachLinks(ctx context.Context, exercises []*domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	byID := make(map[primitive.ObjectID]*domain.Exercise, len(exercises))
	ids := make([]primitive.ObjectID, 0, len(exercises))
	for _, e := range exercises {
		e.MuscleGroups = []domain.ExerciseMuscleGroup{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	in, args := inClause(ids)
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT exercise_id, muscle_group_id, involvement FROM exercise_muscle_groups
		WHERE exercise_id IN `+in+`
		ORDER BY CASE involvement WHEN 'primary' THEN 0 ELSE 1 END, rowid`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var exID, mgID, involvement string
		if err := rows.Scan(&exID, &mgID, &involvement); err != nil {
			return err
		}
		eid, err := parseID(exID)
		if err != nil {
			return err
		}
		mid, err := parseID(mgID)
		if err != nil {
			return err
		}
		if e, ok := byID[eid]; ok {
			e.MuscleGroups = append(e.MuscleGroups, domain.ExerciseMuscleGroup{
				MuscleGroupID: mid,
				Involvement:   domain.Involvement(involvement),
			})
		}
	}
	return rows.Err()
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID.IsZero() {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}
	exercise.UpdatedAt = time.Now().UTC()

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		// The owner is never rewritten here.
		err := affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
			UPDATE exercises SET name = ?, primary_muscle_group_id = ?, equipment_id = ?, is_compound = ?,
				is_active = ?, notes = ?, video_key = ?, updated_at = ?
			WHERE id = ?`,
			exercise.Name, exercise.PrimaryMuscleGroupID.Hex(), nullID(exercise.EquipmentID),
			exercise.IsCompound, exercise.IsActive, exercise.Notes, exercise.VideoKey,
			formatTime(exercise.UpdatedAt), exercise.ID.Hex()))
		if err != nil {
			return err
		}
		if _, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM exercise_muscle_groups WHERE exercise_id = ?`, exercise.ID.Hex()); err != nil {
			return err
		}
		return r.insertLinks(ctx, exercise)
	})
}

func (r *exerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	// Links go with the row through ON DELETE CASCADE.
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx,
		`DELETE FROM exercises WHERE id = ? AND user_id = ?`, id.Hex(), userID.Hex()))
}

func (r *exerciseRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM exercises WHERE user_id = ?`, userID.Hex())
	return err
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		e                   domain.Exercise
		id, userID, primary string
		equipment           sql.NullString
		created, updated    string
	)
	if err := row.Scan(&id, &userID, &e.Name, &primary, &equipment, &e.IsCompound, &e.IsActive,
		&e.Notes, &e.VideoKey, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	var err error
	if e.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if e.UserID, err = parseID(userID); err != nil {
		return nil, err
	}
	if e.PrimaryMuscleGroupID, err = parseID(primary); err != nil {
		return nil, err
	}
	if e.EquipmentID, err = parseNullID(equipment); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &e, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
