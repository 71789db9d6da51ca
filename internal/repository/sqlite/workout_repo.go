package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const workoutColumns = `id, user_id, training_day_id, type, started_at, completed_at, duration_seconds, notes,
	session_rpe, mood, created_at, updated_at`

type workoutRepository struct {
	*DB
}

// NewWorkoutRepository creates a workout repository backed by SQLite.
func NewWorkoutRepository(db *DB) repository.WorkoutRepository {
	return &workoutRepository{DB: db}
}

func (r *workoutRepository) Create(ctx context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	if w.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("workout user ID is required")
	}
	w.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.Hex(), w.UserID.Hex(), nullID(w.TrainingDayID), string(w.Type), formatTime(w.StartedAt),
		nullTime(w.CompletedAt), nullInt(w.DurationSeconds), w.Notes, nullFloat(w.SessionRPE), w.Mood,
		formatTime(now), formatTime(now))
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return w.ID, nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id.Hex())
	return scanWorkout(row)
}

func (r *workoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT `+workoutColumns+` FROM workouts WHERE user_id = ? ORDER BY started_at DESC`, userID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *workoutRepository) Update(ctx context.Context, w *domain.Workout) error {
	w.UpdatedAt = time.Now().UTC()
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE workouts SET completed_at = ?, duration_seconds = ?, notes = ?, session_rpe = ?, mood = ?, updated_at = ?
		WHERE id = ?`,
		nullTime(w.CompletedAt), nullInt(w.DurationSeconds), w.Notes, nullFloat(w.SessionRPE), w.Mood,
		formatTime(w.UpdatedAt), w.ID.Hex()))
}

func (r *workoutRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM workouts WHERE user_id = ?`, userID.Hex())
	return err
}

func scanWorkout(row rowScanner) (*domain.Workout, error) {
	var (
		w                        domain.Workout
		id, userID, wtype, start string
		dayID, completed         sql.NullString
		duration                 sql.NullInt64
		rpe                      sql.NullFloat64
		created, updated         string
	)
	if err := row.Scan(&id, &userID, &dayID, &wtype, &start, &completed, &duration, &w.Notes, &rpe, &w.Mood,
		&created, &updated); err != nil {
		return nil, mapError(err)
	}
	w.Type = domain.WorkoutType(wtype)
	w.DurationSeconds = ptrInt(duration)
	w.SessionRPE = ptrFloat(rpe)
	var err error
	if w.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if w.UserID, err = parseID(userID); err != nil {
		return nil, err
	}
	if w.TrainingDayID, err = parseNullID(dayID); err != nil {
		return nil, err
	}
	if w.StartedAt, err = parseTime(start); err != nil {
		return nil, err
	}
	if w.CompletedAt, err = parseNullTime(completed); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &w, nil
}

// --- Performed sets ---

const performedSetColumns = `id, workout_id, user_id, exercise_id, planned_exercise_id, set_number, reps, weight,
	weight_unit, rpe, rir, set_type_id, notes, superset_group_id, rest_taken_seconds, is_warmup, is_failure,
	performed_at`

type performedSetRepository struct {
	*DB
}

// NewPerformedSetRepository creates a performed-set repository backed by SQLite.
func NewPerformedSetRepository(db *DB) repository.PerformedSetRepository {
	return &performedSetRepository{DB: db}
}

func (r *performedSetRepository) Create(ctx context.Context, s *domain.PerformedSet) (primitive.ObjectID, error) {
	s.ID = primitive.NewObjectID()
	if s.PerformedAt.IsZero() {
		s.PerformedAt = time.Now().UTC()
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO performed_sets (`+performedSetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.Hex(), s.WorkoutID.Hex(), s.UserID.Hex(), s.ExerciseID.Hex(), nullID(s.PlannedExerciseID),
		s.SetNumber, s.Reps, s.Weight, s.WeightUnit, nullFloat(s.RPE), nullInt(s.RIR), nullID(s.SetTypeID),
		s.Notes, s.SupersetGroupID, nullInt(s.RestTakenSeconds), s.IsWarmup, s.IsFailure,
		formatTime(s.PerformedAt))
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return s.ID, nil
}

func (r *performedSetRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.list(ctx, `SELECT `+performedSetColumns+` FROM performed_sets
		WHERE workout_id = ? ORDER BY set_number, performed_at`, workoutID.Hex())
}

func (r *performedSetRepository) ListByExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.list(ctx, `SELECT `+performedSetColumns+` FROM performed_sets
		WHERE user_id = ? AND exercise_id = ? ORDER BY performed_at`, userID.Hex(), exerciseID.Hex())
}

func (r *performedSetRepository) ListByPlannedExercise(ctx context.Context, plannedExerciseID primitive.ObjectID) ([]domain.PerformedSet, error) {
	return r.list(ctx, `SELECT `+performedSetColumns+` FROM performed_sets
		WHERE planned_exercise_id = ? ORDER BY performed_at`, plannedExerciseID.Hex())
}

func (r *performedSetRepository) CountByExercise(ctx context.Context, exerciseID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM performed_sets WHERE exercise_id = ?`, exerciseID.Hex()).Scan(&n)
	return n, err
}

func (r *performedSetRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM performed_sets WHERE user_id = ?`, userID.Hex())
	return err
}

func (r *performedSetRepository) list(ctx context.Context, query string, args ...any) ([]domain.PerformedSet, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PerformedSet
	for rows.Next() {
		s, err := scanPerformedSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanPerformedSet(row rowScanner) (*domain.PerformedSet, error) {
	var (
		s                                 domain.PerformedSet
		id, workoutID, userID, exerciseID string
		planned, setType                  sql.NullString
		rpe                               sql.NullFloat64
		rir, rest                         sql.NullInt64
		performed                         string
	)
	if err := row.Scan(&id, &workoutID, &userID, &exerciseID, &planned, &s.SetNumber, &s.Reps, &s.Weight,
		&s.WeightUnit, &rpe, &rir, &setType, &s.Notes, &s.SupersetGroupID, &rest, &s.IsWarmup, &s.IsFailure,
		&performed); err != nil {
		return nil, mapError(err)
	}
	s.RPE = ptrFloat(rpe)
	s.RIR = ptrInt(rir)
	s.RestTakenSeconds = ptrInt(rest)
	var err error
	if s.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if s.WorkoutID, err = parseID(workoutID); err != nil {
		return nil, err
	}
	if s.UserID, err = parseID(userID); err != nil {
		return nil, err
	}
	if s.ExerciseID, err = parseID(exerciseID); err != nil {
		return nil, err
	}
	if s.PlannedExerciseID, err = parseNullID(planned); err != nil {
		return nil, err
	}
	if s.SetTypeID, err = parseNullID(setType); err != nil {
		return nil, err
	}
	if s.PerformedAt, err = parseTime(performed); err != nil {
		return nil, err
	}
	return &s, nil
}
