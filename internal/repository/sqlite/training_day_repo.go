package sqlite

import (
	"context"
	"database/sql"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const trainingDayColumns = `id, mesocycle_week_id, day_number, name, order_index, notes, day_of_week,
	is_second_session, parent_training_day_id, created_at, updated_at`

type trainingDayRepository struct {
	*DB
}

// NewTrainingDayRepository creates a training-day repository backed by SQLite.
func NewTrainingDayRepository(db *DB) repository.TrainingDayRepository {
	return &trainingDayRepository{DB: db}
}

func (r *trainingDayRepository) Create(ctx context.Context, day *domain.TrainingDay) (primitive.ObjectID, error) {
	if err := r.CreateMany(ctx, []*domain.TrainingDay{day}); err != nil {
		return primitive.NilObjectID, err
	}
	return day.ID, nil
}

func (r *trainingDayRepository) CreateMany(ctx context.Context, days []*domain.TrainingDay) error {
	now := time.Now().UTC()
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, d := range days {
			d.ID = primitive.NewObjectID()
			d.CreatedAt = now
			d.UpdatedAt = now
			if _, err := r.conn(ctx).ExecContext(ctx, `
				INSERT INTO training_days (`+trainingDayColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				d.ID.Hex(), d.MesocycleWeekID.Hex(), d.DayNumber, d.Name, d.OrderIndex, d.Notes, d.DayOfWeek,
				d.IsSecondSession, nullID(d.ParentTrainingDayID), formatTime(now), formatTime(now)); err != nil {
				return mapError(err)
			}
			if err := r.writeMuscleGroups(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *trainingDayRepository) writeMuscleGroups(ctx context.Context, d *domain.TrainingDay) error {
	for _, mg := range d.MuscleGroups {
		if _, err := r.conn(ctx).ExecContext(ctx, `
			INSERT INTO training_day_muscle_groups (training_day_id, muscle_group_id, order_index) VALUES (?, ?, ?)`,
			d.ID.Hex(), mg.MuscleGroupID.Hex(), mg.OrderIndex); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *trainingDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDay, error) {
	return r.getOne(ctx, `SELECT `+trainingDayColumns+` FROM training_days WHERE id = ?`, id.Hex())
}

func (r *trainingDayRepository) GetSecondSession(ctx context.Context, parentID primitive.ObjectID) (*domain.TrainingDay, error) {
	return r.getOne(ctx, `SELECT `+trainingDayColumns+` FROM training_days WHERE parent_training_day_id = ?`, parentID.Hex())
}

func (r *trainingDayRepository) FindByShape(ctx context.Context, weekID primitive.ObjectID, dayNumber int, isSecondSession bool) (*domain.TrainingDay, error) {
	return r.getOne(ctx, `
		SELECT `+trainingDayColumns+` FROM training_days
		WHERE mesocycle_week_id = ? AND day_number = ? AND is_second_session = ?
		ORDER BY order_index LIMIT 1`,
		weekID.Hex(), dayNumber, isSecondSession)
}

func (r *trainingDayRepository) getOne(ctx context.Context, query string, args ...any) (*domain.TrainingDay, error) {
	day, err := scanTrainingDay(r.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err := r.attachMuscleGroups(ctx, []*domain.TrainingDay{day}); err != nil {
		return nil, err
	}
	return day, nil
}

func (r *trainingDayRepository) ListByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.TrainingDay, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(weekIDs)
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT `+trainingDayColumns+` FROM training_days
		WHERE mesocycle_week_id IN `+in+` ORDER BY order_index, created_at`, args...)
	if err != nil {
		return nil, err
	}
	var list []*domain.TrainingDay
	for rows.Next() {
		d, err := scanTrainingDay(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.attachMuscleGroups(ctx, list); err != nil {
		return nil, err
	}
	out := make([]domain.TrainingDay, len(list))
	for i, d := range list {
		out[i] = *d
	}
	return out, nil
}

func (r *trainingDayRepository) attachMuscleGroups(ctx context.Context, days []*domain.TrainingDay) error {
	if len(days) == 0 {
		return nil
	}
	byID := make(map[primitive.ObjectID]*domain.TrainingDay, len(days))
	ids := make([]primitive.ObjectID, 0, len(days))
	for _, d := range days {
		d.MuscleGroups = []domain.TrainingDayMuscleGroup{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	in, args := inClause(ids)
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT training_day_id, muscle_group_id, order_index FROM training_day_muscle_groups
		WHERE training_day_id IN `+in+` ORDER BY order_index`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dayID, mgID string
			order       int
		)
		if err := rows.Scan(&dayID, &mgID, &order); err != nil {
			return err
		}
		did, err := parseID(dayID)
		if err != nil {
			return err
		}
		mid, err := parseID(mgID)
		if err != nil {
			return err
		}
		if d, ok := byID[did]; ok {
			d.MuscleGroups = append(d.MuscleGroups, domain.TrainingDayMuscleGroup{MuscleGroupID: mid, OrderIndex: order})
		}
	}
	return rows.Err()
}

func (r *trainingDayRepository) Update(ctx context.Context, day *domain.TrainingDay) error {
	day.UpdatedAt = time.Now().UTC()
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		err := affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
			UPDATE training_days SET name = ?, notes = ?, day_of_week = ?, updated_at = ? WHERE id = ?`,
			day.Name, day.Notes, day.DayOfWeek, formatTime(day.UpdatedAt), day.ID.Hex()))
		if err != nil {
			return err
		}
		if _, err := r.conn(ctx).ExecContext(ctx,
			`DELETE FROM training_day_muscle_groups WHERE training_day_id = ?`, day.ID.Hex()); err != nil {
			return err
		}
		return r.writeMuscleGroups(ctx, day)
	})
}

func (r *trainingDayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `DELETE FROM training_days WHERE id = ?`, id.Hex()))
}

func (r *trainingDayRepository) DeleteByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) error {
	if len(weekIDs) == 0 {
		return nil
	}
	in, args := inClause(weekIDs)
	// Second sessions first so the self-reference never dangles mid-statement.
	if _, err := r.conn(ctx).ExecContext(ctx,
		`DELETE FROM training_days WHERE is_second_session = 1 AND mesocycle_week_id IN `+in, args...); err != nil {
		return err
	}
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM training_days WHERE mesocycle_week_id IN `+in, args...)
	return err
}

func scanTrainingDay(row rowScanner) (*domain.TrainingDay, error) {
	var (
		d                domain.TrainingDay
		id, weekID       string
		parent           sql.NullString
		created, updated string
	)
	if err := row.Scan(&id, &weekID, &d.DayNumber, &d.Name, &d.OrderIndex, &d.Notes, &d.DayOfWeek,
		&d.IsSecondSession, &parent, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	var err error
	if d.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if d.MesocycleWeekID, err = parseID(weekID); err != nil {
		return nil, err
	}
	if d.ParentTrainingDayID, err = parseNullID(parent); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &d, nil
}
