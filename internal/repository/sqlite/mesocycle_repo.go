package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const mesocycleColumns = `id, user_id, name, description, start_date, duration_weeks, training_days_per_week,
	status, settings, created_at, updated_at`

type mesocycleRepository struct {
	*DB
}

// NewMesocycleRepository creates a mesocycle repository backed by SQLite.
func NewMesocycleRepository(db *DB) repository.MesocycleRepository {
	return &mesocycleRepository{DB: db}
}

func (r *mesocycleRepository) Create(ctx context.Context, m *domain.Mesocycle) (primitive.ObjectID, error) {
	if m.Name == "" || m.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("mesocycle name and user ID are required")
	}
	settings, err := encodeSettings(m.Settings)
	if err != nil {
		return primitive.NilObjectID, err
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err = r.conn(ctx).ExecContext(ctx, `
		INSERT INTO mesocycles (`+mesocycleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID.Hex(), m.UserID.Hex(), m.Name, m.Description, formatDate(m.StartDate), m.DurationWeeks,
		m.TrainingDaysPerWeek, string(m.Status), settings, formatTime(now), formatTime(now))
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return m.ID, nil
}

func (r *mesocycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+mesocycleColumns+` FROM mesocycles WHERE id = ?`, id.Hex())
	return scanMesocycle(row)
}

func (r *mesocycleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT `+mesocycleColumns+` FROM mesocycles WHERE user_id = ? ORDER BY created_at DESC`, userID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Mesocycle
	for rows.Next() {
		m, err := scanMesocycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *mesocycleRepository) Update(ctx context.Context, m *domain.Mesocycle) error {
	settings, err := encodeSettings(m.Settings)
	if err != nil {
		return err
	}
	m.UpdatedAt = time.Now().UTC()
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE mesocycles SET name = ?, description = ?, start_date = ?, status = ?, settings = ?, updated_at = ?
		WHERE id = ?`,
		m.Name, m.Description, formatDate(m.StartDate), string(m.Status), settings,
		formatTime(m.UpdatedAt), m.ID.Hex()))
}

func (r *mesocycleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `DELETE FROM mesocycles WHERE id = ?`, id.Hex()))
}

func scanMesocycle(row rowScanner) (*domain.Mesocycle, error) {
	var (
		m                  domain.Mesocycle
		id, userID, status string
		start, settings    string
		created, updated   string
	)
	if err := row.Scan(&id, &userID, &m.Name, &m.Description, &start, &m.DurationWeeks,
		&m.TrainingDaysPerWeek, &status, &settings, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	m.Status = domain.MesocycleStatus(status)
	var err error
	if m.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if m.UserID, err = parseID(userID); err != nil {
		return nil, err
	}
	if m.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &m.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if m.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeSettings(settings map[string]interface{}) (string, error) {
	if settings == nil {
		return "{}", nil
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(b), nil
}

// --- Weeks ---

const weekColumns = `id, mesocycle_id, week_number, week_type, intensity_modifier, volume_modifier, notes,
	created_at, updated_at`

type weekRepository struct {
	*DB
}

// NewWeekRepository creates a mesocycle-week repository backed by SQLite.
func NewWeekRepository(db *DB) repository.WeekRepository {
	return &weekRepository{DB: db}
}

func (r *weekRepository) CreateMany(ctx context.Context, weeks []*domain.MesocycleWeek) error {
	now := time.Now().UTC()
	for _, w := range weeks {
		w.ID = primitive.NewObjectID()
		w.CreatedAt = now
		w.UpdatedAt = now
		if _, err := r.conn(ctx).ExecContext(ctx, `
			INSERT INTO mesocycle_weeks (`+weekColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID.Hex(), w.MesocycleID.Hex(), w.WeekNumber, string(w.WeekType), w.IntensityModifier,
			w.VolumeModifier, w.Notes, formatTime(now), formatTime(now)); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *weekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleWeek, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+weekColumns+` FROM mesocycle_weeks WHERE id = ?`, id.Hex())
	return scanWeek(row)
}

func (r *weekRepository) GetByNumber(ctx context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.MesocycleWeek, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `
		SELECT `+weekColumns+` FROM mesocycle_weeks WHERE mesocycle_id = ? AND week_number = ?`,
		mesocycleID.Hex(), weekNumber)
	return scanWeek(row)
}

func (r *weekRepository) ListByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) ([]domain.MesocycleWeek, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT `+weekColumns+` FROM mesocycle_weeks WHERE mesocycle_id = ? ORDER BY week_number`, mesocycleID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MesocycleWeek
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *weekRepository) Update(ctx context.Context, w *domain.MesocycleWeek) error {
	w.UpdatedAt = time.Now().UTC()
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE mesocycle_weeks SET week_type = ?, intensity_modifier = ?, volume_modifier = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		string(w.WeekType), w.IntensityModifier, w.VolumeModifier, w.Notes, formatTime(w.UpdatedAt), w.ID.Hex()))
}

func (r *weekRepository) DeleteByMesocycle(ctx context.Context, mesocycleID primitive.ObjectID) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM mesocycle_weeks WHERE mesocycle_id = ?`, mesocycleID.Hex())
	return err
}

func scanWeek(row rowScanner) (*domain.MesocycleWeek, error) {
	var (
		w                      domain.MesocycleWeek
		id, mesocycleID, wtype string
		created, updated       string
	)
	if err := row.Scan(&id, &mesocycleID, &w.WeekNumber, &wtype, &w.IntensityModifier, &w.VolumeModifier,
		&w.Notes, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	w.WeekType = domain.WeekType(wtype)
	var err error
	if w.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if w.MesocycleID, err = parseID(mesocycleID); err != nil {
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
