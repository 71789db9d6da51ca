package sqlite

import (
	"context"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dailyMetricColumns = `id, user_id, date, metric_type, value, unit, notes, created_at, updated_at`

type dailyMetricRepository struct {
	*DB
}

// NewDailyMetricRepository creates a daily-metric repository backed by SQLite.
func NewDailyMetricRepository(db *DB) repository.DailyMetricRepository {
	return &dailyMetricRepository{DB: db}
}

func (r *dailyMetricRepository) Upsert(ctx context.Context, m *domain.DailyMetric) error {
	now := time.Now().UTC()
	m.Date = domain.TruncateToDate(m.Date)
	var id, created string
	err := r.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO daily_metrics (`+dailyMetricColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date, metric_type) DO UPDATE SET
			value = excluded.value, unit = excluded.unit, notes = excluded.notes, updated_at = excluded.updated_at
		RETURNING id, created_at`,
		primitive.NewObjectID().Hex(), m.UserID.Hex(), formatDate(m.Date), string(m.MetricType), m.Value, m.Unit,
		m.Notes, formatTime(now), formatTime(now)).Scan(&id, &created)
	if err != nil {
		return mapError(err)
	}
	if m.ID, err = parseID(id); err != nil {
		return err
	}
	if m.CreatedAt, err = parseTime(created); err != nil {
		return err
	}
	m.UpdatedAt = now
	return nil
}

func (r *dailyMetricRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyMetric, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `SELECT `+dailyMetricColumns+` FROM daily_metrics WHERE id = ?`, id.Hex())
	return scanDailyMetric(row)
}

func (r *dailyMetricRepository) Update(ctx context.Context, m *domain.DailyMetric) error {
	m.UpdatedAt = time.Now().UTC()
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `
		UPDATE daily_metrics SET value = ?, unit = ?, notes = ?, updated_at = ? WHERE id = ?`,
		m.Value, m.Unit, m.Notes, formatTime(m.UpdatedAt), m.ID.Hex()))
}

func (r *dailyMetricRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `DELETE FROM daily_metrics WHERE id = ?`, id.Hex()))
}

func (r *dailyMetricRepository) ListRange(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType, from, to time.Time) ([]domain.DailyMetric, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `
		SELECT `+dailyMetricColumns+` FROM daily_metrics
		WHERE user_id = ? AND metric_type = ? AND date BETWEEN ? AND ?
		ORDER BY date`,
		userID.Hex(), string(metricType), formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailyMetric
	for rows.Next() {
		m, err := scanDailyMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *dailyMetricRepository) Latest(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType) (*domain.DailyMetric, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `
		SELECT `+dailyMetricColumns+` FROM daily_metrics
		WHERE user_id = ? AND metric_type = ? ORDER BY date DESC LIMIT 1`,
		userID.Hex(), string(metricType))
	return scanDailyMetric(row)
}

func (r *dailyMetricRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM daily_metrics WHERE user_id = ?`, userID.Hex())
	return err
}

func scanDailyMetric(row rowScanner) (*domain.DailyMetric, error) {
	var (
		m                       domain.DailyMetric
		id, userID, date, mtype string
		created, updated        string
	)
	if err := row.Scan(&id, &userID, &date, &mtype, &m.Value, &m.Unit, &m.Notes, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	m.MetricType = domain.MetricType(mtype)
	var err error
	if m.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if m.UserID, err = parseID(userID); err != nil {
		return nil, err
	}
	if m.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &m, nil
}
