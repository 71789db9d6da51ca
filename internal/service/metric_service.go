package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var defaultUnits = map[domain.MetricType]string{
	domain.MetricBodyweight: "kg",
	domain.MetricSteps:      "steps",
}

const maxUnitLength = 20

type RecordMetricInput struct {
	Date       time.Time
	MetricType domain.MetricType
	Value      float64
	Unit       string // Defaults per metric type
	Notes      string
}

type UpdateMetricInput struct {
	Value *float64
	Unit  *string
	Notes *string
}

// MetricSeries is the dashboard block of one metric type.
type MetricSeries struct {
	Data   []domain.RollingPoint `json:"data"`
	Latest *domain.DailyMetric   `json:"latest"`
}

type Dashboard struct {
	Bodyweight MetricSeries `json:"bodyweight"`
	Steps      MetricSeries `json:"steps"`
}

// --- Service Interface ---
type MetricService interface {
	// RecordMetric upserts on (user, date, type): a second write for the same day overwrites.
	RecordMetric(ctx context.Context, userID primitive.ObjectID, in RecordMetricInput) (*domain.DailyMetric, error)
	UpdateMetric(ctx context.Context, userID, metricID primitive.ObjectID, in UpdateMetricInput) (*domain.DailyMetric, error)
	DeleteMetric(ctx context.Context, userID, metricID primitive.ObjectID) error
	Latest(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType) (*domain.DailyMetric, error)
	// RollingAverage covers the windowDays calendar days ending at ref.
	RollingAverage(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType, ref time.Time, windowDays int) ([]domain.RollingPoint, error)
	Dashboard(ctx context.Context, userID primitive.ObjectID, ref time.Time) (*Dashboard, error)
}

type metricService struct {
	metricRepo repository.DailyMetricRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewMetricService creates a new instance of metricService.
func NewMetricService(metricRepo repository.DailyMetricRepository, log *logger.Logger) MetricService {
	return &metricService{
		metricRepo: metricRepo,
		log:        log.With("service", "MetricService"),
		now:        time.Now,
	}
}

func validateValue(v float64) error {
	if v < 0 {
		return invalid("value", "must not be negative")
	}
	return nil
}

func validateUnit(unit string) error {
	if len(unit) > maxUnitLength {
		return invalid("unit", "must be at most %d characters", maxUnitLength)
	}
	return nil
}

func (s *metricService) RecordMetric(ctx context.Context, userID primitive.ObjectID, in RecordMetricInput) (*domain.DailyMetric, error) {
	// 1. Validate Input
	if !in.MetricType.Valid() {
		return nil, invalid("metric_type", "must be bodyweight or steps")
	}
	if in.Date.IsZero() {
		return nil, invalid("date", "is required")
	}
	date := domain.TruncateToDate(in.Date)
	if date.After(domain.TruncateToDate(s.now())) {
		return nil, invalid("date", "cannot be in the future")
	}
	if err := validateValue(in.Value); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnits[in.MetricType]
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	// 2. Upsert on the natural key
	metric := &domain.DailyMetric{
		UserID:     userID,
		Date:       date,
		MetricType: in.MetricType,
		Value:      in.Value,
		Unit:       unit,
		Notes:      in.Notes,
	}
	if err := s.metricRepo.Upsert(ctx, metric); err != nil {
		return nil, storageErr("record metric", err)
	}
	return metric, nil
}

func (s *metricService) ownedMetric(ctx context.Context, userID, metricID primitive.ObjectID) (*domain.DailyMetric, error) {
	metric, err := s.metricRepo.GetByID(ctx, metricID)
	if err != nil {
		return nil, lookupErr("metric", err)
	}
	if metric.UserID != userID {
		return nil, ErrAccessDenied
	}
	return metric, nil
}

func (s *metricService) UpdateMetric(ctx context.Context, userID, metricID primitive.ObjectID, in UpdateMetricInput) (*domain.DailyMetric, error) {
	metric, err := s.ownedMetric(ctx, userID, metricID)
	if err != nil {
		return nil, err
	}
	if in.Value != nil {
		if err := validateValue(*in.Value); err != nil {
			return nil, err
		}
		metric.Value = *in.Value
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			unit = defaultUnits[metric.MetricType]
		}
		if err := validateUnit(unit); err != nil {
			return nil, err
		}
		metric.Unit = unit
	}
	if in.Notes != nil {
		metric.Notes = *in.Notes
	}
	if err := s.metricRepo.Update(ctx, metric); err != nil {
		return nil, storageErr("update metric", err)
	}
	return metric, nil
}

func (s *metricService) DeleteMetric(ctx context.Context, userID, metricID primitive.ObjectID) error {
	if _, err := s.ownedMetric(ctx, userID, metricID); err != nil {
		return err
	}
	if err := s.metricRepo.Delete(ctx, metricID); err != nil {
		return storageErr("delete metric", err)
	}
	return nil
}

func (s *metricService) Latest(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType) (*domain.DailyMetric, error) {
	if !metricType.Valid() {
		return nil, invalid("metric_type", "must be bodyweight or steps")
	}
	metric, err := s.metricRepo.Latest(ctx, userID, metricType)
	if err != nil {
		return nil, lookupErr("metric", err)
	}
	return metric, nil
}

func (s *metricService) RollingAverage(ctx context.Context, userID primitive.ObjectID, metricType domain.MetricType, ref time.Time, windowDays int) ([]domain.RollingPoint, error) {
	if !metricType.Valid() {
		return nil, invalid("metric_type", "must be bodyweight or steps")
	}
	if windowDays < 1 {
		windowDays = domain.DefaultRollingWindowDays
	}
	to := domain.TruncateToDate(ref)
	from := to.AddDate(0, 0, -(windowDays - 1))

	metrics, err := s.metricRepo.ListRange(ctx, userID, metricType, from, to)
	if err != nil {
		return nil, storageErr("list metrics", err)
	}
	return domain.RollingAverage(metrics, windowDays), nil
}

// Dashboard loads the rolling series and latest value of every metric type concurrently.
func (s *metricService) Dashboard(ctx context.Context, userID primitive.ObjectID, ref time.Time) (*Dashboard, error) {
	var dashboard Dashboard
	g, gctx := errgroup.WithContext(ctx)

	load := func(metricType domain.MetricType, out *MetricSeries) {
		g.Go(func() error {
			data, err := s.RollingAverage(gctx, userID, metricType, ref, domain.DefaultRollingWindowDays)
			if err != nil {
				return err
			}
			out.Data = data
			return nil
		})
		g.Go(func() error {
			latest, err := s.Latest(gctx, userID, metricType)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			out.Latest = latest
			return nil
		})
	}
	load(domain.MetricBodyweight, &dashboard.Bodyweight)
	load(domain.MetricSteps, &dashboard.Steps)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
