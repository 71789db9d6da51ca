package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricType enumerates the tracked body metrics.
type MetricType string

const (
	MetricBodyweight MetricType = "bodyweight"
	MetricSteps      MetricType = "steps"
)

func (t MetricType) Valid() bool {
	return t == MetricBodyweight || t == MetricSteps
}

// DefaultRollingWindowDays is the trailing window used by the dashboard.
const DefaultRollingWindowDays = 7

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// DailyMetric is unique per (user, date, metric type).
type DailyMetric struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"user_id"`
	Date       time.Time          `bson:"date" json:"date"` // UTC midnight
	MetricType MetricType         `bson:"metricType" json:"metric_type"`
	Value      float64            `bson:"value" json:"value"`
	Unit       string             `bson:"unit" json:"unit"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updated_at"`
}

// RollingPoint is one entry of a rolling-average series.
type RollingPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	RollingAvg float64 `json:"rolling_avg"`
}

// TruncateToDate drops the clock part, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RollingAverage computes, for each metric in chronological order, the mean of its value and
// up to windowDays-1 preceding points. The window is left-truncated near the start of the
// series, never padded. Values and averages are rounded to 2 decimals.
func RollingAverage(metrics []DailyMetric, windowDays int) []RollingPoint {
	if windowDays < 1 {
		windowDays = DefaultRollingWindowDays
	}
	points := make([]RollingPoint, 0, len(metrics))
	for i, m := range metrics {
		start := i - (windowDays - 1)
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, w := range metrics[start : i+1] {
			sum += w.Value
		}
		points = append(points, RollingPoint{
			Date:       m.Date.Format(DateLayout),
			Value:      Round2(m.Value),
			RollingAvg: Round2(sum / float64(i+1-start)),
		})
	}
	return points
}
