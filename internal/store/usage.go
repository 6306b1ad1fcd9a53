package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DayPeriod returns the UTC day bounds containing t, the period used for
// daily quotas.
func DayPeriod(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// IncrementUsage bumps the (user, metric type, period) counter by one and
// enforces the ceiling. The unique triple constraint turns the concurrent
// first-insert race into an upsert; exceeding the limit rolls the increment
// back and returns ErrQuotaExceeded. Returns the counter value after the
// increment.
func (s *Store) IncrementUsage(ctx context.Context, userID, metricType string, periodStart, periodEnd time.Time, limit int) (int, error) {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	var value int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		metric := model.UsageMetric{
			UserID:      userID,
			MetricType:  metricType,
			MetricValue: 1,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "metric_type"},
				{Name: "period_start"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"metric_value": gorm.Expr("usage_metrics.metric_value + 1"),
			}),
		}).Create(&metric).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.UsageMetric{}).
			Where("user_id = ? AND metric_type = ? AND period_start = ?", userID, metricType, periodStart).
			Select("metric_value").
			Scan(&value).Error; err != nil {
			return err
		}

		if limit > 0 && value > limit {
			return ErrQuotaExceeded
		}
		return nil
	})
	if err != nil {
		if err == ErrQuotaExceeded {
			prometheus.QuotaExceededCounter.WithLabelValues(metricType).Inc()
			return 0, err
		}
		return 0, translate(err)
	}
	return value, nil
}

// CurrentUsage reads the counter for the given triple; zero when no row
func (s *Store) CurrentUsage(ctx context.Context, userID, metricType string, periodStart time.Time) (int, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var metric model.UsageMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND metric_type = ? AND period_start = ?", userID, metricType, periodStart).
		First(&metric).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return 0, nil
		}
		return 0, translate(err)
	}
	return metric.MetricValue, nil
}
