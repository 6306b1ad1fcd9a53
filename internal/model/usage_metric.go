package model

import (
	"time"

	"gorm.io/gorm"
)

// UsageMetric is a per-user counter scoped to one metric type and one period.
// The composite unique index guarantees at most one row per
// (user, metric type, period start); quota enforcement depends on it.
type UsageMetric struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_usage_metrics_user_metric_period"`
	MetricType  string    `json:"metric_type" gorm:"type:varchar(50);not null;uniqueIndex:uniq_usage_metrics_user_metric_period"`
	MetricValue int       `json:"metric_value" gorm:"not null;default:0"`
	PeriodStart time.Time `json:"period_start" gorm:"not null;uniqueIndex:uniq_usage_metrics_user_metric_period"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// Metric types tracked for quota enforcement
const (
	MetricEmailSends    = "email_sends"
	MetricAIGenerations = "ai_generations"
)

// BeforeCreate hook assigns the surrogate key
func (m *UsageMetric) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}
