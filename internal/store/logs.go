package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"
)

// RecordAudit appends an audit log row. Rows are insert-only; nothing in the
// service updates them afterwards.
func (s *Store) RecordAudit(ctx context.Context, entry *model.AuditLog) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

// RecordSystemLog appends an operational event row
func (s *Store) RecordSystemLog(ctx context.Context, entry *model.SystemLog) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if !entry.Level.Valid() {
		return ErrInvalidValue
	}
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}
