package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"

	"gorm.io/gorm"
)

// CreateTemplate inserts a new AI template
func (s *Store) CreateTemplate(ctx context.Context, template *model.AITemplate) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if !template.TemplateType.Valid() {
		return ErrInvalidValue
	}
	return translate(s.db.WithContext(ctx).Create(template).Error)
}

// FindTemplateByID returns one template the user owns or may use publicly
func (s *Store) FindTemplateByID(ctx context.Context, userID, templateID string) (*model.AITemplate, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var template model.AITemplate
	err := s.db.WithContext(ctx).
		Where("id = ? AND (user_id = ? OR is_public = ?)", templateID, userID, true).
		First(&template).Error
	if err != nil {
		return nil, translate(err)
	}
	return &template, nil
}

// ListTemplates returns the user's templates, optionally filtered by type
func (s *Store) ListTemplates(ctx context.Context, userID string, templateType *model.TemplateType) ([]model.AITemplate, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if templateType != nil {
		if !templateType.Valid() {
			return nil, ErrInvalidValue
		}
		query = query.Where("template_type = ?", *templateType)
	}

	var templates []model.AITemplate
	if err := query.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, translate(err)
	}
	return templates, nil
}

// RecordGeneration persists one provider invocation and, when a template was
// used, bumps its usage counter in the same transaction.
func (s *Store) RecordGeneration(ctx context.Context, generation *model.AIGeneration) error {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(generation).Error; err != nil {
			return err
		}
		if generation.TemplateID != nil {
			if err := tx.Model(&model.AITemplate{}).
				Where("id = ?", *generation.TemplateID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// ListGenerations returns the user's generation history, newest first
func (s *Store) ListGenerations(ctx context.Context, userID string, limit int) ([]model.AIGeneration, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var generations []model.AIGeneration
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&generations).Error
	if err != nil {
		return nil, translate(err)
	}
	return generations, nil
}
