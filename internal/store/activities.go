package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"

	"gorm.io/gorm"
)

// CreateActivity inserts a sales activity together with its channel detail
// row in one transaction. The FKs require a live campaign and company; a
// dangling reference fails the whole insert with ErrForeignKey.
func (s *Store) CreateActivity(ctx context.Context, activity *model.SalesActivity, email *model.EmailActivity, form *model.FormActivity) error {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	if !activity.ActivityType.Valid() {
		return ErrInvalidValue
	}
	if activity.Status != "" && !activity.Status.Valid() {
		return ErrInvalidValue
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return err
		}
		if email != nil {
			email.ActivityID = activity.ID
			if err := tx.Create(email).Error; err != nil {
				return err
			}
		}
		if form != nil {
			form.ActivityID = activity.ID
			if err := tx.Create(form).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// ListActivities returns the activities of one campaign the user owns
func (s *Store) ListActivities(ctx context.Context, userID, campaignID string) ([]model.SalesActivity, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	// Scope through the campaign so one tenant cannot read another's rows
	if _, err := s.FindCampaignByID(ctx, userID, campaignID); err != nil {
		return nil, err
	}

	var activities []model.SalesActivity
	err := s.db.WithContext(ctx).
		Preload("EmailDetail").
		Preload("FormDetail").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, translate(err)
	}
	return activities, nil
}

// FindActivityByID returns one activity, scoped to the owning user through
// its campaign.
func (s *Store) FindActivityByID(ctx context.Context, userID, activityID string) (*model.SalesActivity, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var activity model.SalesActivity
	err := s.db.WithContext(ctx).
		Preload("EmailDetail").
		Preload("FormDetail").
		Joins("JOIN campaigns ON campaigns.id = sales_activities.campaign_id").
		Where("sales_activities.id = ? AND campaigns.user_id = ?", activityID, userID).
		First(&activity).Error
	if err != nil {
		return nil, translate(err)
	}
	return &activity, nil
}

// UpdateActivityStatus advances a sales activity along the delivery
// progression. Skipping steps is rejected with ErrInvalidTransition.
// Entering sent stamps executed_at (and the company's last-contacted mark);
// replied stamps responded_at.
func (s *Store) UpdateActivityStatus(ctx context.Context, activityID string, next model.ActivityStatus) (*model.SalesActivity, error) {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	if !next.Valid() {
		return nil, ErrInvalidValue
	}

	var activity model.SalesActivity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", activityID).First(&activity).Error; err != nil {
			return err
		}
		if !activity.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		now := time.Now().UTC()
		fields := map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}
		if next == model.ActivityStatusSent {
			fields["executed_at"] = now
		}
		if next == model.ActivityStatusReplied {
			fields["responded_at"] = now
		}

		if err := tx.Model(&model.SalesActivity{}).
			Where("id = ?", activityID).
			Updates(fields).Error; err != nil {
			return err
		}

		if next == model.ActivityStatusSent {
			if err := tx.Model(&model.Company{}).
				Where("id = ?", activity.CompanyID).
				UpdateColumn("last_contacted_at", now).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", activityID).First(&activity).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	prometheus.ActivityStatusCounter.WithLabelValues(string(next)).Inc()
	return &activity, nil
}

// MarkEmailEvent stamps a delivery event timestamp on the email detail row
// looked up by its tracking id.
func (s *Store) MarkEmailEvent(ctx context.Context, trackingID, column string, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	switch column {
	case "opened_at", "clicked_at", "replied_at", "bounced_at", "sent_at":
	default:
		return ErrInvalidValue
	}

	result := s.db.WithContext(ctx).
		Model(&model.EmailActivity{}).
		Where("tracking_id = ?", trackingID).
		UpdateColumn(column, at)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
