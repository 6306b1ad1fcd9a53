package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"
)

// CreateSubscription inserts a new subscription row
func (s *Store) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if !sub.Status.Valid() {
		return ErrInvalidValue
	}
	return translate(s.db.WithContext(ctx).Create(sub).Error)
}

// FindSubscriptionByUser returns the user's most recent subscription.
// Returns ErrNotFound when the user has none.
func (s *Store) FindSubscriptionByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var sub model.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// UpdateSubscriptionStatus overwrites the status of every subscription row
// keyed by the provider's customer id and stamps updated_at. Re-applying the
// same status is a no-op on the data, so webhook redeliveries are harmless.
// Returns the number of rows updated; zero means the customer is unknown.
func (s *Store) UpdateSubscriptionStatus(ctx context.Context, stripeCustomerID string, status model.SubscriptionStatus) (int64, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if !status.Valid() {
		return 0, ErrInvalidValue
	}

	result := s.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
