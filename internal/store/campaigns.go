package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"
)

// CreateCampaign inserts a campaign after checking that the referenced list
// belongs to the same user. The FK only guarantees the list exists; the
// cross-tenant rule lives here.
func (s *Store) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if !campaign.CampaignType.Valid() {
		return ErrInvalidValue
	}
	if campaign.Status != "" && !campaign.Status.Valid() {
		return ErrInvalidValue
	}

	var list model.CompanyList
	if err := s.db.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", campaign.ListID).
		First(&list).Error; err != nil {
		return translate(err)
	}
	if list.UserID != campaign.UserID {
		return ErrOwnershipMismatch
	}

	return translate(s.db.WithContext(ctx).Create(campaign).Error)
}

// FindCampaignByID returns one campaign the user owns
func (s *Store) FindCampaignByID(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var campaign model.Campaign
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", campaignID, userID).
		First(&campaign).Error
	if err != nil {
		return nil, translate(err)
	}
	return &campaign, nil
}

// ListCampaigns returns the user's campaigns, optionally filtered by status
func (s *Store) ListCampaigns(ctx context.Context, userID string, status *model.CampaignStatus) ([]model.Campaign, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidValue
		}
		query = query.Where("status = ?", *status)
	}

	var campaigns []model.Campaign
	if err := query.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, translate(err)
	}
	return campaigns, nil
}

// UpdateCampaignStatus moves a campaign along its lifecycle. Illegal steps
// are rejected with ErrInvalidTransition before any write. Entering active
// for the first time stamps started_at; completed stamps completed_at.
func (s *Store) UpdateCampaignStatus(ctx context.Context, userID, campaignID string, next model.CampaignStatus) (*model.Campaign, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if !next.Valid() {
		return nil, ErrInvalidValue
	}

	campaign, err := s.FindCampaignByID(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"status":     next,
		"updated_at": now,
	}
	if next == model.CampaignStatusActive && campaign.StartedAt == nil {
		fields["started_at"] = now
	}
	if next == model.CampaignStatusCompleted {
		fields["completed_at"] = now
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", campaignID).
		Updates(fields).Error; err != nil {
		return nil, translate(err)
	}

	return s.FindCampaignByID(ctx, userID, campaignID)
}
