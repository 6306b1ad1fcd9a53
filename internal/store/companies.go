package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"
)

// CreateCompany inserts a new company row
func (s *Store) CreateCompany(ctx context.Context, company *model.Company) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if company.Status != "" && !company.Status.Valid() {
		return ErrInvalidValue
	}
	return translate(s.db.WithContext(ctx).Create(company).Error)
}

// FindCompanyByID returns one company the user owns, with its contacts
func (s *Store) FindCompanyByID(ctx context.Context, userID, companyID string) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var company model.Company
	err := s.db.WithContext(ctx).
		Preload("Contacts").
		Where("id = ? AND user_id = ?", companyID, userID).
		First(&company).Error
	if err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// ListCompanies returns the user's companies, optionally filtered by status
func (s *Store) ListCompanies(ctx context.Context, userID string, status *model.CompanyStatus) ([]model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidValue
		}
		query = query.Where("status = ?", *status)
	}

	var companies []model.Company
	if err := query.Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

// UpdateCompanyStatus moves a company to another lifecycle status. The set is
// closed; anything outside it is rejected before touching the database.
func (s *Store) UpdateCompanyStatus(ctx context.Context, userID, companyID string, status model.CompanyStatus) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if !status.Valid() {
		return ErrInvalidValue
	}

	result := s.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("id = ? AND user_id = ?", companyID, userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCompany soft-deletes a company the user owns
func (s *Store) DeleteCompany(ctx context.Context, userID, companyID string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", companyID, userID).
		Delete(&model.Company{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCompanyContact attaches a contact channel to a company
func (s *Store) AddCompanyContact(ctx context.Context, contact *model.CompanyContact) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(contact).Error)
}
