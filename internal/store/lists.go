package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"

	"gorm.io/gorm"
)

// CreateListWithCompanies inserts one list row, bulk-inserts the given
// company rows tagged with the new list id and owning user id, and writes the
// join rows with their positions. The whole thing is one transaction: any
// failure rolls back the list, the companies, and the items.
func (s *Store) CreateListWithCompanies(ctx context.Context, userID, name string, description *string, companies []model.Company) (*model.CompanyList, error) {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	list := &model.CompanyList{
		UserID:         userID,
		Name:           name,
		Description:    description,
		TotalCompanies: len(companies),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}

		if len(companies) == 0 {
			return nil
		}

		for i := range companies {
			companies[i].UserID = userID
			companies[i].ListID = &list.ID
		}
		if err := tx.Create(&companies).Error; err != nil {
			return err
		}

		items := make([]model.CompanyListItem, len(companies))
		for i := range companies {
			pos := i + 1
			items[i] = model.CompanyListItem{
				ListID:    list.ID,
				CompanyID: companies[i].ID,
				Position:  &pos,
			}
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	list.Companies = companies
	return list, nil
}

// FindListByID returns one list with its items
func (s *Store) FindListByID(ctx context.Context, userID, listID string) (*model.CompanyList, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var list model.CompanyList
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", listID, userID).
		First(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

// ListLists returns every list the user owns, newest first
func (s *Store) ListLists(ctx context.Context, userID string) ([]model.CompanyList, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var lists []model.CompanyList
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, translate(err)
	}
	return lists, nil
}

// AddCompanyToList appends a company to a list at the next position. The
// unique (list, company) pair constraint rejects duplicates with ErrDuplicate.
func (s *Store) AddCompanyToList(ctx context.Context, listID, companyID string) (*model.CompanyListItem, error) {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	var item *model.CompanyListItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&model.CompanyListItem{}).
			Where("list_id = ?", listID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		pos := maxPos + 1
		item = &model.CompanyListItem{
			ListID:    listID,
			CompanyID: companyID,
			Position:  &pos,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		return tx.Model(&model.CompanyList{}).
			Where("id = ?", listID).
			UpdateColumn("total_companies", gorm.Expr("total_companies + 1")).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

// DeleteList soft-deletes a list the user owns. Fails with ErrForeignKey
// while a campaign still references the list.
func (s *Store) DeleteList(ctx context.Context, userID, listID string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	// The restrict FK only fires on hard delete, so check campaigns here to
	// keep soft delete honest about the same invariant.
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Campaign{}).
		Where("list_id = ?", listID).
		Count(&count).Error; err != nil {
		return translate(err)
	}
	if count > 0 {
		return ErrForeignKey
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		Delete(&model.CompanyList{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
