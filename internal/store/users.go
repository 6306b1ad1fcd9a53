package store

import (
	"context"
	"time"

	"outreach-service/internal/model"
	"outreach-service/prometheus"
)

// CreateUser inserts a new user row
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// FindUserByEmail looks a user up by email. Returns ErrNotFound when absent.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByAuthID looks a user up by the external auth provider's id
func (s *Store) FindUserByAuthID(ctx context.Context, authUserID string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByID looks a user up by primary key
func (s *Store) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UserProfileUpdate is the set of profile fields a user may change
type UserProfileUpdate struct {
	Name        *string
	CompanyName *string
	AvatarURL   *string
	Timezone    *string
	Locale      *string
}

// UpdateUserProfile applies a partial profile update
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, update UserProfileUpdate) (*model.User, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.CompanyName != nil {
		fields["company_name"] = *update.CompanyName
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = *update.AvatarURL
	}
	if update.Timezone != nil {
		fields["timezone"] = *update.Timezone
	}
	if update.Locale != nil {
		fields["locale"] = *update.Locale
	}

	if len(fields) > 0 {
		result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.FindUserByID(ctx, userID)
}

// DeleteUser hard-deletes a user; the database cascades through everything
// the user owns.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.WithContext(ctx).Unscoped().Where("id = ?", userID).Delete(&model.User{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
