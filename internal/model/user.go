package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account profile. A user owns every other per-tenant
// entity; hard-deleting a user cascades through the whole tenant.
type User struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	AuthUserID  *string    `json:"auth_user_id,omitempty" gorm:"type:uuid;uniqueIndex"` // identity at the external auth provider
	Email       string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"type:varchar(255)"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	CompanyName *string    `json:"company_name,omitempty" gorm:"type:varchar(255)"`
	AvatarURL   *string    `json:"avatar_url,omitempty" gorm:"type:text"`
	Timezone    string     `json:"timezone" gorm:"type:varchar(50);default:'Asia/Tokyo'"`
	Locale      string     `json:"locale" gorm:"type:varchar(10);default:'ja'"`
	Status      UserStatus `json:"status" gorm:"type:varchar(20);default:'active';check:status IN ('active','inactive','suspended')"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations. Everything a user owns is removed with the user, except
	// audit logs which only lose their author reference.
	Subscriptions []Subscription `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	UsageMetrics  []UsageMetric  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Companies     []Company      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CompanyLists  []CompanyList  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Campaigns     []Campaign     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AITemplates   []AITemplate   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AIGenerations []AIGeneration `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuditLogs     []AuditLog     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate hook assigns the surrogate key
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
