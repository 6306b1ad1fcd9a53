package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompanyList is a named, user-owned collection of companies. A list cannot be
// deleted while a campaign still targets it (the campaign FK restricts).
type CompanyList struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string         `json:"user_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Description    *string        `json:"description,omitempty" gorm:"type:text"`
	TotalCompanies int            `json:"total_companies" gorm:"default:0"`
	Tags           pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	IsPublic       bool           `json:"is_public" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Items     []CompanyListItem `json:"items,omitempty" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Companies []Company         `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:SET NULL"`
	Campaigns []Campaign        `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:RESTRICT"`
}

// BeforeCreate hook assigns the surrogate key
func (l *CompanyList) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = newID()
	}
	return nil
}

// CompanyListItem links a list and a company with an ordering position. The
// composite unique index keeps a company from appearing twice in one list.
type CompanyListItem struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey"`
	ListID     string         `json:"list_id" gorm:"type:uuid;not null;uniqueIndex:uniq_company_list_items_list_company;index"`
	CompanyID  string         `json:"company_id" gorm:"type:uuid;not null;uniqueIndex:uniq_company_list_items_list_company"`
	Position   *int           `json:"position,omitempty"`
	CustomData datatypes.JSON `json:"custom_data,omitempty"`
	AddedAt    time.Time      `json:"added_at" gorm:"autoCreateTime"`
}

// BeforeCreate hook assigns the surrogate key
func (i *CompanyListItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
