package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Company is a prospect organization owned by exactly one user. ListID is the
// list the company was imported with; removing the list keeps the company and
// nulls the reference.
type Company struct {
	ID                 string            `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             string            `json:"user_id" gorm:"type:uuid;not null;index:idx_companies_user_status"`
	ListID             *string           `json:"list_id,omitempty" gorm:"type:uuid;index"`
	Name               string            `json:"name" gorm:"type:varchar(255);not null"`
	Domain             *string           `json:"domain,omitempty" gorm:"type:varchar(255);index"`
	WebsiteURL         *string           `json:"website_url,omitempty" gorm:"type:text"`
	Industry           *string           `json:"industry,omitempty" gorm:"type:varchar(100)"`
	EmployeeCountRange *string           `json:"employee_count_range,omitempty" gorm:"type:varchar(50)"`
	RevenueRange       *string           `json:"revenue_range,omitempty" gorm:"type:varchar(50)"`
	Country            string            `json:"country" gorm:"type:varchar(100);default:'Japan'"`
	Prefecture         *string           `json:"prefecture,omitempty" gorm:"type:varchar(50)"`
	City               *string           `json:"city,omitempty" gorm:"type:varchar(100)"`
	Description        *string           `json:"description,omitempty" gorm:"type:text"`
	Status             CompanyStatus     `json:"status" gorm:"type:varchar(20);default:'active';index:idx_companies_user_status;check:status IN ('active','inactive','blacklist')"`
	LastContactedAt    *time.Time        `json:"last_contacted_at,omitempty" gorm:"index"`
	ResponseStatus     *string           `json:"response_status,omitempty" gorm:"type:varchar(20)"`
	Tags               pq.StringArray    `json:"tags,omitempty" gorm:"type:text[]"`
	CustomFields       datatypes.JSONMap `json:"custom_fields,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Contacts   []CompanyContact  `json:"contacts,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	ListItems  []CompanyListItem `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Activities []SalesActivity   `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate hook assigns the surrogate key and defaults
func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = CompanyStatusActive
	}
	if c.Country == "" {
		c.Country = "Japan"
	}
	return nil
}

// CompanyContact is one contact channel (email, phone, form URL) attached to a
// company.
type CompanyContact struct {
	ID                 string     `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID          string     `json:"company_id" gorm:"type:uuid;not null;index"`
	ContactType        string     `json:"contact_type" gorm:"type:varchar(20);not null"`
	Value              string     `json:"value" gorm:"type:varchar(500);not null"`
	ContactPersonName  *string    `json:"contact_person_name,omitempty" gorm:"type:varchar(255)"`
	ContactPersonTitle *string    `json:"contact_person_title,omitempty" gorm:"type:varchar(255)"`
	Department         *string    `json:"department,omitempty" gorm:"type:varchar(100)"`
	IsPrimary          bool       `json:"is_primary" gorm:"default:false"`
	IsVerified         bool       `json:"is_verified" gorm:"default:false"`
	VerificationDate   *time.Time `json:"verification_date,omitempty"`
	Notes              *string    `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook assigns the surrogate key
func (c *CompanyContact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
