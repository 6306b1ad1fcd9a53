package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultRateLimitConfig caps outreach volume when a campaign declares none
var DefaultRateLimitConfig = []byte(`{"per_hour": 10, "per_day": 100}`)

// Campaign is a bounded outreach run against exactly one company list. The
// list FK restricts deletion; ownership of the list by the same user is
// checked at the store layer, the FK only guarantees existence.
type Campaign struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string         `json:"user_id" gorm:"type:uuid;not null;index:idx_campaigns_user_status"`
	ListID       string         `json:"list_id" gorm:"type:uuid;not null;index"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	CampaignType CampaignType   `json:"campaign_type" gorm:"type:varchar(10);not null;check:campaign_type IN ('email','form','mixed')"`
	Status       CampaignStatus `json:"status" gorm:"type:varchar(20);default:'draft';index:idx_campaigns_user_status;check:status IN ('draft','active','paused','completed','canceled')"`
	TargetCount  *int           `json:"target_count,omitempty"`
	SuccessCount int            `json:"success_count" gorm:"default:0"`

	// Nested configuration blobs
	AIConfig        datatypes.JSON `json:"ai_config" gorm:"not null"`
	TemplateConfig  datatypes.JSON `json:"template_config" gorm:"not null"`
	ScheduleConfig  datatypes.JSON `json:"schedule_config"`
	RateLimitConfig datatypes.JSON `json:"rate_limit_config"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Activities []SalesActivity `json:"-" gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate hook assigns the surrogate key and fills config defaults
func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if len(c.AIConfig) == 0 {
		c.AIConfig = datatypes.JSON([]byte(`{}`))
	}
	if len(c.TemplateConfig) == 0 {
		c.TemplateConfig = datatypes.JSON([]byte(`{}`))
	}
	if len(c.ScheduleConfig) == 0 {
		c.ScheduleConfig = datatypes.JSON([]byte(`{}`))
	}
	if len(c.RateLimitConfig) == 0 {
		c.RateLimitConfig = datatypes.JSON(DefaultRateLimitConfig)
	}
	return nil
}
