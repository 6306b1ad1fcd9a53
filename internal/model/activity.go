package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SalesActivity is one outreach attempt against one company within one
// campaign. Both parents must exist; deleting either cascades here and on to
// the channel detail row.
type SalesActivity struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	CampaignID   string         `json:"campaign_id" gorm:"type:uuid;not null;index:idx_sales_activities_campaign_company"`
	CompanyID    string         `json:"company_id" gorm:"type:uuid;not null;index:idx_sales_activities_campaign_company"`
	ActivityType ActivityType   `json:"activity_type" gorm:"type:varchar(10);not null;check:activity_type IN ('email','form','call','meeting','note')"`
	Status       ActivityStatus `json:"status" gorm:"type:varchar(20);not null;index;check:status IN ('pending','processing','sent','delivered','opened','clicked','replied','bounced','failed')"`
	Channel      string         `json:"channel" gorm:"type:varchar(20);not null"`

	Subject         *string        `json:"subject,omitempty" gorm:"type:varchar(500)"`
	Content         *string        `json:"content,omitempty" gorm:"type:text"`
	ResponseContent *string        `json:"response_content,omitempty" gorm:"type:text"`
	Metadata        datatypes.JSON `json:"metadata,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty" gorm:"index"`
	ExecutedAt  *time.Time `json:"executed_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Channel-specific detail rows, one of which exists per activity
	EmailDetail *EmailActivity `json:"email_detail,omitempty" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	FormDetail  *FormActivity  `json:"form_detail,omitempty" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate hook assigns the surrogate key and defaults
func (a *SalesActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = ActivityStatusPending
	}
	if len(a.Metadata) == 0 {
		a.Metadata = datatypes.JSON([]byte(`{}`))
	}
	return nil
}

// EmailActivity carries the email-channel detail of one sales activity (1:1)
type EmailActivity struct {
	ID          string  `json:"id" gorm:"type:uuid;primaryKey"`
	ActivityID  string  `json:"activity_id" gorm:"type:uuid;not null;uniqueIndex"`
	ToEmail     string  `json:"to_email" gorm:"type:varchar(255);not null"`
	FromEmail   string  `json:"from_email" gorm:"type:varchar(255);not null"`
	Subject     string  `json:"subject" gorm:"type:varchar(500);not null"`
	Content     string  `json:"content" gorm:"type:text;not null"`
	HTMLContent *string `json:"html_content,omitempty" gorm:"type:text"`
	TrackingID  *string `json:"tracking_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`

	SentAt       *time.Time `json:"sent_at,omitempty"`
	OpenedAt     *time.Time `json:"opened_at,omitempty" gorm:"index"`
	ClickedAt    *time.Time `json:"clicked_at,omitempty"`
	RepliedAt    *time.Time `json:"replied_at,omitempty"`
	BouncedAt    *time.Time `json:"bounced_at,omitempty"`
	BounceReason *string    `json:"bounce_reason,omitempty" gorm:"type:text"`
	SMTPResponse *string    `json:"smtp_response,omitempty" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate hook assigns the surrogate key and a unique tracking id
func (e *EmailActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.TrackingID == nil {
		id := newTrackingID()
		e.TrackingID = &id
	}
	return nil
}

// FormActivity carries the contact-form detail of one sales activity (1:1)
type FormActivity struct {
	ID               string         `json:"id" gorm:"type:uuid;primaryKey"`
	ActivityID       string         `json:"activity_id" gorm:"type:uuid;not null;uniqueIndex"`
	FormURL          string         `json:"form_url" gorm:"type:text;not null"`
	FormFields       datatypes.JSON `json:"form_fields" gorm:"not null"`
	SubmittedAt      *time.Time     `json:"submitted_at,omitempty"`
	Success          bool           `json:"success" gorm:"default:false"`
	ErrorMessage     *string        `json:"error_message,omitempty" gorm:"type:text"`
	HasRecaptcha     bool           `json:"has_recaptcha" gorm:"default:false"`
	RecaptchaVersion *string        `json:"recaptcha_version,omitempty" gorm:"type:varchar(10)"`
	ResponseHTML     *string        `json:"response_html,omitempty" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
}

// BeforeCreate hook assigns the surrogate key and defaults. FormFields is a
// not-null column, so an empty set becomes an empty object.
func (f *FormActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = newID()
	}
	if len(f.FormFields) == 0 {
		f.FormFields = datatypes.JSON([]byte(`{}`))
	}
	return nil
}
