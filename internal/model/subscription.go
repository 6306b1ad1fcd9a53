package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subscription is the billing relationship between a user and the payment
// provider. The provider's webhook overwrites Status; rows are keyed by
// StripeCustomerID for that update path.
type Subscription struct {
	ID                   string             `json:"id" gorm:"type:uuid;primaryKey"`
	UserID               string             `json:"user_id" gorm:"type:uuid;not null;index"`
	StripeCustomerID     string             `json:"stripe_customer_id" gorm:"type:varchar(255);not null;index"`
	StripeSubscriptionID *string            `json:"stripe_subscription_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	PlanID               string             `json:"plan_id" gorm:"type:varchar(50);not null"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null;check:status IN ('active','canceled','past_due','trialing','incomplete')"`
	CurrentPeriodStart   *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool               `json:"cancel_at_period_end" gorm:"default:false"`
	TrialEnd             *time.Time         `json:"trial_end,omitempty"`
	Metadata             datatypes.JSON     `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook assigns the surrogate key
func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}
