package model

// UserStatus is the lifecycle status of a user account
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// Valid reports whether the value is in the declared set
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// SubscriptionStatus mirrors the status reported by the payment provider
type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
)

// Valid reports whether the value is in the declared set. The provider is the
// source of truth for subscription state, so any valid value may overwrite any
// other; there is no transition table here.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCanceled, SubscriptionStatusPastDue,
		SubscriptionStatusTrialing, SubscriptionStatusIncomplete:
		return true
	}
	return false
}

// CompanyStatus is the lifecycle status of a prospect company
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusInactive  CompanyStatus = "inactive"
	CompanyStatusBlacklist CompanyStatus = "blacklist"
)

// Valid reports whether the value is in the declared set
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusActive, CompanyStatusInactive, CompanyStatusBlacklist:
		return true
	}
	return false
}

// CampaignType is the outreach channel mix of a campaign
type CampaignType string

const (
	CampaignTypeEmail CampaignType = "email"
	CampaignTypeForm  CampaignType = "form"
	CampaignTypeMixed CampaignType = "mixed"
)

// Valid reports whether the value is in the declared set
func (t CampaignType) Valid() bool {
	switch t {
	case CampaignTypeEmail, CampaignTypeForm, CampaignTypeMixed:
		return true
	}
	return false
}

// CampaignStatus is the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCanceled  CampaignStatus = "canceled"
)

// Valid reports whether the value is in the declared set
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused,
		CampaignStatusCompleted, CampaignStatusCanceled:
		return true
	}
	return false
}

// campaignTransitions declares which campaign status changes are legal.
// Completed and canceled are terminal.
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:  {CampaignStatusActive, CampaignStatusCanceled},
	CampaignStatusActive: {CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusCanceled},
	CampaignStatusPaused: {CampaignStatusActive, CampaignStatusCanceled},
}

// CanTransitionTo reports whether moving from s to next is a legal step
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActivityType is the kind of outreach attempt
type ActivityType string

const (
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeForm    ActivityType = "form"
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
)

// Valid reports whether the value is in the declared set
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeEmail, ActivityTypeForm, ActivityTypeCall, ActivityTypeMeeting, ActivityTypeNote:
		return true
	}
	return false
}

// ActivityStatus is the delivery progression of a sales activity
type ActivityStatus string

const (
	ActivityStatusPending    ActivityStatus = "pending"
	ActivityStatusProcessing ActivityStatus = "processing"
	ActivityStatusSent       ActivityStatus = "sent"
	ActivityStatusDelivered  ActivityStatus = "delivered"
	ActivityStatusOpened     ActivityStatus = "opened"
	ActivityStatusClicked    ActivityStatus = "clicked"
	ActivityStatusReplied    ActivityStatus = "replied"
	ActivityStatusBounced    ActivityStatus = "bounced"
	ActivityStatusFailed     ActivityStatus = "failed"
)

// Valid reports whether the value is in the declared set
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityStatusPending, ActivityStatusProcessing, ActivityStatusSent,
		ActivityStatusDelivered, ActivityStatusOpened, ActivityStatusClicked,
		ActivityStatusReplied, ActivityStatusBounced, ActivityStatusFailed:
		return true
	}
	return false
}

// activityTransitions declares the legal delivery progression:
// pending -> processing -> sent -> delivered -> opened/clicked/replied,
// with bounced and failed as failure exits. No skipping forward.
var activityTransitions = map[ActivityStatus][]ActivityStatus{
	ActivityStatusPending:    {ActivityStatusProcessing, ActivityStatusFailed},
	ActivityStatusProcessing: {ActivityStatusSent, ActivityStatusFailed},
	ActivityStatusSent:       {ActivityStatusDelivered, ActivityStatusBounced, ActivityStatusFailed},
	ActivityStatusDelivered:  {ActivityStatusOpened, ActivityStatusClicked, ActivityStatusReplied, ActivityStatusBounced},
	ActivityStatusOpened:     {ActivityStatusClicked, ActivityStatusReplied},
	ActivityStatusClicked:    {ActivityStatusReplied},
}

// CanTransitionTo reports whether moving from s to next is a legal step
func (s ActivityStatus) CanTransitionTo(next ActivityStatus) bool {
	for _, allowed := range activityTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status accepts no further transitions
func (s ActivityStatus) Terminal() bool {
	return len(activityTransitions[s]) == 0
}

// TemplateType is the kind of content an AI template produces
type TemplateType string

const (
	TemplateTypeEmail   TemplateType = "email"
	TemplateTypeForm    TemplateType = "form"
	TemplateTypeSubject TemplateType = "subject"
)

// Valid reports whether the value is in the declared set
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateTypeEmail, TemplateTypeForm, TemplateTypeSubject:
		return true
	}
	return false
}

// LogLevel is the severity of a system log record
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// Valid reports whether the value is in the declared set
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelCritical:
		return true
	}
	return false
}
