package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignStatusTransitions(t *testing.T) {
	allowed := []struct {
		from CampaignStatus
		to   CampaignStatus
	}{
		{CampaignStatusDraft, CampaignStatusActive},
		{CampaignStatusDraft, CampaignStatusCanceled},
		{CampaignStatusActive, CampaignStatusPaused},
		{CampaignStatusActive, CampaignStatusCompleted},
		{CampaignStatusActive, CampaignStatusCanceled},
		{CampaignStatusPaused, CampaignStatusActive},
		{CampaignStatusPaused, CampaignStatusCanceled},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from CampaignStatus
		to   CampaignStatus
	}{
		{CampaignStatusDraft, CampaignStatusPaused},
		{CampaignStatusDraft, CampaignStatusCompleted},
		{CampaignStatusCompleted, CampaignStatusActive},
		{CampaignStatusCanceled, CampaignStatusDraft},
		{CampaignStatusPaused, CampaignStatusCompleted},
		{CampaignStatusActive, CampaignStatusDraft},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestActivityStatusTransitions(t *testing.T) {
	allowed := []struct {
		from ActivityStatus
		to   ActivityStatus
	}{
		{ActivityStatusPending, ActivityStatusProcessing},
		{ActivityStatusPending, ActivityStatusFailed},
		{ActivityStatusProcessing, ActivityStatusSent},
		{ActivityStatusSent, ActivityStatusDelivered},
		{ActivityStatusSent, ActivityStatusBounced},
		{ActivityStatusDelivered, ActivityStatusOpened},
		{ActivityStatusOpened, ActivityStatusClicked},
		{ActivityStatusClicked, ActivityStatusReplied},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be allowed", tc.from, tc.to)
	}

	// Steps cannot be skipped and terminal states cannot move
	denied := []struct {
		from ActivityStatus
		to   ActivityStatus
	}{
		{ActivityStatusPending, ActivityStatusSent},
		{ActivityStatusPending, ActivityStatusDelivered},
		{ActivityStatusProcessing, ActivityStatusOpened},
		{ActivityStatusFailed, ActivityStatusPending},
		{ActivityStatusReplied, ActivityStatusOpened},
		{ActivityStatusBounced, ActivityStatusSent},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestActivityStatusTerminal(t *testing.T) {
	assert.True(t, ActivityStatusReplied.Terminal())
	assert.True(t, ActivityStatusFailed.Terminal())
	assert.True(t, ActivityStatusBounced.Terminal())
	assert.False(t, ActivityStatusPending.Terminal())
	assert.False(t, ActivityStatusSent.Terminal())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, SubscriptionStatusActive.Valid())
	assert.True(t, SubscriptionStatusTrialing.Valid())
	assert.False(t, SubscriptionStatus("bogus").Valid())

	assert.True(t, CompanyStatusBlacklist.Valid())
	assert.False(t, CompanyStatus("deleted").Valid())

	assert.True(t, CampaignTypeMixed.Valid())
	assert.False(t, CampaignType("sms").Valid())

	assert.True(t, TemplateTypeSubject.Valid())
	assert.False(t, TemplateType("letter").Valid())

	assert.True(t, UserStatusActive.Valid())
	assert.False(t, UserStatus("").Valid())
}

func TestCampaignDefaults(t *testing.T) {
	c := &Campaign{UserID: "u", ListID: "l", Name: "n", CampaignType: CampaignTypeEmail}
	assert.NoError(t, c.BeforeCreate(nil))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, CampaignStatusDraft, c.Status)
	assert.JSONEq(t, `{"per_hour": 10, "per_day": 100}`, string(c.RateLimitConfig))
	assert.JSONEq(t, `{}`, string(c.AIConfig))
}

func TestFormActivityDefaults(t *testing.T) {
	f := &FormActivity{ActivityID: "a", FormURL: "https://example.com/contact"}
	assert.NoError(t, f.BeforeCreate(nil))

	assert.NotEmpty(t, f.ID)
	assert.JSONEq(t, `{}`, string(f.FormFields))

	// Provided fields survive the hook
	f2 := &FormActivity{FormFields: []byte(`{"name":"Jane"}`)}
	assert.NoError(t, f2.BeforeCreate(nil))
	assert.JSONEq(t, `{"name":"Jane"}`, string(f2.FormFields))
}

func TestEmailActivityTrackingID(t *testing.T) {
	e := &EmailActivity{ActivityID: "a", ToEmail: "to@example.com", FromEmail: "from@example.com"}
	assert.NoError(t, e.BeforeCreate(nil))

	assert.NotNil(t, e.TrackingID)
	assert.Contains(t, *e.TrackingID, "trk_")

	// An explicit tracking id is kept
	custom := "trk_custom"
	e2 := &EmailActivity{TrackingID: &custom}
	assert.NoError(t, e2.BeforeCreate(nil))
	assert.Equal(t, "trk_custom", *e2.TrackingID)
}
