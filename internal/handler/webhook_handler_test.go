package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"outreach-service/internal/model"
	"outreach-service/pkg/config"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	prometheus.InitMetrics(&config.Config{})
}

type MockSubscriptionUpdater struct {
	mock.Mock
}

func (m *MockSubscriptionUpdater) UpdateSubscriptionStatus(ctx context.Context, stripeCustomerID string, status model.SubscriptionStatus) (int64, error) {
	args := m.Called(ctx, stripeCustomerID, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockSystemLogRecorder struct {
	mock.Mock
}

func (m *MockSystemLogRecorder) RecordSystemLog(ctx context.Context, entry *model.SystemLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// quietRecorder accepts any number of system log writes
func quietRecorder() *MockSystemLogRecorder {
	recorder := new(MockSystemLogRecorder)
	recorder.On("RecordSystemLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	return recorder
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookBody(customer, status string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"type": "customer.subscription.updated",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"customer": customer,
				"status":   status,
			},
		},
	})
	return body
}

func postWebhook(h *WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.HandleStripeEvent(c)
	return rec
}

func TestWebhookValidSignatureApplied(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_123", model.SubscriptionStatusActive).
		Return(int64(1), nil)

	h := NewWebhookHandler(updater, quietRecorder(), secret)
	body := webhookBody("cus_123", "active")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	updater.AssertExpectations(t)
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	updater := new(MockSubscriptionUpdater)
	h := NewWebhookHandler(updater, quietRecorder(), "whsec_test")
	body := webhookBody("cus_123", "active")

	rec := postWebhook(h, body, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	updater.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	updater := new(MockSubscriptionUpdater)
	h := NewWebhookHandler(updater, quietRecorder(), "whsec_test")
	body := webhookBody("cus_123", "active")

	rec := postWebhook(h, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	updater.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookTamperedBodyRejected(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	h := NewWebhookHandler(updater, quietRecorder(), secret)

	original := webhookBody("cus_123", "active")
	tampered := webhookBody("cus_999", "active")

	rec := postWebhook(h, tampered, signBody(secret, original))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	updater.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUnknownStatusRejected(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	h := NewWebhookHandler(updater, quietRecorder(), secret)
	body := webhookBody("cus_123", "super_active")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	updater.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUnknownCustomerAcknowledged(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_ghost", model.SubscriptionStatusCanceled).
		Return(int64(0), nil)

	h := NewWebhookHandler(updater, quietRecorder(), secret)
	body := webhookBody("cus_ghost", "canceled")

	rec := postWebhook(h, body, signBody(secret, body))

	// Ack so the provider stops retrying
	assert.Equal(t, http.StatusOK, rec.Code)
	updater.AssertExpectations(t)
}

func TestWebhookStoreErrorReturns500(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_123", model.SubscriptionStatusPastDue).
		Return(int64(0), errors.New("connection reset"))

	h := NewWebhookHandler(updater, quietRecorder(), secret)
	body := webhookBody("cus_123", "past_due")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookAppliedRecordsSystemLog(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_123", model.SubscriptionStatusActive).
		Return(int64(1), nil)

	recorder := new(MockSystemLogRecorder)
	recorder.On("RecordSystemLog", mock.Anything, mock.MatchedBy(func(entry *model.SystemLog) bool {
		return entry.Level == model.LogLevelInfo &&
			entry.Module != nil && *entry.Module == "stripe_webhook" &&
			bytes.Contains(entry.Context, []byte("cus_123"))
	})).Return(nil).Once()

	h := NewWebhookHandler(updater, recorder, secret)
	body := webhookBody("cus_123", "active")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	recorder.AssertExpectations(t)
}

func TestWebhookUnknownCustomerRecordsWarning(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_ghost", model.SubscriptionStatusCanceled).
		Return(int64(0), nil)

	recorder := new(MockSystemLogRecorder)
	recorder.On("RecordSystemLog", mock.Anything, mock.MatchedBy(func(entry *model.SystemLog) bool {
		return entry.Level == model.LogLevelWarning
	})).Return(nil).Once()

	h := NewWebhookHandler(updater, recorder, secret)
	body := webhookBody("cus_ghost", "canceled")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	recorder.AssertExpectations(t)
}

func TestWebhookSystemLogFailureStillAcks(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_123", model.SubscriptionStatusActive).
		Return(int64(1), nil)

	recorder := new(MockSystemLogRecorder)
	recorder.On("RecordSystemLog", mock.Anything, mock.Anything).
		Return(errors.New("insert failed"))

	h := NewWebhookHandler(updater, recorder, secret)
	body := webhookBody("cus_123", "active")

	rec := postWebhook(h, body, signBody(secret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRepeatedDeliveryIsIdempotent(t *testing.T) {
	secret := "whsec_test"
	updater := new(MockSubscriptionUpdater)
	updater.On("UpdateSubscriptionStatus", mock.Anything, "cus_123", model.SubscriptionStatusActive).
		Return(int64(1), nil).Twice()

	h := NewWebhookHandler(updater, quietRecorder(), secret)
	body := webhookBody("cus_123", "active")
	sig := signBody(secret, body)

	first := postWebhook(h, body, sig)
	second := postWebhook(h, body, sig)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	updater.AssertExpectations(t)
}
