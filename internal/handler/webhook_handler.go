package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"outreach-service/internal/model"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SubscriptionStatusUpdater is the slice of the store the webhook needs
type SubscriptionStatusUpdater interface {
	UpdateSubscriptionStatus(ctx context.Context, stripeCustomerID string, status model.SubscriptionStatus) (int64, error)
}

// SystemLogRecorder persists operational event rows
type SystemLogRecorder interface {
	RecordSystemLog(ctx context.Context, entry *model.SystemLog) error
}

// WebhookHandler receives billing provider events. The provider retries on
// non-2xx, so anything already-applied or unknown is acknowledged with 200.
type WebhookHandler struct {
	Subscriptions SubscriptionStatusUpdater
	Logs          SystemLogRecorder
	Secret        string
}

func NewWebhookHandler(subscriptions SubscriptionStatusUpdater, logs SystemLogRecorder, secret string) *WebhookHandler {
	return &WebhookHandler{Subscriptions: subscriptions, Logs: logs, Secret: secret}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Customer string `json:"customer"`
			Status   string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// HandleStripeEvent verifies the event signature and mirrors the provider's
// subscription status into the local record.
func (h *WebhookHandler) HandleStripeEvent(c echo.Context) error {
	log := logger.FromEcho(c)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		prometheus.WebhookEventCounter.WithLabelValues("read_error").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if !h.verifySignature(body, signature) {
		log.Warn("Webhook signature rejected")
		prometheus.WebhookEventCounter.WithLabelValues("invalid_signature").Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		prometheus.WebhookEventCounter.WithLabelValues("malformed_payload").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed payload"})
	}

	customerID := event.Data.Object.Customer
	status := model.SubscriptionStatus(event.Data.Object.Status)
	if customerID == "" || !status.Valid() {
		log.Warn("Webhook carried unusable subscription state",
			zap.String("type", event.Type),
			zap.String("status", event.Data.Object.Status))
		prometheus.WebhookEventCounter.WithLabelValues("invalid_payload").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription state"})
	}

	rows, err := h.Subscriptions.UpdateSubscriptionStatus(c.Request().Context(), customerID, status)
	if err != nil {
		log.Error("Failed to apply webhook",
			zap.String("customer_id", customerID), zap.Error(err))
		prometheus.WebhookEventCounter.WithLabelValues("store_error").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply event"})
	}

	if rows == 0 {
		// Unknown customer: ack so the provider stops retrying, keep a trace
		log.Warn("Webhook for unknown customer",
			zap.String("customer_id", customerID),
			zap.String("type", event.Type))
		prometheus.WebhookEventCounter.WithLabelValues("unknown_customer").Inc()
		h.recordEvent(c, model.LogLevelWarning, "webhook for unknown customer", customerID, event.Type)
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	prometheus.WebhookEventCounter.WithLabelValues("applied").Inc()
	h.recordEvent(c, model.LogLevelInfo, "subscription status applied", customerID, event.Type)
	log.Info("Webhook applied",
		zap.String("customer_id", customerID),
		zap.String("status", string(status)))
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// recordEvent appends a system log row for the webhook outcome. Best effort:
// the event itself was already handled, so a failed insert is only logged.
func (h *WebhookHandler) recordEvent(c echo.Context, level model.LogLevel, message, customerID, eventType string) {
	if h.Logs == nil {
		return
	}

	module := "stripe_webhook"
	blob, _ := json.Marshal(map[string]string{
		"customer_id": customerID,
		"event_type":  eventType,
	})
	entry := &model.SystemLog{
		Level:   level,
		Message: message,
		Module:  &module,
		Context: datatypes.JSON(blob),
	}
	if err := h.Logs.RecordSystemLog(c.Request().Context(), entry); err != nil {
		logger.FromEcho(c).Warn("Failed to record webhook system log", zap.Error(err))
	}
}

// verifySignature checks the hex HMAC-SHA256 of the raw body in constant time
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.Secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
