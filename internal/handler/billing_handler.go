package handler

import (
	"context"
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BillingPortal is the slice of the payment provider client the billing
// endpoints need.
type BillingPortal interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// BillingHandler serves subscription self-service
type BillingHandler struct {
	Store     *store.Store
	Portal    BillingPortal
	ReturnURL string
	Monitor   monitoring.Monitor
}

func NewBillingHandler(s *store.Store, portal BillingPortal, returnURL string, monitor monitoring.Monitor) *BillingHandler {
	return &BillingHandler{Store: s, Portal: portal, ReturnURL: returnURL, Monitor: monitor}
}

// Subscription returns the caller's newest subscription record
func (h *BillingHandler) Subscription(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	sub, err := h.Store.FindSubscriptionByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no subscription"})
		}
		logger.FromEcho(c).Error("Failed to load subscription", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load subscription"})
	}

	return c.JSON(http.StatusOK, sub)
}

// PortalLink creates a provider-hosted billing portal session for the caller.
// The provider customer is resolved from the stored subscription first, then
// by email lookup, and created on the fly as a last resort.
func (h *BillingHandler) PortalLink(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Portal == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "billing is not configured"})
	}

	ctx := c.Request().Context()

	var customerID string
	sub, err := h.Store.FindSubscriptionByUser(ctx, claims.UserID)
	switch {
	case err == nil:
		customerID = sub.StripeCustomerID
	case err == store.ErrNotFound:
		customerID, err = h.Portal.FindCustomerByEmail(ctx, claims.Email)
		if err != nil {
			log.Error("Customer lookup failed", zap.Error(err))
			h.Monitor.TrackError(err, map[string]interface{}{"operation": "find_customer"})
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
		}
		if customerID == "" {
			customerID, err = h.Portal.CreateCustomer(ctx, claims.Email, claims.Name)
			if err != nil {
				log.Error("Customer creation failed", zap.Error(err))
				h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_customer"})
				return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
			}
		}
	default:
		log.Error("Failed to load subscription", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load subscription"})
	}

	url, err := h.Portal.CreateBillingPortalSession(ctx, customerID, h.ReturnURL)
	if err != nil {
		log.Error("Portal session creation failed",
			zap.String("customer_id", customerID), zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_portal_session"})
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "billing provider unavailable"})
	}

	log.Info("Portal session created", zap.String("user_id", claims.UserID))
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
