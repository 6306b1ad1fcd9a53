package handler

import (
	"net/http"
	"time"

	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActivityHandler serves sales activity recording and status progression
type ActivityHandler struct {
	Store           *store.Store
	Monitor         monitoring.Monitor
	DailyEmailLimit int
}

func NewActivityHandler(s *store.Store, monitor monitoring.Monitor, dailyEmailLimit int) *ActivityHandler {
	return &ActivityHandler{Store: s, Monitor: monitor, DailyEmailLimit: dailyEmailLimit}
}

type emailDetailRequest struct {
	ToEmail     string  `json:"to_email"`
	FromEmail   string  `json:"from_email"`
	Subject     string  `json:"subject"`
	Content     string  `json:"content"`
	HTMLContent *string `json:"html_content,omitempty"`
}

type formDetailRequest struct {
	FormURL      string                 `json:"form_url"`
	FormFields   map[string]interface{} `json:"form_fields"`
	HasRecaptcha bool                   `json:"has_recaptcha"`
}

// Create records an outreach attempt under a campaign the caller owns,
// together with its channel detail row.
func (h *ActivityHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	campaignID := c.Param("id")
	ctx := c.Request().Context()

	// Ownership gate: the campaign scopes the tenant
	if _, err := h.Store.FindCampaignByID(ctx, claims.UserID, campaignID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load campaign"})
	}

	var req struct {
		CompanyID    string              `json:"company_id"`
		ActivityType string              `json:"activity_type"`
		Channel      string              `json:"channel"`
		Subject      *string             `json:"subject,omitempty"`
		Content      *string             `json:"content,omitempty"`
		ScheduledAt  *time.Time          `json:"scheduled_at,omitempty"`
		EmailDetail  *emailDetailRequest `json:"email_detail,omitempty"`
		FormDetail   *formDetailRequest  `json:"form_detail,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CompanyID == "" || req.ActivityType == "" || req.Channel == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id, activity_type and channel are required"})
	}

	// The target company must belong to the caller too
	if _, err := h.Store.FindCompanyByID(ctx, claims.UserID, req.CompanyID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load company"})
	}

	activity := &model.SalesActivity{
		CampaignID:   campaignID,
		CompanyID:    req.CompanyID,
		ActivityType: model.ActivityType(req.ActivityType),
		Channel:      req.Channel,
		Subject:      req.Subject,
		Content:      req.Content,
		ScheduledAt:  req.ScheduledAt,
	}

	var email *model.EmailActivity
	if req.EmailDetail != nil {
		if req.EmailDetail.ToEmail == "" || req.EmailDetail.FromEmail == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email detail needs to_email and from_email"})
		}
		email = &model.EmailActivity{
			ToEmail:     req.EmailDetail.ToEmail,
			FromEmail:   req.EmailDetail.FromEmail,
			Subject:     req.EmailDetail.Subject,
			Content:     req.EmailDetail.Content,
			HTMLContent: req.EmailDetail.HTMLContent,
		}
	}

	var form *model.FormActivity
	if req.FormDetail != nil {
		if req.FormDetail.FormURL == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "form detail needs form_url"})
		}
		form = &model.FormActivity{
			FormURL:      req.FormDetail.FormURL,
			FormFields:   marshalConfig(req.FormDetail.FormFields),
			HasRecaptcha: req.FormDetail.HasRecaptcha,
		}
	}

	err := h.Store.CreateActivity(ctx, activity, email, form)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity_type or status"})
	case store.ErrForeignKey:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign or company no longer exists"})
	default:
		log.Error("Failed to create activity", zap.String("campaign_id", campaignID), zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_activity"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create activity"})
	}

	recordAudit(c, h.Store, claims.UserID, "sales_activities", activity.ID, "INSERT", activity)

	log.Info("Activity created",
		zap.String("activity_id", activity.ID),
		zap.String("campaign_id", campaignID),
		zap.String("type", string(activity.ActivityType)))
	return c.JSON(http.StatusCreated, activity)
}

// List returns the activities of one campaign with their channel details
func (h *ActivityHandler) List(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	activities, err := h.Store.ListActivities(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		logger.FromEcho(c).Error("Failed to list activities", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list activities"})
	}

	return c.JSON(http.StatusOK, echo.Map{"activities": activities, "count": len(activities)})
}

// UpdateStatus advances an activity along the delivery progression
func (h *ActivityHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	campaignID := c.Param("id")
	activityID := c.Param("activityID")
	ctx := c.Request().Context()

	// Ownership gate before any mutation
	existing, err := h.Store.FindActivityByID(ctx, claims.UserID, activityID)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activity"})
	}
	if existing.CampaignID != campaignID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
	}

	var req struct {
		Status model.ActivityStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Sending consumes the daily email quota; the transition itself is still
	// validated below, so an illegal jump to "sent" never burns a unit.
	if req.Status == model.ActivityStatusSent && existing.Status.CanTransitionTo(req.Status) {
		periodStart, periodEnd := store.DayPeriod(time.Now().UTC())
		_, err := h.Store.IncrementUsage(ctx, claims.UserID, model.MetricEmailSends, periodStart, periodEnd, h.DailyEmailLimit)
		if err != nil {
			if err == store.ErrQuotaExceeded {
				log.Warn("Email send quota exceeded", zap.String("user_id", claims.UserID))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "daily email send quota exceeded"})
			}
			log.Error("Failed to record email send usage", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
		}
	}

	activity, err := h.Store.UpdateActivityStatus(ctx, activityID, req.Status)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
	case store.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
	case store.ErrInvalidTransition:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status transition not allowed"})
	default:
		log.Error("Failed to update activity status", zap.String("activity_id", activityID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	recordAudit(c, h.Store, claims.UserID, "sales_activities", activityID, "UPDATE", req)

	log.Info("Activity status updated",
		zap.String("activity_id", activityID),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, activity)
}

// TrackOpen stamps an email open event looked up by tracking id. The endpoint
// is unauthenticated; the tracking id is the capability.
func (h *ActivityHandler) TrackOpen(c echo.Context) error {
	trackingID := c.Param("trackingID")

	err := h.Store.MarkEmailEvent(c.Request().Context(), trackingID, "opened_at", time.Now().UTC())
	if err != nil && err != store.ErrNotFound {
		logger.FromEcho(c).Warn("Failed to mark email open", zap.Error(err))
	}

	// Always 204: a tracking pixel must not leak whether the id exists
	return c.NoContent(http.StatusNoContent)
}
