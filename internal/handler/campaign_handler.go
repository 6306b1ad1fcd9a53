package handler

import (
	"encoding/json"
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CampaignHandler serves outreach campaign management
type CampaignHandler struct {
	Store   *store.Store
	Monitor monitoring.Monitor
}

func NewCampaignHandler(s *store.Store, monitor monitoring.Monitor) *CampaignHandler {
	return &CampaignHandler{Store: s, Monitor: monitor}
}

// Create starts a new campaign in draft against a list the caller owns
func (h *CampaignHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		ListID          string                 `json:"list_id"`
		Name            string                 `json:"name"`
		CampaignType    string                 `json:"campaign_type"`
		TargetCount     *int                   `json:"target_count,omitempty"`
		AIConfig        map[string]interface{} `json:"ai_config,omitempty"`
		TemplateConfig  map[string]interface{} `json:"template_config,omitempty"`
		ScheduleConfig  map[string]interface{} `json:"schedule_config,omitempty"`
		RateLimitConfig map[string]interface{} `json:"rate_limit_config,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ListID == "" || req.Name == "" || req.CampaignType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "list_id, name and campaign_type are required"})
	}

	campaign := &model.Campaign{
		UserID:          claims.UserID,
		ListID:          req.ListID,
		Name:            req.Name,
		CampaignType:    model.CampaignType(req.CampaignType),
		TargetCount:     req.TargetCount,
		AIConfig:        marshalConfig(req.AIConfig),
		TemplateConfig:  marshalConfig(req.TemplateConfig),
		ScheduleConfig:  marshalConfig(req.ScheduleConfig),
		RateLimitConfig: marshalConfig(req.RateLimitConfig),
	}

	err := h.Store.CreateCampaign(c.Request().Context(), campaign)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign_type"})
	case store.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
	case store.ErrOwnershipMismatch:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "list belongs to another user"})
	case store.ErrForeignKey:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
	default:
		log.Error("Failed to create campaign", zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_campaign"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create campaign"})
	}

	prometheus.CampaignCreatedCounter.Inc()
	recordAudit(c, h.Store, claims.UserID, "campaigns", campaign.ID, "INSERT", campaign)

	log.Info("Campaign created",
		zap.String("campaign_id", campaign.ID),
		zap.String("list_id", campaign.ListID),
		zap.String("type", string(campaign.CampaignType)))
	return c.JSON(http.StatusCreated, campaign)
}

// List returns the caller's campaigns, optionally filtered by status
func (h *CampaignHandler) List(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var status *model.CampaignStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.CampaignStatus(raw)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
		status = &s
	}

	campaigns, err := h.Store.ListCampaigns(c.Request().Context(), claims.UserID, status)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list campaigns", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list campaigns"})
	}

	return c.JSON(http.StatusOK, echo.Map{"campaigns": campaigns, "count": len(campaigns)})
}

// Get returns one campaign
func (h *CampaignHandler) Get(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	campaign, err := h.Store.FindCampaignByID(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		logger.FromEcho(c).Error("Failed to load campaign", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load campaign"})
	}

	return c.JSON(http.StatusOK, campaign)
}

// UpdateStatus moves a campaign through its lifecycle. Only the declared
// transitions are allowed; anything else comes back 422.
func (h *CampaignHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Status model.CampaignStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	campaignID := c.Param("id")
	campaign, err := h.Store.UpdateCampaignStatus(c.Request().Context(), claims.UserID, campaignID, req.Status)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
	case store.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
	case store.ErrInvalidTransition:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status transition not allowed"})
	default:
		log.Error("Failed to update campaign status", zap.String("campaign_id", campaignID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	recordAudit(c, h.Store, claims.UserID, "campaigns", campaignID, "UPDATE", req)
	h.Monitor.TrackEvent("campaigns", "status_changed", map[string]interface{}{
		"campaign_id": campaignID,
		"status":      string(req.Status),
	})

	log.Info("Campaign status updated",
		zap.String("campaign_id", campaignID),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, campaign)
}

func marshalConfig(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func marshalConfigSlice(s []map[string]interface{}) datatypes.JSON {
	if len(s) == 0 {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
