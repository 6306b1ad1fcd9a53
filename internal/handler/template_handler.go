package handler

import (
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TemplateHandler serves reusable generation templates
type TemplateHandler struct {
	Store *store.Store
}

func NewTemplateHandler(s *store.Store) *TemplateHandler {
	return &TemplateHandler{Store: s}
}

// Create stores a new template owned by the caller
func (h *TemplateHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name            string                   `json:"name"`
		TemplateType    string                   `json:"template_type"`
		Industry        *string                  `json:"industry,omitempty"`
		Tone            string                   `json:"tone"`
		Language        string                   `json:"language,omitempty"`
		TemplateContent string                   `json:"template_content"`
		Variables       []map[string]interface{} `json:"variables,omitempty"`
		IsPublic        bool                     `json:"is_public"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.TemplateType == "" || req.Tone == "" || req.TemplateContent == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, template_type, tone and template_content are required"})
	}

	templateType := model.TemplateType(req.TemplateType)
	if !templateType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template_type"})
	}

	template := &model.AITemplate{
		UserID:          claims.UserID,
		Name:            req.Name,
		TemplateType:    templateType,
		Industry:        req.Industry,
		Tone:            req.Tone,
		Language:        req.Language,
		TemplateContent: req.TemplateContent,
		IsPublic:        req.IsPublic,
	}
	if len(req.Variables) > 0 {
		template.Variables = marshalConfigSlice(req.Variables)
	}

	if err := h.Store.CreateTemplate(c.Request().Context(), template); err != nil {
		log.Error("Failed to create template", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create template"})
	}

	recordAudit(c, h.Store, claims.UserID, "ai_templates", template.ID, "INSERT", template)

	log.Info("Template created",
		zap.String("template_id", template.ID),
		zap.String("type", string(template.TemplateType)))
	return c.JSON(http.StatusCreated, template)
}

// List returns the caller's templates plus public ones, optionally filtered
// by type.
func (h *TemplateHandler) List(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var templateType *model.TemplateType
	if raw := c.QueryParam("type"); raw != "" {
		t := model.TemplateType(raw)
		if !t.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type filter"})
		}
		templateType = &t
	}

	templates, err := h.Store.ListTemplates(c.Request().Context(), claims.UserID, templateType)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list templates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list templates"})
	}

	return c.JSON(http.StatusOK, echo.Map{"templates": templates, "count": len(templates)})
}

// Get returns one template the caller owns or a public one
func (h *TemplateHandler) Get(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	template, err := h.Store.FindTemplateByID(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		logger.FromEcho(c).Error("Failed to load template", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load template"})
	}

	return c.JSON(http.StatusOK, template)
}
