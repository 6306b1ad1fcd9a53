package handler

import (
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CompanyHandler serves prospect company CRUD
type CompanyHandler struct {
	Store   *store.Store
	Monitor monitoring.Monitor
}

func NewCompanyHandler(s *store.Store, monitor monitoring.Monitor) *CompanyHandler {
	return &CompanyHandler{Store: s, Monitor: monitor}
}

type companyRequest struct {
	Name               string                 `json:"name"`
	Domain             *string                `json:"domain,omitempty"`
	WebsiteURL         *string                `json:"website_url,omitempty"`
	Industry           *string                `json:"industry,omitempty"`
	EmployeeCountRange *string                `json:"employee_count_range,omitempty"`
	RevenueRange       *string                `json:"revenue_range,omitempty"`
	Country            string                 `json:"country,omitempty"`
	Prefecture         *string                `json:"prefecture,omitempty"`
	City               *string                `json:"city,omitempty"`
	Description        *string                `json:"description,omitempty"`
	Tags               []string               `json:"tags,omitempty"`
	CustomFields       map[string]interface{} `json:"custom_fields,omitempty"`
}

// Create inserts a company owned by the caller
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	company := &model.Company{
		UserID:             claims.UserID,
		Name:               req.Name,
		Domain:             req.Domain,
		WebsiteURL:         req.WebsiteURL,
		Industry:           req.Industry,
		EmployeeCountRange: req.EmployeeCountRange,
		RevenueRange:       req.RevenueRange,
		Country:            req.Country,
		Prefecture:         req.Prefecture,
		City:               req.City,
		Description:        req.Description,
		Tags:               pq.StringArray(req.Tags),
		CustomFields:       datatypes.JSONMap(req.CustomFields),
	}
	if err := h.Store.CreateCompany(c.Request().Context(), company); err != nil {
		log.Error("Failed to create company", zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_company"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create company"})
	}

	recordAudit(c, h.Store, claims.UserID, "companies", company.ID, "INSERT", company)

	log.Info("Company created", zap.String("company_id", company.ID), zap.String("user_id", claims.UserID))
	return c.JSON(http.StatusCreated, company)
}

// List returns the caller's companies, optionally filtered by status
func (h *CompanyHandler) List(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var status *model.CompanyStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.CompanyStatus(raw)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
		status = &s
	}

	companies, err := h.Store.ListCompanies(c.Request().Context(), claims.UserID, status)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list companies"})
	}

	return c.JSON(http.StatusOK, echo.Map{"companies": companies, "count": len(companies)})
}

// Get returns one company with its contacts
func (h *CompanyHandler) Get(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	company, err := h.Store.FindCompanyByID(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		logger.FromEcho(c).Error("Failed to load company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load company"})
	}

	return c.JSON(http.StatusOK, company)
}

// UpdateStatus moves a company through the pipeline stages
func (h *CompanyHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Status model.CompanyStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	companyID := c.Param("id")
	err := h.Store.UpdateCompanyStatus(c.Request().Context(), claims.UserID, companyID, req.Status)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
	case store.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	default:
		log.Error("Failed to update company status", zap.String("company_id", companyID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	recordAudit(c, h.Store, claims.UserID, "companies", companyID, "UPDATE", req)

	log.Info("Company status updated",
		zap.String("company_id", companyID),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, echo.Map{"id": companyID, "status": req.Status})
}

// Delete soft-deletes a company
func (h *CompanyHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	companyID := c.Param("id")
	if err := h.Store.DeleteCompany(c.Request().Context(), claims.UserID, companyID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to delete company", zap.String("company_id", companyID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete company"})
	}

	recordAudit(c, h.Store, claims.UserID, "companies", companyID, "DELETE", nil)

	log.Info("Company deleted", zap.String("company_id", companyID))
	return c.NoContent(http.StatusNoContent)
}

// AddContact attaches a contact person to a company the caller owns
func (h *CompanyHandler) AddContact(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	companyID := c.Param("id")
	ctx := c.Request().Context()

	// Ownership gate before touching the child table
	if _, err := h.Store.FindCompanyByID(ctx, claims.UserID, companyID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load company"})
	}

	var req struct {
		ContactType        string  `json:"contact_type"`
		Value              string  `json:"value"`
		ContactPersonName  *string `json:"contact_person_name,omitempty"`
		ContactPersonTitle *string `json:"contact_person_title,omitempty"`
		Department         *string `json:"department,omitempty"`
		IsPrimary          bool    `json:"is_primary"`
		Notes              *string `json:"notes,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ContactType == "" || req.Value == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact_type and value are required"})
	}

	contact := &model.CompanyContact{
		CompanyID:          companyID,
		ContactType:        req.ContactType,
		Value:              req.Value,
		ContactPersonName:  req.ContactPersonName,
		ContactPersonTitle: req.ContactPersonTitle,
		Department:         req.Department,
		IsPrimary:          req.IsPrimary,
		Notes:              req.Notes,
	}
	if err := h.Store.AddCompanyContact(ctx, contact); err != nil {
		log.Error("Failed to add contact", zap.String("company_id", companyID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add contact"})
	}

	recordAudit(c, h.Store, claims.UserID, "company_contacts", contact.ID, "INSERT", contact)

	return c.JSON(http.StatusCreated, contact)
}
