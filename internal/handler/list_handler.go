package handler

import (
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ListHandler serves company list management
type ListHandler struct {
	Store   *store.Store
	Monitor monitoring.Monitor
}

func NewListHandler(s *store.Store, monitor monitoring.Monitor) *ListHandler {
	return &ListHandler{Store: s, Monitor: monitor}
}

// Create builds a list and its companies in one shot. The whole import is a
// single transaction: either the list, every company and every membership row
// land, or nothing does.
func (h *ListHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name        string           `json:"name"`
		Description *string          `json:"description,omitempty"`
		Companies   []companyRequest `json:"companies,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	companies := make([]model.Company, 0, len(req.Companies))
	for _, cr := range req.Companies {
		if cr.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "every company needs a name"})
		}
		companies = append(companies, model.Company{
			Name:               cr.Name,
			Domain:             cr.Domain,
			WebsiteURL:         cr.WebsiteURL,
			Industry:           cr.Industry,
			EmployeeCountRange: cr.EmployeeCountRange,
			RevenueRange:       cr.RevenueRange,
			Country:            cr.Country,
			Prefecture:         cr.Prefecture,
			City:               cr.City,
			Description:        cr.Description,
			Tags:               pq.StringArray(cr.Tags),
			CustomFields:       datatypes.JSONMap(cr.CustomFields),
		})
	}

	list, err := h.Store.CreateListWithCompanies(c.Request().Context(), claims.UserID, req.Name, req.Description, companies)
	switch err {
	case nil:
	case store.ErrInvalidValue:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company data"})
	case store.ErrDuplicate:
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate company in list"})
	default:
		log.Error("Failed to create list", zap.String("user_id", claims.UserID), zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_list"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create list"})
	}

	prometheus.ListCreatedCounter.Inc()
	recordAudit(c, h.Store, claims.UserID, "company_lists", list.ID, "INSERT", list)
	h.Monitor.TrackEvent("lists", "list_created", map[string]interface{}{
		"list_id":   list.ID,
		"companies": len(companies),
	})

	log.Info("List created",
		zap.String("list_id", list.ID),
		zap.Int("companies", len(companies)))
	return c.JSON(http.StatusCreated, list)
}

// List returns the caller's lists
func (h *ListHandler) List(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	lists, err := h.Store.ListLists(c.Request().Context(), claims.UserID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list company lists", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list company lists"})
	}

	return c.JSON(http.StatusOK, echo.Map{"lists": lists, "count": len(lists)})
}

// Get returns one list with its membership rows
func (h *ListHandler) Get(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	list, err := h.Store.FindListByID(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
		}
		logger.FromEcho(c).Error("Failed to load list", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load list"})
	}

	return c.JSON(http.StatusOK, list)
}

// AddCompany appends an existing company to a list
func (h *ListHandler) AddCompany(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	listID := c.Param("id")
	ctx := c.Request().Context()

	var req struct {
		CompanyID string `json:"company_id"`
	}
	if err := c.Bind(&req); err != nil || req.CompanyID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id is required"})
	}

	// Both the list and the company must belong to the caller
	if _, err := h.Store.FindListByID(ctx, claims.UserID, listID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load list"})
	}
	if _, err := h.Store.FindCompanyByID(ctx, claims.UserID, req.CompanyID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load company"})
	}

	item, err := h.Store.AddCompanyToList(ctx, listID, req.CompanyID)
	switch err {
	case nil:
	case store.ErrDuplicate:
		return c.JSON(http.StatusConflict, echo.Map{"error": "company already in list"})
	default:
		log.Error("Failed to add company to list",
			zap.String("list_id", listID),
			zap.String("company_id", req.CompanyID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add company"})
	}

	recordAudit(c, h.Store, claims.UserID, "company_list_items", item.ID, "INSERT", item)

	return c.JSON(http.StatusCreated, item)
}

// Delete removes a list. Companies survive with their list reference cleared;
// a list still targeted by a campaign cannot go.
func (h *ListHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	listID := c.Param("id")
	err := h.Store.DeleteList(c.Request().Context(), claims.UserID, listID)
	switch err {
	case nil:
	case store.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
	case store.ErrForeignKey:
		return c.JSON(http.StatusConflict, echo.Map{"error": "list is still used by a campaign"})
	default:
		log.Error("Failed to delete list", zap.String("list_id", listID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete list"})
	}

	recordAudit(c, h.Store, claims.UserID, "company_lists", listID, "DELETE", nil)

	log.Info("List deleted", zap.String("list_id", listID))
	return c.NoContent(http.StatusNoContent)
}
