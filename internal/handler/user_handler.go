package handler

import (
	"net/http"

	"outreach-service/internal/middleware"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler serves the authenticated user's own profile
type UserHandler struct {
	Store   *store.Store
	Monitor monitoring.Monitor
}

func NewUserHandler(s *store.Store, monitor monitoring.Monitor) *UserHandler {
	return &UserHandler{Store: s, Monitor: monitor}
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	user, err := h.Store.FindUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		logger.FromEcho(c).Error("Failed to load user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial profile update. Absent fields are left alone.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name        *string `json:"name,omitempty"`
		CompanyName *string `json:"company_name,omitempty"`
		AvatarURL   *string `json:"avatar_url,omitempty"`
		Timezone    *string `json:"timezone,omitempty"`
		Locale      *string `json:"locale,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.Store.UpdateUserProfile(c.Request().Context(), claims.UserID, store.UserProfileUpdate{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		AvatarURL:   req.AvatarURL,
		Timezone:    req.Timezone,
		Locale:      req.Locale,
	})
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Error("Failed to update profile", zap.String("user_id", claims.UserID), zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "update_profile"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	recordAudit(c, h.Store, claims.UserID, "users", user.ID, "UPDATE", req)

	log.Info("Profile updated", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// DeleteMe removes the account. The database cascades to every owned row;
// audit entries survive with the user reference nulled.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Store.DeleteUser(c.Request().Context(), claims.UserID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Error("Failed to delete account", zap.String("user_id", claims.UserID), zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "delete_account"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete account"})
	}

	h.Monitor.TrackEvent("account", "user_deleted", map[string]interface{}{"user_id": claims.UserID})

	log.Info("Account deleted", zap.String("user_id", claims.UserID))
	return c.NoContent(http.StatusNoContent)
}
