package handler

import (
	"net/http"
	"time"

	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	DB      *gorm.DB
	Version string
}

func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{DB: db, Version: version}
}

// Check pings the database and reports overall health
func (h *HealthHandler) Check(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		logger.FromEcho(c).Error("Database health check failed", zap.Error(err))
		status = "degraded"
		dbStatus = "unreachable"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, echo.Map{
		"status":    status,
		"database":  dbStatus,
		"version":   h.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
