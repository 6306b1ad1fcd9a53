package handler

import (
	"encoding/json"

	"outreach-service/internal/model"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// recordAudit appends an audit trail entry for a mutation. Audit writes are
// best-effort; a failure is logged and the request still succeeds.
func recordAudit(c echo.Context, s *store.Store, userID, tableName, recordID, action string, newValues interface{}) {
	entry := &model.AuditLog{
		UserID:    &userID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
	}

	if newValues != nil {
		if raw, err := json.Marshal(newValues); err == nil {
			entry.NewValues = datatypes.JSON(raw)
		}
	}

	if ip := c.RealIP(); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := c.Request().UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.RecordAudit(c.Request().Context(), entry); err != nil {
		logger.FromEcho(c).Warn("Failed to record audit entry",
			zap.String("table", tableName),
			zap.String("action", action),
			zap.Error(err))
	}
}
