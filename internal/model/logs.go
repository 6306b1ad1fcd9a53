package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a mutating action. Rows are never
// updated after insert; losing the acting user nulls the reference only.
type AuditLog struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    *string        `json:"user_id,omitempty" gorm:"type:uuid;index:idx_audit_logs_user_table_created"`
	TableName string         `json:"table_name" gorm:"type:varchar(100);not null;index:idx_audit_logs_user_table_created"`
	RecordID  string         `json:"record_id" gorm:"type:uuid;not null"`
	Action    string         `json:"action" gorm:"type:varchar(20);not null"`
	OldValues datatypes.JSON `json:"old_values,omitempty"`
	NewValues datatypes.JSON `json:"new_values,omitempty"`
	IPAddress *string        `json:"ip_address,omitempty" gorm:"type:inet"`
	UserAgent *string        `json:"user_agent,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_audit_logs_user_table_created"`
}

// BeforeCreate hook assigns the surrogate key
func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

// SystemLog is an append-only operational event record
type SystemLog struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	Level        LogLevel       `json:"level" gorm:"type:varchar(10);not null;index:idx_system_logs_level_created;check:level IN ('DEBUG','INFO','WARNING','ERROR','CRITICAL')"`
	Message      string         `json:"message" gorm:"type:text;not null"`
	Module       *string        `json:"module,omitempty" gorm:"type:varchar(100)"`
	FunctionName *string        `json:"function_name,omitempty" gorm:"type:varchar(100)"`
	LineNumber   *int           `json:"line_number,omitempty"`
	Context      datatypes.JSON `json:"context,omitempty"`
	TraceID      *string        `json:"trace_id,omitempty" gorm:"type:varchar(100)"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index:idx_system_logs_level_created"`
}

// BeforeCreate hook assigns the surrogate key
func (s *SystemLog) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}
