package model

import (
	"github.com/google/uuid"
)

// newID creates a new surrogate key for a row
func newID() string {
	return uuid.New().String()
}

// newTrackingID creates a tracking identifier for outbound email
func newTrackingID() string {
	return "trk_" + uuid.New().String()
}

// All returns every model in migration order (parents before children)
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&UsageMetric{},
		&Company{},
		&CompanyContact{},
		&CompanyList{},
		&CompanyListItem{},
		&Campaign{},
		&SalesActivity{},
		&EmailActivity{},
		&FormActivity{},
		&AITemplate{},
		&AIGeneration{},
		&AuditLog{},
		&SystemLog{},
	}
}
