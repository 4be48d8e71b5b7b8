// internal/models/audit.go
package models

import (
	"github.com/lib/pq"
)

type AuditLog struct {
	BaseModel
	UserID       *int64 `json:"user_id" gorm:"index"`
	UserEmail    string `json:"user_email" gorm:"size:255"`
	Action       string `json:"action" gorm:"size:255;not null"`
	ResourceType string `json:"resource_type" gorm:"size:50;index"`
	ResourceID   string `json:"resource_id" gorm:"size:255;index"`
	IPAddress    string `json:"ip_address" gorm:"size:64"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
	Status       int    `json:"status"`
	DurationMS   int64  `json:"duration_ms"`
}

// ProjectionRepair records one product whose summary or search-index
// documents were rewritten or removed by reconciliation.
type ProjectionRepair struct {
	BaseModel
	ProductID string         `json:"product_id" gorm:"size:255;not null;index"`
	Repaired  pq.StringArray `json:"repaired" gorm:"type:text[]"`
	Orphaned  bool           `json:"orphaned" gorm:"default:false"`
}
