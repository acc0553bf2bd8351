// internal/models/audit.go
package models

type AuditLog struct {
	BaseModel
	UserID       string `json:"user_id" gorm:"size:255;index"`
	Action       string `json:"action" gorm:"size:255;not null"`
	ResourceType string `json:"resource_type" gorm:"size:100;index"`
	ResourceID   string `json:"resource_id" gorm:"size:255"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"size:512"`
	NewValues    JSONB  `json:"new_values" gorm:"type:jsonb"`
}
