// internal/models/message.go
package models

import (
	"github.com/google/uuid"
)

// Message is an append-only chat entry scoped to a transaction. The only
// mutation after creation is the isRead flip performed by the mark-read
// operation.
type Message struct {
	BaseModel
	TransactionID   uuid.UUID        `json:"transaction_id" gorm:"type:uuid;not null;index:idx_messages_transaction_created,priority:1"`
	SenderID        string           `json:"sender_id" gorm:"size:255;not null"`
	SenderName      string           `json:"sender_name" gorm:"size:255;not null"`
	SenderRole      SenderRole       `json:"sender_role" gorm:"size:20;not null"`
	MessageText     string           `json:"message_text" gorm:"type:text;not null"`
	MessageType     MessageType      `json:"message_type" gorm:"size:20;default:'text'"`
	QuickActionType *QuickActionType `json:"quick_action_type,omitempty" gorm:"size:30"`
	IsRead          bool             `json:"is_read" gorm:"default:false"`

	// Relationships
	Transaction *Transaction `json:"transaction,omitempty" gorm:"foreignKey:TransactionID"`
}

// SystemSenderID identifies messages authored by the platform itself, such
// as the seed message created when a listing is claimed.
const SystemSenderID = "system"
