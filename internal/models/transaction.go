// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// transitions is the allowed successor table for transaction statuses.
// completed and cancelled are terminal.
var transitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending:    {TransactionStatusConfirmed, TransactionStatusCancelled},
	TransactionStatusConfirmed:  {TransactionStatusInProgress, TransactionStatusCancelled},
	TransactionStatusInProgress: {TransactionStatusCompleted, TransactionStatusCancelled},
	TransactionStatusCompleted:  {},
	TransactionStatusCancelled:  {},
}

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transaction records one consumer's claim on a listing and anchors the
// conversation between the two parties. At most one transaction exists per
// (listing, consumer) pair, enforced by a unique index.
type Transaction struct {
	BaseModel
	ListingID           uuid.UUID         `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_transactions_listing_consumer"`
	ProducerID          string            `json:"producer_id" gorm:"size:255;not null;index:idx_transactions_producer_activity,priority:1"`
	ProducerName        string            `json:"producer_name" gorm:"size:255;not null"`
	ConsumerID          string            `json:"consumer_id" gorm:"size:255;not null;uniqueIndex:idx_transactions_listing_consumer;index:idx_transactions_consumer_activity,priority:1"`
	ConsumerName        string            `json:"consumer_name" gorm:"size:255;not null"`
	Status              TransactionStatus `json:"status" gorm:"size:20;default:'pending';index"`
	PickupTime          *time.Time        `json:"pickup_time"`
	AgreedPrice         *float64          `json:"agreed_price" gorm:"type:decimal(10,2)"`
	LastMessageAt       time.Time         `json:"last_message_at" gorm:"index:idx_transactions_producer_activity,priority:2,sort:desc;index:idx_transactions_consumer_activity,priority:2,sort:desc"`
	UnreadCountProducer int               `json:"unread_count_producer" gorm:"default:0"`
	UnreadCountConsumer int               `json:"unread_count_consumer" gorm:"default:0"`

	// Relationships
	Listing  *Listing  `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:TransactionID"`
}

// IsParty reports whether the given caller identity belongs to either side
// of the transaction.
func (t *Transaction) IsParty(userID string) bool {
	return t.ProducerID == userID || t.ConsumerID == userID
}

// RoleOf maps a party identity to its conversation role. Callers must check
// IsParty first.
func (t *Transaction) RoleOf(userID string) SenderRole {
	if t.ProducerID == userID {
		return SenderRoleProducer
	}
	return SenderRoleConsumer
}
