// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}
	return errors.New("unsupported type for JSONB")
}

// Enums
type UserType string

const (
	UserTypeProducer UserType = "producer"
	UserTypeConsumer UserType = "consumer"
)

func (t UserType) IsValid() bool {
	return t == UserTypeProducer || t == UserTypeConsumer
}

type ListingCategory string

const (
	CategoryOrganic  ListingCategory = "Organic"
	CategoryPlastic  ListingCategory = "Plastic"
	CategoryPaper    ListingCategory = "Paper"
	CategoryGlass    ListingCategory = "Glass"
	CategoryEWaste   ListingCategory = "E-Waste"
	CategoryTextiles ListingCategory = "Textiles"
)

var ListingCategories = []ListingCategory{
	CategoryOrganic,
	CategoryPlastic,
	CategoryPaper,
	CategoryGlass,
	CategoryEWaste,
	CategoryTextiles,
}

func (c ListingCategory) IsValid() bool {
	for _, v := range ListingCategories {
		if c == v {
			return true
		}
	}
	return false
}

type ListingUnit string

const (
	UnitKilograms ListingUnit = "Kilograms (kg)"
	UnitGrams     ListingUnit = "Grams (g)"
	UnitTons      ListingUnit = "Tons (t)"
	UnitLiters    ListingUnit = "Liters (l)"
	UnitPieces    ListingUnit = "Pieces (pcs)"
	UnitBags      ListingUnit = "Bags"
)

var ListingUnits = []ListingUnit{
	UnitKilograms,
	UnitGrams,
	UnitTons,
	UnitLiters,
	UnitPieces,
	UnitBags,
}

func (u ListingUnit) IsValid() bool {
	for _, v := range ListingUnits {
		if u == v {
			return true
		}
	}
	return false
}

type PricingMode string

const (
	PricingNegotiable PricingMode = "negotiable"
	PricingFixed      PricingMode = "fixed"
)

func (p PricingMode) IsValid() bool {
	return p == PricingNegotiable || p == PricingFixed
}

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusCompleted ListingStatus = "completed"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusAvailable, ListingStatusPending, ListingStatusCompleted:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusConfirmed  TransactionStatus = "confirmed"
	TransactionStatusInProgress TransactionStatus = "in-progress"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusConfirmed,
		TransactionStatusInProgress, TransactionStatusCompleted,
		TransactionStatusCancelled:
		return true
	}
	return false
}

type SenderRole string

const (
	SenderRoleProducer SenderRole = "producer"
	SenderRoleConsumer SenderRole = "consumer"
	SenderRoleSystem   SenderRole = "system"
)

type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeQuickAction MessageType = "quick-action"
)

type QuickActionType string

const (
	QuickActionConfirmPickup QuickActionType = "confirm-pickup"
	QuickActionReviewPrice   QuickActionType = "review-price"
	QuickActionCustom        QuickActionType = "custom"
)

func (q QuickActionType) IsValid() bool {
	switch q {
	case QuickActionConfirmPickup, QuickActionReviewPrice, QuickActionCustom:
		return true
	}
	return false
}
