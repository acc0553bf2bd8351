// internal/services/conversation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/models"
	"github.com/takabora/takabora-backend/internal/utils"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotParty            = errors.New("caller is not a party to this transaction")
	ErrSelfClaim           = errors.New("cannot claim your own listing")
	ErrInvalidQuickAction  = errors.New("invalid quick action type")
)

// InvalidTransitionError reports a status change that is not in the
// transaction lifecycle table.
type InvalidTransitionError struct {
	From models.TransactionStatus
	To   models.TransactionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transaction status cannot change from %s to %s", e.From, e.To)
}

// ConversationService orchestrates claims, the chat thread attached to each
// transaction, and transaction lifecycle changes. Multi-store writes run
// inside a single database transaction.
type ConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

type ClaimListingRequest struct {
	ListingID    uuid.UUID `json:"listing_id" validate:"required"`
	ProducerName string    `json:"producer_name,omitempty"`
	ConsumerName string    `json:"consumer_name,omitempty"`
}

type SendMessageRequest struct {
	MessageText     string `json:"message_text" validate:"required"`
	MessageType     string `json:"message_type,omitempty"`
	QuickActionType string `json:"quick_action_type,omitempty"`
	SenderName      string `json:"sender_name,omitempty"`
}

type UpdateStatusRequest struct {
	Status      string     `json:"status,omitempty"`
	PickupTime  *time.Time `json:"pickup_time,omitempty"`
	AgreedPrice *float64   `json:"agreed_price,omitempty" validate:"omitempty,gt=0"`
}

// ClaimListing creates the transaction tying a consumer to a listing. The
// unique (listing_id, consumer_id) index is the arbiter: a concurrent or
// repeated claim surfaces as a duplicate-key conflict and is answered with
// the existing transaction, so the operation stays idempotent. The listing
// status flip, the transaction insert and the seed message commit together
// or not at all.
func (s *ConversationService) ClaimListing(consumerID, consumerUsername string, req *ClaimListingRequest) (*models.Transaction, bool, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", req.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrListingNotFound
		}
		return nil, false, fmt.Errorf("database error: %w", err)
	}

	if listing.OwnerID == consumerID {
		return nil, false, ErrSelfClaim
	}

	producerName := s.resolveDisplayName(listing.OwnerID, req.ProducerName)
	if producerName == "" {
		producerName = "Producer"
	}
	consumerName := s.resolveDisplayName(consumerID, req.ConsumerName)
	if consumerName == "" {
		consumerName = consumerUsername
	}

	transaction := &models.Transaction{
		ListingID:     listing.ID,
		ProducerID:    listing.OwnerID,
		ProducerName:  producerName,
		ConsumerID:    consumerID,
		ConsumerName:  consumerName,
		Status:        models.TransactionStatusPending,
		LastMessageAt: time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Listing{}).
			Where("id = ?", listing.ID).
			Update("status", models.ListingStatusPending).Error; err != nil {
			return fmt.Errorf("failed to update listing status: %w", err)
		}

		seed := &models.Message{
			TransactionID: transaction.ID,
			SenderID:      models.SystemSenderID,
			SenderName:    "Taka Bora",
			SenderRole:    models.SenderRoleSystem,
			MessageText:   i18n.T("en", i18n.KeyMessageSeedText, consumerName),
			MessageType:   models.MessageTypeText,
		}
		if err := tx.Create(seed).Error; err != nil {
			return fmt.Errorf("failed to create seed message: %w", err)
		}

		return nil
	})

	if err != nil {
		// The insert lost to an existing (listing, consumer) row: the claim
		// already happened, return it unchanged.
		var existing models.Transaction
		lookupErr := s.db.
			Where("listing_id = ? AND consumer_id = ?", listing.ID, consumerID).
			First(&existing).Error
		if lookupErr == nil {
			return &existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create transaction: %w", err)
	}

	return transaction, true, nil
}

// ListConversations returns every transaction the caller is a party to,
// most recently active first, with the listing expanded.
func (s *ConversationService) ListConversations(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.
		Where("producer_id = ? OR consumer_id = ?", userID, userID).
		Preload("Listing").
		Order("last_message_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	return transactions, nil
}

func (s *ConversationService) getPartyTransaction(transactionID uuid.UUID, userID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !transaction.IsParty(userID) {
		return nil, ErrNotParty
	}

	return &transaction, nil
}

// GetMessages returns the transaction's messages in creation order. Reading
// is side-effect free; read receipts are handled by MarkMessagesRead.
func (s *ConversationService) GetMessages(transactionID uuid.UUID, userID string) ([]models.Message, error) {
	if _, err := s.getPartyTransaction(transactionID, userID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, nil
}

// SendMessage appends a message authored by one party. The sender role is
// derived from the verified caller identity, never from the request body.
func (s *ConversationService) SendMessage(transactionID uuid.UUID, userID string, req *SendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	transaction, err := s.getPartyTransaction(transactionID, userID)
	if err != nil {
		return nil, err
	}

	role := transaction.RoleOf(userID)

	senderName := req.SenderName
	if senderName == "" {
		if role == models.SenderRoleProducer {
			senderName = transaction.ProducerName
		} else {
			senderName = transaction.ConsumerName
		}
	}

	messageType := models.MessageTypeText
	if req.MessageType != "" {
		messageType = models.MessageType(req.MessageType)
		if messageType != models.MessageTypeText && messageType != models.MessageTypeQuickAction {
			return nil, &InvalidFieldError{Field: "message_type", Value: req.MessageType}
		}
	}

	var quickAction *models.QuickActionType
	if req.QuickActionType != "" {
		qa := models.QuickActionType(req.QuickActionType)
		if !qa.IsValid() {
			return nil, ErrInvalidQuickAction
		}
		quickAction = &qa
	}

	message := &models.Message{
		TransactionID:   transactionID,
		SenderID:        userID,
		SenderName:      senderName,
		SenderRole:      role,
		MessageText:     req.MessageText,
		MessageType:     messageType,
		QuickActionType: quickAction,
	}

	unreadColumn := "unread_count_consumer"
	if role == models.SenderRoleConsumer {
		unreadColumn = "unread_count_producer"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		// Bump activity and the other party's unread counter atomically.
		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", transactionID).
			Updates(map[string]interface{}{
				"last_message_at": time.Now(),
				unreadColumn:      gorm.Expr(unreadColumn+" + ?", 1),
			}).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// MarkMessagesRead flips every unread message not authored by the caller's
// role and resets the caller's unread counter.
func (s *ConversationService) MarkMessagesRead(transactionID uuid.UUID, userID string) (*models.Transaction, error) {
	transaction, err := s.getPartyTransaction(transactionID, userID)
	if err != nil {
		return nil, err
	}

	role := transaction.RoleOf(userID)

	counterColumn := "unread_count_producer"
	if role == models.SenderRoleConsumer {
		counterColumn = "unread_count_consumer"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("transaction_id = ? AND sender_role <> ? AND is_read = ?", transactionID, role, false).
			Update("is_read", true).Error; err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}

		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", transactionID).
			Update(counterColumn, 0).Error; err != nil {
			return fmt.Errorf("failed to reset unread counter: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getPartyTransaction(transactionID, userID)
}

// UpdateStatus applies a partial update of status, pickup time and agreed
// price. Status changes are validated against the lifecycle table, and a
// terminal status propagates to the listing: completed marks it completed,
// cancelled releases it back to available.
func (s *ConversationService) UpdateStatus(transactionID uuid.UUID, userID string, req *UpdateStatusRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	transaction, err := s.getPartyTransaction(transactionID, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	var nextStatus models.TransactionStatus
	if req.Status != "" {
		nextStatus = models.TransactionStatus(req.Status)
		if !nextStatus.IsValid() {
			return nil, &InvalidFieldError{Field: "status", Value: req.Status}
		}
		if !transaction.Status.CanTransitionTo(nextStatus) {
			return nil, &InvalidTransitionError{From: transaction.Status, To: nextStatus}
		}
		updates["status"] = nextStatus
	}
	if req.PickupTime != nil {
		updates["pickup_time"] = *req.PickupTime
	}
	if req.AgreedPrice != nil {
		updates["agreed_price"] = *req.AgreedPrice
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", transactionID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		switch nextStatus {
		case models.TransactionStatusCompleted:
			if err := tx.Model(&models.Listing{}).
				Where("id = ?", transaction.ListingID).
				Update("status", models.ListingStatusCompleted).Error; err != nil {
				return fmt.Errorf("failed to update listing status: %w", err)
			}
		case models.TransactionStatusCancelled:
			if err := tx.Model(&models.Listing{}).
				Where("id = ?", transaction.ListingID).
				Update("status", models.ListingStatusAvailable).Error; err != nil {
				return fmt.Errorf("failed to update listing status: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Transaction
	if err := s.db.Preload("Listing").First(&updated, "id = ?", transactionID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &updated, nil
}

func (s *ConversationService) resolveDisplayName(externalID, fallback string) string {
	var user models.User
	if err := s.db.Where("external_id = ?", externalID).First(&user).Error; err == nil {
		return user.DisplayName()
	}
	return fallback
}
