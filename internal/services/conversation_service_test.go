// internal/services/conversation_service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/models"
)

type ConversationServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *ConversationService
	listings *ListingService
}

func (suite *ConversationServiceTestSuite) SetupSuite() {
	suite.db = openTestDB(suite.T(), "conversation_service_test")
	suite.service = NewConversationService(suite.db)
	suite.listings = NewListingService(suite.db)

	suite.NoError(i18n.Initialize("../i18n/locales"))
}

func (suite *ConversationServiceTestSuite) SetupTest() {
	resetTables(suite.db)
}

func (suite *ConversationServiceTestSuite) createListing(ownerID string) *models.Listing {
	listing, err := suite.listings.CreateListing(ownerID, &CreateListingRequest{
		Category:    "Organic",
		Description: "Vegetable market offcuts",
		Quantity:    3,
		Unit:        "Bags",
		Pricing:     "negotiable",
		Location:    models.Location{City: "Nairobi"},
	})
	suite.Require().NoError(err)
	return listing
}

func (suite *ConversationServiceTestSuite) claim(listingID uuid.UUID) *models.Transaction {
	tx, created, err := suite.service.ClaimListing("user_consumer", "wanjiku", &ClaimListingRequest{
		ListingID:    listingID,
		ProducerName: "Mama Mboga",
		ConsumerName: "Wanjiku",
	})
	suite.Require().NoError(err)
	suite.Require().True(created)
	return tx
}

func (suite *ConversationServiceTestSuite) TestClaimCreatesTransactionAndSeedMessage() {
	listing := suite.createListing("user_producer")

	tx := suite.claim(listing.ID)
	suite.Equal(models.TransactionStatusPending, tx.Status)
	suite.Equal("user_producer", tx.ProducerID)
	suite.Equal("user_consumer", tx.ConsumerID)
	suite.Equal("Mama Mboga", tx.ProducerName)
	suite.Equal("Wanjiku", tx.ConsumerName)

	var updated models.Listing
	suite.NoError(suite.db.First(&updated, "id = ?", listing.ID).Error)
	suite.Equal(models.ListingStatusPending, updated.Status)

	messages, err := suite.service.GetMessages(tx.ID, "user_producer")
	suite.NoError(err)
	suite.Require().Len(messages, 1)
	suite.Equal(models.SystemSenderID, messages[0].SenderID)
	suite.Equal(models.SenderRoleSystem, messages[0].SenderRole)
	suite.Equal(
		fmt.Sprintf("%s has claimed this listing. Start chatting to coordinate pickup!", "Wanjiku"),
		messages[0].MessageText,
	)
}

func (suite *ConversationServiceTestSuite) TestClaimUsesMirroredProfileNames() {
	suite.NoError(suite.db.Create(&models.User{
		ExternalID: "user_producer",
		Email:      "njeri@example.com",
		Username:   "njeri",
		FirstName:  "Njeri",
		LastName:   "Kamau",
		UserType:   models.UserTypeProducer,
	}).Error)

	listing := suite.createListing("user_producer")
	tx, _, err := suite.service.ClaimListing("user_consumer", "wanjiku", &ClaimListingRequest{
		ListingID: listing.ID,
	})
	suite.NoError(err)
	suite.Equal("Njeri Kamau", tx.ProducerName)
	suite.Equal("wanjiku", tx.ConsumerName)
}

func (suite *ConversationServiceTestSuite) TestClaimIsIdempotent() {
	listing := suite.createListing("user_producer")
	first := suite.claim(listing.ID)

	second, created, err := suite.service.ClaimListing("user_consumer", "wanjiku", &ClaimListingRequest{
		ListingID: listing.ID,
	})
	suite.NoError(err)
	suite.False(created)
	suite.Equal(first.ID, second.ID)

	var messageCount int64
	suite.NoError(suite.db.Model(&models.Message{}).
		Where("transaction_id = ?", first.ID).
		Count(&messageCount).Error)
	suite.Equal(int64(1), messageCount)
}

func (suite *ConversationServiceTestSuite) TestClaimOwnListingRejected() {
	listing := suite.createListing("user_producer")

	_, _, err := suite.service.ClaimListing("user_producer", "njeri", &ClaimListingRequest{
		ListingID: listing.ID,
	})
	suite.ErrorIs(err, ErrSelfClaim)
}

func (suite *ConversationServiceTestSuite) TestClaimMissingListing() {
	_, _, err := suite.service.ClaimListing("user_consumer", "wanjiku", &ClaimListingRequest{
		ListingID: uuid.New(),
	})
	suite.ErrorIs(err, ErrListingNotFound)
}

func (suite *ConversationServiceTestSuite) TestSendMessageIncrementsOtherPartyUnread() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	_, err := suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText: "Is the produce still fresh?",
	})
	suite.NoError(err)

	var reloaded models.Transaction
	suite.NoError(suite.db.First(&reloaded, "id = ?", tx.ID).Error)
	suite.Equal(1, reloaded.UnreadCountProducer)
	suite.Equal(0, reloaded.UnreadCountConsumer)
	suite.True(reloaded.LastMessageAt.After(tx.LastMessageAt) || reloaded.LastMessageAt.Equal(tx.LastMessageAt))

	_, err = suite.service.SendMessage(tx.ID, "user_producer", &SendMessageRequest{
		MessageText: "Picked this morning.",
	})
	suite.NoError(err)

	suite.NoError(suite.db.First(&reloaded, "id = ?", tx.ID).Error)
	suite.Equal(1, reloaded.UnreadCountProducer)
	suite.Equal(1, reloaded.UnreadCountConsumer)
}

func (suite *ConversationServiceTestSuite) TestSendQuickActionMessage() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	message, err := suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText:     "Confirm pickup for tomorrow?",
		MessageType:     "quick-action",
		QuickActionType: "confirm-pickup",
	})
	suite.NoError(err)
	suite.Equal(models.MessageTypeQuickAction, message.MessageType)
	suite.Require().NotNil(message.QuickActionType)
	suite.Equal(models.QuickActionConfirmPickup, *message.QuickActionType)

	_, err = suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText:     "bad action",
		QuickActionType: "teleport",
	})
	suite.ErrorIs(err, ErrInvalidQuickAction)
}

func (suite *ConversationServiceTestSuite) TestUnknownEnumValuesRejected() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	var fieldErr *InvalidFieldError

	_, err := suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText: "hello",
		MessageType: "carrier-pigeon",
	})
	suite.ErrorAs(err, &fieldErr)
	suite.Equal("message_type", fieldErr.Field)

	_, err = suite.service.UpdateStatus(tx.ID, "user_producer", &UpdateStatusRequest{
		Status: "warp-speed",
	})
	suite.ErrorAs(err, &fieldErr)
	suite.Equal("status", fieldErr.Field)
}

func (suite *ConversationServiceTestSuite) TestGetMessagesIsSideEffectFree() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	_, err := suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText: "Hello",
	})
	suite.NoError(err)

	_, err = suite.service.GetMessages(tx.ID, "user_producer")
	suite.NoError(err)

	var reloaded models.Transaction
	suite.NoError(suite.db.First(&reloaded, "id = ?", tx.ID).Error)
	suite.Equal(1, reloaded.UnreadCountProducer)
}

func (suite *ConversationServiceTestSuite) TestMarkMessagesRead() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	_, err := suite.service.SendMessage(tx.ID, "user_consumer", &SendMessageRequest{
		MessageText: "Hello",
	})
	suite.NoError(err)

	updated, err := suite.service.MarkMessagesRead(tx.ID, "user_producer")
	suite.NoError(err)
	suite.Equal(0, updated.UnreadCountProducer)

	var unread int64
	suite.NoError(suite.db.Model(&models.Message{}).
		Where("transaction_id = ? AND is_read = ?", tx.ID, false).
		Count(&unread).Error)
	suite.Equal(int64(0), unread)
}

func (suite *ConversationServiceTestSuite) TestOutsiderCannotAccessConversation() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	_, err := suite.service.GetMessages(tx.ID, "user_stranger")
	suite.ErrorIs(err, ErrNotParty)

	_, err = suite.service.SendMessage(tx.ID, "user_stranger", &SendMessageRequest{
		MessageText: "let me in",
	})
	suite.ErrorIs(err, ErrNotParty)

	_, err = suite.service.UpdateStatus(tx.ID, "user_stranger", &UpdateStatusRequest{
		Status: "confirmed",
	})
	suite.ErrorIs(err, ErrNotParty)
}

func (suite *ConversationServiceTestSuite) TestListConversationsOrderedByActivity() {
	first := suite.createListing("user_producer")
	second := suite.createListing("user_producer")

	firstTx := suite.claim(first.ID)
	secondTx := suite.claim(second.ID)

	// Activity on the first conversation moves it back to the top.
	time.Sleep(10 * time.Millisecond)
	_, err := suite.service.SendMessage(firstTx.ID, "user_consumer", &SendMessageRequest{
		MessageText: "Still available?",
	})
	suite.NoError(err)

	conversations, err := suite.service.ListConversations("user_producer")
	suite.NoError(err)
	suite.Require().Len(conversations, 2)
	suite.Equal(firstTx.ID, conversations[0].ID)
	suite.Equal(secondTx.ID, conversations[1].ID)
	suite.Require().NotNil(conversations[0].Listing)
	suite.Equal(first.ID, conversations[0].Listing.ID)
}

func (suite *ConversationServiceTestSuite) TestStatusLifecycleToCompletion() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	pickup := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	price := 450.0

	updated, err := suite.service.UpdateStatus(tx.ID, "user_producer", &UpdateStatusRequest{
		Status:      "confirmed",
		PickupTime:  &pickup,
		AgreedPrice: &price,
	})
	suite.NoError(err)
	suite.Equal(models.TransactionStatusConfirmed, updated.Status)
	suite.Require().NotNil(updated.AgreedPrice)
	suite.Equal(450.0, *updated.AgreedPrice)

	_, err = suite.service.UpdateStatus(tx.ID, "user_producer", &UpdateStatusRequest{Status: "in-progress"})
	suite.NoError(err)

	updated, err = suite.service.UpdateStatus(tx.ID, "user_producer", &UpdateStatusRequest{Status: "completed"})
	suite.NoError(err)
	suite.Equal(models.TransactionStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.Listing)
	suite.Equal(models.ListingStatusCompleted, updated.Listing.Status)
}

func (suite *ConversationServiceTestSuite) TestCancellationReleasesListing() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	updated, err := suite.service.UpdateStatus(tx.ID, "user_consumer", &UpdateStatusRequest{Status: "cancelled"})
	suite.NoError(err)
	suite.Equal(models.TransactionStatusCancelled, updated.Status)
	suite.Require().NotNil(updated.Listing)
	suite.Equal(models.ListingStatusAvailable, updated.Listing.Status)
}

func (suite *ConversationServiceTestSuite) TestIllegalTransitionsRejected() {
	listing := suite.createListing("user_producer")
	tx := suite.claim(listing.ID)

	var transitionErr *InvalidTransitionError

	_, err := suite.service.UpdateStatus(tx.ID, "user_producer", &UpdateStatusRequest{Status: "completed"})
	suite.ErrorAs(err, &transitionErr)
	suite.Equal(models.TransactionStatusPending, transitionErr.From)

	_, err = suite.service.UpdateStatus(tx.ID, "user_consumer", &UpdateStatusRequest{Status: "cancelled"})
	suite.NoError(err)

	// cancelled is terminal
	_, err = suite.service.UpdateStatus(tx.ID, "user_consumer", &UpdateStatusRequest{Status: "pending"})
	suite.ErrorAs(err, &transitionErr)
}

func TestConversationServiceSuite(t *testing.T) {
	suite.Run(t, new(ConversationServiceTestSuite))
}
