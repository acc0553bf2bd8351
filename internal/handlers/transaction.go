// internal/handlers/transaction.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/services"
	"github.com/takabora/takabora-backend/internal/utils"
)

type TransactionHandler struct {
	conversationService *services.ConversationService
}

func NewTransactionHandler(conversationService *services.ConversationService) *TransactionHandler {
	return &TransactionHandler{conversationService: conversationService}
}

// GET /transactions
func (h *TransactionHandler) GetConversations(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	transactions, err := h.conversationService.ListConversations(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"transactions": transactions,
	})
}

// POST /transactions
func (h *TransactionHandler) ClaimListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	username, _ := utils.GetUsernameFromContext(c)

	var req services.ClaimListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, created, err := h.conversationService.ClaimListing(userID, username, &req)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	// A repeated claim replays the existing transaction instead of failing.
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, utils.APIResponse{
		Success: true,
		Data: gin.H{
			"message":     i18n.T(lang, i18n.KeyTransactionClaimed),
			"transaction": transaction,
		},
	})
}

// GET /transactions/:id/messages
func (h *TransactionHandler) GetMessages(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	messages, err := h.conversationService.GetMessages(id, userID)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"messages": messages,
	})
}

// POST /transactions/:id/messages
func (h *TransactionHandler) SendMessage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyMessageEmpty), err.Error())
		return
	}

	message, err := h.conversationService.SendMessage(id, userID, &req)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
	})
}

// POST /transactions/:id/messages/read
func (h *TransactionHandler) MarkMessagesRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	transaction, err := h.conversationService.MarkMessagesRead(id, userID)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyMessagesRead),
		"transaction": transaction,
	})
}

// PATCH /transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.conversationService.UpdateStatus(id, userID, &req)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyTransactionUpdated),
		"transaction": transaction,
	})
}

func (h *TransactionHandler) respondTransactionError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var transitionErr *services.InvalidTransitionError
	var fieldErr *services.InvalidFieldError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrTransactionNotFound):
		utils.NotFoundResponse(c, "transaction")
	case errors.Is(err, services.ErrListingNotFound):
		utils.NotFoundResponse(c, "listing")
	case errors.Is(err, services.ErrNotParty):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyTransactionNotParty))
	case errors.Is(err, services.ErrSelfClaim):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyTransactionSelfClaim), nil)
	case errors.Is(err, services.ErrInvalidQuickAction):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "quick_action_type"), nil)
	case errors.As(err, &transitionErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyTransactionBadTransition, transitionErr.From, transitionErr.To), nil)
	case errors.As(err, &fieldErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, fieldErr.Field), nil)
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
	default:
		utils.InternalErrorResponse(c, "")
	}
}
