// internal/handlers/webhook.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/takabora/takabora-backend/internal/config"
	"github.com/takabora/takabora-backend/internal/i18n"
	"github.com/takabora/takabora-backend/internal/services"
	"github.com/takabora/takabora-backend/internal/utils"
)

// SignatureHeader carries the provider's HMAC over the raw request body.
const SignatureHeader = "X-Webhook-Signature"

// WebhookHandler ingests identity-provider user events and keeps the local
// user mirror in sync.
type WebhookHandler struct {
	userService *services.UserService
	config      *config.Config
}

func NewWebhookHandler(userService *services.UserService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
		config:      cfg,
	}
}

// identityEvent is the provider's envelope. Only the fields the mirror needs
// are decoded.
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		Username        string `json:"username"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		ProfileImageURL string `json:"profile_image_url"`
		UnsafeMetadata  struct {
			UserType string `json:"userType"`
		} `json:"unsafe_metadata"`
	} `json:"data"`
}

func (e *identityEvent) profile() *services.ProviderProfile {
	email := ""
	if len(e.Data.EmailAddresses) > 0 {
		email = e.Data.EmailAddresses[0].EmailAddress
	}
	return &services.ProviderProfile{
		ExternalID:   e.Data.ID,
		Email:        email,
		Username:     e.Data.Username,
		FirstName:    e.Data.FirstName,
		LastName:     e.Data.LastName,
		UserType:     e.Data.UnsafeMetadata.UserType,
		ProfileImage: e.Data.ProfileImageURL,
	}
}

// POST /webhooks/identity
func (h *WebhookHandler) HandleIdentityEvent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "payload"), nil)
		return
	}

	if h.config.Webhook.Secret != "" {
		signature := c.GetHeader(SignatureHeader)
		if !utils.VerifyWebhookSignature(h.config.Webhook.Secret, body, signature) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyWebhookBadSignature))
			return
		}
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "payload"), err.Error())
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"event_type":  event.Type,
		"external_id": event.Data.ID,
	})

	switch event.Type {
	case "user.created":
		if _, err := h.userService.CreateFromProvider(event.profile()); err != nil {
			log.WithError(err).Error("Failed to create user from webhook")
			utils.InternalErrorResponse(c, "")
			return
		}
		log.Info("User created from identity event")

	case "user.updated":
		if _, err := h.userService.UpdateFromProvider(event.profile()); err != nil {
			// Events can arrive out of order; ack unknown targets so the
			// provider does not redeliver forever.
			if errors.Is(err, services.ErrUserNotFound) {
				log.Warn("Update event for unknown user")
				break
			}
			log.WithError(err).Error("Failed to update user from webhook")
			utils.InternalErrorResponse(c, "")
			return
		}
		log.Info("User updated from identity event")

	case "user.deleted":
		if err := h.userService.DeleteByExternalID(event.Data.ID); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				log.Warn("Delete event for unknown user")
				break
			}
			log.WithError(err).Error("Failed to delete user from webhook")
			utils.InternalErrorResponse(c, "")
			return
		}
		log.Info("User deleted from identity event")

	default:
		// Unknown event types are acknowledged so the provider does not retry.
		log.Debug("Ignoring unhandled identity event type")
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWebhookProcessed),
	})
}
