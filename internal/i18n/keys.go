// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication / authorization
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAccessDenied     = "auth.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Listings
	KeyListingCreated       = "listing.created"
	KeyListingUpdated       = "listing.updated"
	KeyListingDeleted       = "listing.deleted"
	KeyListingNotFound      = "listing.not_found"
	KeyListingNotDeletable  = "listing.not_deletable"
	KeyListingFixedPriceReq = "listing.fixed_price_required"

	// Transactions
	KeyTransactionClaimed       = "transaction.claimed"
	KeyTransactionNotFound      = "transaction.not_found"
	KeyTransactionNotParty      = "transaction.not_party"
	KeyTransactionBadTransition = "transaction.bad_transition"
	KeyTransactionSelfClaim     = "transaction.self_claim"
	KeyTransactionUpdated       = "transaction.updated"

	// Messages
	KeyMessageSent     = "message.sent"
	KeyMessageEmpty    = "message.empty"
	KeyMessagesRead    = "message.marked_read"
	KeyMessageSeedText = "message.seed_text"

	// Users
	KeyUserNotFound    = "user.not_found"
	KeyUserInvalidType = "user.invalid_type"

	// Webhook
	KeyWebhookBadSignature = "webhook.bad_signature"
	KeyWebhookProcessed    = "webhook.processed"

	// Uploads
	KeyUploadFailed = "upload.failed"
)
