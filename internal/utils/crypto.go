// internal/utils/crypto.go
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeWebhookSignature returns the hex HMAC-SHA256 of the payload under
// the shared webhook secret.
func ComputeWebhookSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature compares a provider-supplied signature against the
// expected HMAC in constant time.
func VerifyWebhookSignature(secret string, payload []byte, signature string) bool {
	expected := ComputeWebhookSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
