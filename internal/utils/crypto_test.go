// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookSignature(t *testing.T) {
	payload := []byte(`{"type":"user.created","data":{"id":"user_abc123"}}`)
	signature := ComputeWebhookSignature("whsec_test", payload)

	assert.True(t, VerifyWebhookSignature("whsec_test", payload, signature))
	assert.False(t, VerifyWebhookSignature("whsec_other", payload, signature))
	assert.False(t, VerifyWebhookSignature("whsec_test", []byte(`tampered`), signature))
	assert.False(t, VerifyWebhookSignature("whsec_test", payload, ""))
}
