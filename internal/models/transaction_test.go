// internal/models/transaction_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{TransactionStatusPending, TransactionStatusConfirmed, true},
		{TransactionStatusPending, TransactionStatusCancelled, true},
		{TransactionStatusPending, TransactionStatusInProgress, false},
		{TransactionStatusPending, TransactionStatusCompleted, false},
		{TransactionStatusConfirmed, TransactionStatusInProgress, true},
		{TransactionStatusConfirmed, TransactionStatusCancelled, true},
		{TransactionStatusConfirmed, TransactionStatusCompleted, false},
		{TransactionStatusConfirmed, TransactionStatusPending, false},
		{TransactionStatusInProgress, TransactionStatusCompleted, true},
		{TransactionStatusInProgress, TransactionStatusCancelled, true},
		{TransactionStatusInProgress, TransactionStatusConfirmed, false},
		{TransactionStatusCompleted, TransactionStatusCancelled, false},
		{TransactionStatusCompleted, TransactionStatusPending, false},
		{TransactionStatusCancelled, TransactionStatusPending, false},
		{TransactionStatusCancelled, TransactionStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransactionParties(t *testing.T) {
	tx := &Transaction{
		ProducerID: "user_producer",
		ConsumerID: "user_consumer",
	}

	assert.True(t, tx.IsParty("user_producer"))
	assert.True(t, tx.IsParty("user_consumer"))
	assert.False(t, tx.IsParty("user_stranger"))

	assert.Equal(t, SenderRoleProducer, tx.RoleOf("user_producer"))
	assert.Equal(t, SenderRoleConsumer, tx.RoleOf("user_consumer"))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ListingCategory("Plastic").IsValid())
	assert.False(t, ListingCategory("plastic").IsValid())
	assert.True(t, ListingUnit("Kilograms (kg)").IsValid())
	assert.False(t, ListingUnit("kg").IsValid())
	assert.True(t, PricingMode("negotiable").IsValid())
	assert.False(t, PricingMode("free").IsValid())
	assert.True(t, QuickActionType("confirm-pickup").IsValid())
	assert.False(t, QuickActionType("wave").IsValid())
	assert.True(t, UserType("producer").IsValid())
	assert.False(t, UserType("admin").IsValid())
}
