package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatusCanTransition(t *testing.T) {
	assert.True(t, TransferPending.CanTransition(TransferApproved))
	assert.True(t, TransferPending.CanTransition(TransferRejected))
	assert.True(t, TransferPending.CanTransition(TransferCancelled))
	assert.True(t, TransferApproved.CanTransition(TransferInTransit))
	assert.True(t, TransferApproved.CanTransition(TransferCancelled))
	assert.True(t, TransferInTransit.CanTransition(TransferDelivered))

	// No skipping ahead and no leaving a terminal state.
	assert.False(t, TransferPending.CanTransition(TransferInTransit))
	assert.False(t, TransferPending.CanTransition(TransferDelivered))
	assert.False(t, TransferApproved.CanTransition(TransferRejected))
	assert.False(t, TransferInTransit.CanTransition(TransferCancelled))
	assert.False(t, TransferDelivered.CanTransition(TransferPending))
	assert.False(t, TransferRejected.CanTransition(TransferApproved))
	assert.False(t, TransferCancelled.CanTransition(TransferApproved))
}

func TestTransferStatusTerminal(t *testing.T) {
	assert.True(t, TransferRejected.Terminal())
	assert.True(t, TransferDelivered.Terminal())
	assert.True(t, TransferCancelled.Terminal())

	assert.False(t, TransferPending.Terminal())
	assert.False(t, TransferApproved.Terminal())
	assert.False(t, TransferInTransit.Terminal())
}

func TestTransferEnumsValid(t *testing.T) {
	assert.True(t, TransferPending.Valid())
	assert.False(t, TransferStatus("SHIPPED").Valid())

	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, TransferPriority("ASAP").Valid())
}
