package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/apperrors"
)

func TestMovementDelta(t *testing.T) {
	assert.Equal(t, 5, MovementDelta(MovementIn, 5))
	assert.Equal(t, 5, MovementDelta(MovementTransferIn, 5))
	assert.Equal(t, -5, MovementDelta(MovementOut, 5))
	assert.Equal(t, -5, MovementDelta(MovementTransferOut, 5))

	// Adjustments carry their own sign.
	assert.Equal(t, -3, MovementDelta(MovementAdjustment, -3))
	assert.Equal(t, 3, MovementDelta(MovementAdjustment, 3))
}

func TestApplyMovement(t *testing.T) {
	got, err := ApplyMovement(10, MovementIn, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, got)

	got, err = ApplyMovement(10, MovementOut, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = ApplyMovement(10, MovementAdjustment, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestApplyMovementErrors(t *testing.T) {
	_, err := ApplyMovement(10, MovementOut, 11)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = ApplyMovement(10, MovementAdjustment, -11)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = ApplyMovement(10, MovementIn, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ApplyMovement(10, "SIDEWAYS", 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStockMovementDelta(t *testing.T) {
	m := &StockMovement{MovementType: MovementTransferOut, Quantity: 7}
	assert.Equal(t, -7, m.Delta())
}

func TestInventoryAvailable(t *testing.T) {
	inv := &Inventory{CurrentStock: 12, ReservedStock: 5}
	assert.Equal(t, 7, inv.Available())
}
