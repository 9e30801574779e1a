package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

func TestPostMovementIn(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 10, 0)
	svc := NewLedgerService(store)

	m, err := svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  models.MovementIn,
		Quantity:      15,
		ReferenceType: models.ReferencePurchase,
		Notes:         "restock",
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 10, m.PreviousStock)
	assert.Equal(t, 25, m.NewStock)
	assert.Equal(t, 7, m.CreatedBy)
	assert.NotZero(t, m.ID)

	inv := store.tx.inventory(1, 1)
	assert.Equal(t, 25, inv.CurrentStock)
	assert.Equal(t, 0, inv.ReservedStock)
	require.Len(t, store.tx.movementsFor(1, 1), 1)
}

func TestPostMovementOutInsufficientStock(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 3, 0)
	svc := NewLedgerService(store)

	_, err := svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  models.MovementOut,
		Quantity:      5,
		ReferenceType: models.ReferenceSale,
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 3, store.tx.inventory(1, 1).CurrentStock)
}

func TestPostMovementCannotUndercutReservation(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 10, 8)
	svc := NewLedgerService(store)

	_, err := svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  models.MovementOut,
		Quantity:      5,
		ReferenceType: models.ReferenceSale,
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrInsufficientAvailableStock)
}

func TestPostMovementNegativeAdjustment(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 10, 0)
	svc := NewLedgerService(store)

	m, err := svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  models.MovementAdjustment,
		Quantity:      -3,
		ReferenceType: models.ReferenceAdjustment,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, m.NewStock)
	assert.Equal(t, 7, store.tx.inventory(1, 1).CurrentStock)
}

func TestPostMovementRejectsUnknownTypes(t *testing.T) {
	store := newMemStore()
	svc := NewLedgerService(store)

	_, err := svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  "TELEPORT",
		Quantity:      1,
		ReferenceType: models.ReferenceSale,
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.PostMovement(context.Background(), &models.PostMovementRequest{
		ItemID:        1,
		BranchID:      1,
		MovementType:  models.MovementIn,
		Quantity:      1,
		ReferenceType: "LOTTERY",
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReserve(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 10, 0)
	svc := NewLedgerService(store)

	inv, err := svc.Reserve(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: 1, Quantity: 6,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 10, inv.CurrentStock)
	assert.Equal(t, 6, inv.ReservedStock)
	assert.Equal(t, 4, inv.AvailableStock)

	// Only 4 available now.
	_, err = svc.Reserve(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: 1, Quantity: 5,
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrInsufficientAvailableStock)
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewLedgerService(newMemStore())

	_, err := svc.Reserve(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: 1, Quantity: 0,
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReleaseClampsToZero(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 10, 6)
	svc := NewLedgerService(store)

	inv, err := svc.Release(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: 1, Quantity: 4,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.ReservedStock)

	// Releasing more than remains reserved is harmless.
	inv, err = svc.Release(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: 1, Quantity: 10,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.ReservedStock)
	assert.Equal(t, 10, inv.AvailableStock)
}

func TestReconcileFromHistory(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 50, 45)
	svc := NewLedgerService(store)

	ctx := context.Background()
	store.tx.InsertMovement(ctx, &models.StockMovement{ItemID: 1, BranchID: 1, MovementType: models.MovementIn, Quantity: 60})
	store.tx.InsertMovement(ctx, &models.StockMovement{ItemID: 1, BranchID: 1, MovementType: models.MovementOut, Quantity: 20})

	result, err := svc.ReconcileFromHistory(ctx, 1, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 50, result.RecordedStock)
	assert.Equal(t, 40, result.LedgerStock)
	assert.True(t, result.Corrected)

	inv := store.tx.inventory(1, 1)
	assert.Equal(t, 40, inv.CurrentStock)
	// Reservation gets clamped down to the corrected level.
	assert.Equal(t, 40, inv.ReservedStock)

	// Second run against the corrected balance is a no-op.
	result, err = svc.ReconcileFromHistory(ctx, 1, 1, 7)
	require.NoError(t, err)
	assert.False(t, result.Corrected)
	assert.Equal(t, 40, result.RecordedStock)
}
