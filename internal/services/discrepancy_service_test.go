package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

func reportDiscrepancy(t *testing.T, svc *DiscrepancyService, actual int) *models.StockDiscrepancy {
	t.Helper()
	d, err := svc.Report(context.Background(), &models.ReportDiscrepancyRequest{
		ItemID:         1,
		BranchID:       1,
		ActualQuantity: actual,
		Type:           models.DiscrepancyCountError,
		Description:    "monthly count came up short",
	}, 21)
	require.NoError(t, err)
	return d
}

func TestReportDiscrepancy(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 0)
	svc := NewDiscrepancyService(store)

	d := reportDiscrepancy(t, svc, 25)
	assert.Equal(t, models.DiscrepancyReported, d.Status)
	// The expected quantity is snapshotted from the books at report time.
	assert.Equal(t, 30, d.ExpectedQuantity)
	assert.Equal(t, 25, d.ActualQuantity)
	assert.Equal(t, -5, d.Difference())
	assert.Equal(t, 21, d.ReportedBy)
	assert.NotZero(t, d.ID)
}

func TestReportDiscrepancyWithCallerExpected(t *testing.T) {
	store := newMemStore()
	svc := NewDiscrepancyService(store)
	expected := 40

	d, err := svc.Report(context.Background(), &models.ReportDiscrepancyRequest{
		ItemID:         1,
		BranchID:       1,
		ExpectedStock:  &expected,
		ActualQuantity: 37,
		Type:           models.DiscrepancyTheft,
		Description:    "three units missing from the cage",
	}, 21)
	require.NoError(t, err)

	// The caller's figure wins over the balance row.
	assert.Equal(t, 40, d.ExpectedQuantity)
	assert.Equal(t, -3, d.Difference())

	// Pure record creation: no balance row gets conjured as a side effect.
	assert.Nil(t, store.tx.inventory(1, 1))
}

func TestReportDiscrepancyValidation(t *testing.T) {
	svc := NewDiscrepancyService(newMemStore())
	ctx := context.Background()

	_, err := svc.Report(ctx, &models.ReportDiscrepancyRequest{
		ItemID: 1, BranchID: 1, ActualQuantity: 5, Type: "VIBES",
	}, 21)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Report(ctx, &models.ReportDiscrepancyRequest{
		ItemID: 1, BranchID: 1, ActualQuantity: -5, Type: models.DiscrepancyCountError,
	}, 21)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	bad := -1
	_, err = svc.Report(ctx, &models.ReportDiscrepancyRequest{
		ItemID: 1, BranchID: 1, ExpectedStock: &bad, ActualQuantity: 5,
		Type: models.DiscrepancyCountError,
	}, 21)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInvestigateDiscrepancy(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 0)
	svc := NewDiscrepancyService(store)
	d := reportDiscrepancy(t, svc, 25)
	ctx := context.Background()

	err := svc.Investigate(ctx, d.ID, &models.InvestigateDiscrepancyRequest{
		Notes: "checking last week's dispatch slips",
	}, 22)
	require.NoError(t, err)

	stored := store.tx.discrepancies[d.ID]
	assert.Equal(t, models.DiscrepancyInvestigating, stored.Status)
	assert.Equal(t, "checking last week's dispatch slips", stored.InvestigationNotes)

	// Only REPORTED discrepancies can move to INVESTIGATING.
	err = svc.Investigate(ctx, d.ID, &models.InvestigateDiscrepancyRequest{}, 22)
	require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestResolveWithStockAdjustment(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 0)
	svc := NewDiscrepancyService(store)
	d := reportDiscrepancy(t, svc, 25)

	err := svc.Resolve(context.Background(), d.ID, &models.ResolveDiscrepancyRequest{
		Resolution:  "count confirmed, writing off 5 units",
		AdjustStock: true,
	}, 22)
	require.NoError(t, err)

	stored := store.tx.discrepancies[d.ID]
	assert.Equal(t, models.DiscrepancyResolved, stored.Status)
	assert.Equal(t, "count confirmed, writing off 5 units", stored.Resolution)
	require.NotNil(t, stored.ResolvedBy)
	assert.Equal(t, 22, *stored.ResolvedBy)
	require.NotNil(t, stored.ResolvedAt)

	// The correcting movement is the reported difference, signed.
	moves := store.tx.movementsFor(1, 1)
	require.Len(t, moves, 1)
	assert.Equal(t, models.MovementAdjustment, moves[0].MovementType)
	assert.Equal(t, -5, moves[0].Quantity)
	assert.Equal(t, models.ReferenceAdjustment, moves[0].ReferenceType)
	require.NotNil(t, moves[0].ReferenceID)
	assert.Equal(t, d.ID, *moves[0].ReferenceID)

	require.NotNil(t, stored.AdjustmentID)
	assert.Equal(t, moves[0].ID, *stored.AdjustmentID)
	assert.Equal(t, 25, store.tx.inventory(1, 1).CurrentStock)
}

func TestResolveWithoutAdjustment(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 0)
	svc := NewDiscrepancyService(store)
	d := reportDiscrepancy(t, svc, 25)

	err := svc.Resolve(context.Background(), d.ID, &models.ResolveDiscrepancyRequest{
		Resolution: "units found in the wrong bay",
	}, 22)
	require.NoError(t, err)

	assert.Equal(t, models.DiscrepancyResolved, store.tx.discrepancies[d.ID].Status)
	assert.Empty(t, store.tx.movements)
	assert.Equal(t, 30, store.tx.inventory(1, 1).CurrentStock)
}

func TestResolveRequiresResolution(t *testing.T) {
	svc := NewDiscrepancyService(newMemStore())

	err := svc.Resolve(context.Background(), 1, &models.ResolveDiscrepancyRequest{}, 22)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveAlreadyResolved(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 0)
	svc := NewDiscrepancyService(store)
	d := reportDiscrepancy(t, svc, 25)
	ctx := context.Background()

	require.NoError(t, svc.Resolve(ctx, d.ID, &models.ResolveDiscrepancyRequest{
		Resolution: "done",
	}, 22))

	err := svc.Resolve(ctx, d.ID, &models.ResolveDiscrepancyRequest{
		Resolution: "done again",
	}, 22)
	require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestResolveAdjustmentCannotUndercutReservation(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, 1, 30, 28)
	svc := NewDiscrepancyService(store)
	d := reportDiscrepancy(t, svc, 25)

	err := svc.Resolve(context.Background(), d.ID, &models.ResolveDiscrepancyRequest{
		Resolution:  "write off",
		AdjustStock: true,
	}, 22)
	require.ErrorIs(t, err, apperrors.ErrInsufficientAvailableStock)
}
