package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

const (
	srcBranch = 1
	dstBranch = 2
	requester = 11
	approver  = 12
	loader    = 13
	receiver  = 14
)

// newTransferFixture seeds item 1 with 20 units and item 2 with 8 units at
// the source branch.
func newTransferFixture() (*memStore, *TransferService) {
	store := newMemStore()
	store.tx.seedInventory(1, srcBranch, 20, 0)
	store.tx.seedInventory(2, srcBranch, 8, 0)
	return store, NewTransferService(store)
}

func createPendingTransfer(t *testing.T, svc *TransferService) *models.TransferRequest {
	t.Helper()
	transfer, err := svc.Create(context.Background(), &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   dstBranch,
		Priority:     models.PriorityHigh,
		Items: []models.TransferItemRequest{
			{ItemID: 1, RequestedQuantity: 10},
			{ItemID: 2, RequestedQuantity: 5},
		},
	}, requester)
	require.NoError(t, err)
	return transfer
}

func approveTransfer(t *testing.T, svc *TransferService, transferID int, quantities map[int]int) {
	t.Helper()
	req := &models.ApproveTransferRequest{}
	for itemID, qty := range quantities {
		req.Items = append(req.Items, models.ApproveItemRequest{ItemID: itemID, ApprovedQuantity: qty})
	}
	require.NoError(t, svc.Approve(context.Background(), transferID, req, approver))
}

func dispatchTransfer(t *testing.T, svc *TransferService, transferID int) *models.DispatchSlip {
	t.Helper()
	slip, err := svc.Dispatch(context.Background(), &models.CreateDispatchRequest{
		TransferID: transferID,
		LoaderName: "R. Cruz",
	}, loader)
	require.NoError(t, err)
	return slip
}

func TestCreateTransfer(t *testing.T) {
	store, svc := newTransferFixture()

	transfer := createPendingTransfer(t, svc)
	assert.Equal(t, models.TransferPending, transfer.Status)
	assert.True(t, strings.HasPrefix(transfer.TransferNumber, "TR-"))
	assert.True(t, strings.HasSuffix(transfer.TransferNumber, "-0001"))
	assert.Equal(t, requester, transfer.RequestedBy)
	require.Len(t, transfer.Items, 2)
	assert.Equal(t, 10, transfer.Items[0].RequestedQuantity)

	// Creating does not reserve anything yet.
	assert.Equal(t, 0, store.tx.inventory(1, srcBranch).ReservedStock)

	// The per-day sequence advances.
	second := createPendingTransfer(t, svc)
	assert.True(t, strings.HasSuffix(second.TransferNumber, "-0002"))
}

func TestCreateTransferValidation(t *testing.T) {
	_, svc := newTransferFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   srcBranch,
		Priority:     models.PriorityLow,
		Items:        []models.TransferItemRequest{{ItemID: 1, RequestedQuantity: 1}},
	}, requester)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   dstBranch,
		Priority:     "WHENEVER",
		Items:        []models.TransferItemRequest{{ItemID: 1, RequestedQuantity: 1}},
	}, requester)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   dstBranch,
		Priority:     models.PriorityLow,
		Items: []models.TransferItemRequest{
			{ItemID: 1, RequestedQuantity: 1},
			{ItemID: 1, RequestedQuantity: 2},
		},
	}, requester)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateTransferInsufficientAvailability(t *testing.T) {
	_, svc := newTransferFixture()

	_, err := svc.Create(context.Background(), &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   dstBranch,
		Priority:     models.PriorityMedium,
		Items:        []models.TransferItemRequest{{ItemID: 1, RequestedQuantity: 21}},
	}, requester)
	require.ErrorIs(t, err, apperrors.ErrInsufficientAvailableStock)
}

func TestApproveTransfer(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)

	// The approver may trim a line below the request.
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 5})

	assert.Equal(t, models.TransferApproved, store.tx.transfers[transfer.ID].Status)
	items, _ := store.tx.TransferItems(context.Background(), transfer.ID)
	for _, it := range items {
		require.NotNil(t, it.ApprovedQuantity)
		if it.ItemID == 1 {
			assert.Equal(t, 8, *it.ApprovedQuantity)
		}
	}
}

func TestApproveTransferQuantityRules(t *testing.T) {
	_, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	ctx := context.Background()

	err := svc.Approve(ctx, transfer.ID, &models.ApproveTransferRequest{
		Items: []models.ApproveItemRequest{{ItemID: 1, ApprovedQuantity: 11}},
	}, approver)
	require.ErrorIs(t, err, apperrors.ErrInvalidApprovalQuantity)

	err = svc.Approve(ctx, transfer.ID, &models.ApproveTransferRequest{
		Items: []models.ApproveItemRequest{{ItemID: 99, ApprovedQuantity: 1}},
	}, approver)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.Approve(ctx, transfer.ID, &models.ApproveTransferRequest{
		Items: []models.ApproveItemRequest{
			{ItemID: 1, ApprovedQuantity: 0},
			{ItemID: 2, ApprovedQuantity: 0},
		},
	}, approver)
	require.ErrorIs(t, err, apperrors.ErrInvalidApprovalQuantity)
}

func TestApproveRejectedTransferFails(t *testing.T) {
	_, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Reject(ctx, transfer.ID, &models.RejectTransferRequest{
		RejectionReason: "no truck this week",
	}, approver))

	err := svc.Approve(ctx, transfer.ID, &models.ApproveTransferRequest{
		Items: []models.ApproveItemRequest{{ItemID: 1, ApprovedQuantity: 5}},
	}, approver)
	require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestRejectRequiresReason(t *testing.T) {
	_, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)

	err := svc.Reject(context.Background(), transfer.ID, &models.RejectTransferRequest{}, approver)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRejectRecordsReason(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)

	require.NoError(t, svc.Reject(context.Background(), transfer.ID, &models.RejectTransferRequest{
		RejectionReason: "duplicate request",
	}, approver))

	stored := store.tx.transfers[transfer.ID]
	assert.Equal(t, models.TransferRejected, stored.Status)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "duplicate request", *stored.RejectionReason)
}

func TestCancelTransfer(t *testing.T) {
	store, svc := newTransferFixture()
	ctx := context.Background()

	pending := createPendingTransfer(t, svc)
	require.NoError(t, svc.Cancel(ctx, pending.ID, requester))
	assert.Equal(t, models.TransferCancelled, store.tx.transfers[pending.ID].Status)

	approved := createPendingTransfer(t, svc)
	approveTransfer(t, svc, approved.ID, map[int]int{1: 5, 2: 2})
	require.NoError(t, svc.Cancel(ctx, approved.ID, requester))

	inTransit := createPendingTransfer(t, svc)
	approveTransfer(t, svc, inTransit.ID, map[int]int{1: 5, 2: 2})
	dispatchTransfer(t, svc, inTransit.ID)
	err := svc.Cancel(ctx, inTransit.ID, requester)
	require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestDispatchReservesApprovedQuantities(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 0})

	slip := dispatchTransfer(t, svc, transfer.ID)
	assert.True(t, strings.HasPrefix(slip.DispatchNumber, "DS-"))
	assert.Equal(t, loader, slip.DispatchedBy)
	assert.Equal(t, models.TransferInTransit, store.tx.transfers[transfer.ID].Status)

	// The approved line is reserved; the zero line is skipped entirely.
	inv := store.tx.inventory(1, srcBranch)
	assert.Equal(t, 20, inv.CurrentStock)
	assert.Equal(t, 8, inv.ReservedStock)
	assert.Equal(t, 0, store.tx.inventory(2, srcBranch).ReservedStock)

	items, _ := store.tx.TransferItems(context.Background(), transfer.ID)
	for _, it := range items {
		if it.ItemID == 1 {
			assert.Equal(t, 8, it.DispatchedQuantity)
		} else {
			assert.Equal(t, 0, it.DispatchedQuantity)
		}
	}

	// No ledger entries yet; the goods are still on the source's books.
	assert.Empty(t, store.tx.movements)
}

func TestDispatchRequiresApprovedStatus(t *testing.T) {
	_, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)

	_, err := svc.Dispatch(context.Background(), &models.CreateDispatchRequest{
		TransferID: transfer.ID,
	}, loader)
	require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestDispatchFailsWhenStockWasTakenMeanwhile(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 10, 2: 0})

	// A competing reservation eats into the available balance after
	// approval but before dispatch.
	ledger := NewLedgerService(store)
	_, err := ledger.Reserve(context.Background(), &models.StockReservationRequest{
		ItemID: 1, BranchID: srcBranch, Quantity: 15,
	}, approver)
	require.NoError(t, err)

	_, err = svc.Dispatch(context.Background(), &models.CreateDispatchRequest{
		TransferID: transfer.ID,
	}, loader)
	require.ErrorIs(t, err, apperrors.ErrInsufficientAvailableStock)
}

func TestReceiveFullDelivery(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 5})
	dispatch := dispatchTransfer(t, svc, transfer.ID)

	slip, err := svc.Receive(context.Background(), &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionGood,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8},
			{ItemID: 2, ReceivedQuantity: 5},
		},
	}, receiver)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(slip.ReceivingNumber, "RS-"))
	require.Len(t, slip.Items, 2)
	assert.Equal(t, models.TransferDelivered, store.tx.transfers[transfer.ID].Status)

	// Source: stock moved out, reservation fully released.
	src := store.tx.inventory(1, srcBranch)
	assert.Equal(t, 12, src.CurrentStock)
	assert.Equal(t, 0, src.ReservedStock)

	// Destination: stock arrived.
	assert.Equal(t, 8, store.tx.inventory(1, dstBranch).CurrentStock)
	assert.Equal(t, 5, store.tx.inventory(2, dstBranch).CurrentStock)

	outs := store.tx.movementsFor(1, srcBranch)
	require.Len(t, outs, 1)
	assert.Equal(t, models.MovementTransferOut, outs[0].MovementType)
	assert.Equal(t, 8, outs[0].Quantity)
	assert.Equal(t, 20, outs[0].PreviousStock)
	assert.Equal(t, 12, outs[0].NewStock)
	assert.Equal(t, transfer.TransferNumber, outs[0].Notes)
	require.NotNil(t, outs[0].ReferenceID)
	assert.Equal(t, transfer.ID, *outs[0].ReferenceID)

	ins := store.tx.movementsFor(1, dstBranch)
	require.Len(t, ins, 1)
	assert.Equal(t, models.MovementTransferIn, ins[0].MovementType)
	assert.Equal(t, 8, ins[0].Quantity)

	// Nothing short, so no discrepancy was filed.
	assert.Empty(t, store.tx.discrepancies)
}

func TestReceiveShortDeliveryFilesDiscrepancy(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 5})
	dispatch := dispatchTransfer(t, svc, transfer.ID)

	_, err := svc.Receive(context.Background(), &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionPartialDamage,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8},
			{ItemID: 2, ReceivedQuantity: 3, DamagedQuantity: 1, ConditionNotes: "crate crushed"},
		},
	}, receiver)
	require.NoError(t, err)

	// Only what arrived left the source; the shortfall stays on its
	// books and stays reserved until the discrepancy is worked.
	src := store.tx.inventory(2, srcBranch)
	assert.Equal(t, 5, src.CurrentStock)
	assert.Equal(t, 2, src.ReservedStock)
	assert.Equal(t, 3, store.tx.inventory(2, dstBranch).CurrentStock)

	require.Len(t, store.tx.discrepancies, 1)
	for _, d := range store.tx.discrepancies {
		assert.Equal(t, models.DiscrepancyDamage, d.Type)
		assert.Equal(t, models.DiscrepancyReported, d.Status)
		assert.Equal(t, 2, d.ItemID)
		assert.Equal(t, srcBranch, d.BranchID)
		assert.Equal(t, 5, d.ExpectedQuantity)
		assert.Equal(t, 3, d.ActualQuantity)
		assert.Contains(t, d.Description, transfer.TransferNumber)
		assert.Contains(t, d.Description, "1 damaged")
	}
}

func TestReceiveNothingOnALine(t *testing.T) {
	store, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 0})
	dispatch := dispatchTransfer(t, svc, transfer.ID)

	_, err := svc.Receive(context.Background(), &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionDamaged,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 0},
		},
	}, receiver)
	require.NoError(t, err)

	// Nothing moved and nothing released; the whole dispatched quantity
	// stays reserved at the source while the loss is investigated.
	src := store.tx.inventory(1, srcBranch)
	assert.Equal(t, 20, src.CurrentStock)
	assert.Equal(t, 8, src.ReservedStock)
	assert.Empty(t, store.tx.movements)
	assert.Nil(t, store.tx.inventory(1, dstBranch))

	require.Len(t, store.tx.discrepancies, 1)
	for _, d := range store.tx.discrepancies {
		assert.Equal(t, models.DiscrepancyCountError, d.Type)
		assert.Equal(t, 8, d.ExpectedQuantity)
		assert.Equal(t, 0, d.ActualQuantity)
	}
}

func TestReceiveShortReleasesOnlyReceived(t *testing.T) {
	store := newMemStore()
	store.tx.seedInventory(1, srcBranch, 50, 0)
	svc := NewTransferService(store)
	ctx := context.Background()

	transfer, err := svc.Create(ctx, &models.CreateTransferRequest{
		FromBranchID: srcBranch,
		ToBranchID:   dstBranch,
		Priority:     models.PriorityMedium,
		Items:        []models.TransferItemRequest{{ItemID: 1, RequestedQuantity: 10}},
	}, requester)
	require.NoError(t, err)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 10})
	dispatch := dispatchTransfer(t, svc, transfer.ID)

	_, err = svc.Receive(ctx, &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionPartialDamage,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8, DamagedQuantity: 2},
		},
	}, receiver)
	require.NoError(t, err)

	// Of 10 dispatched, 8 arrived: the reservation drops by 8, not 10,
	// leaving the 2 missing units reserved at the source.
	src := store.tx.inventory(1, srcBranch)
	assert.Equal(t, 42, src.CurrentStock)
	assert.Equal(t, 2, src.ReservedStock)

	// The residue is cleared through an explicit release.
	ledger := NewLedgerService(store)
	inv, err := ledger.Release(ctx, &models.StockReservationRequest{
		ItemID: 1, BranchID: srcBranch, Quantity: 2,
	}, requester)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.ReservedStock)
	assert.Equal(t, 42, inv.AvailableStock)
}

func TestReceiveValidation(t *testing.T) {
	_, svc := newTransferFixture()
	transfer := createPendingTransfer(t, svc)
	approveTransfer(t, svc, transfer.ID, map[int]int{1: 8, 2: 5})
	dispatch := dispatchTransfer(t, svc, transfer.ID)
	ctx := context.Background()

	// Dispatch id must belong to the transfer.
	_, err := svc.Receive(ctx, &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID + 100,
		ConditionOnArrival: models.ConditionGood,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8},
			{ItemID: 2, ReceivedQuantity: 5},
		},
	}, receiver)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	// Every dispatched line must be accounted for.
	_, err = svc.Receive(ctx, &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionGood,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8},
		},
	}, receiver)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	// Received plus damaged cannot exceed what was dispatched.
	_, err = svc.Receive(ctx, &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: models.ConditionGood,
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 7, DamagedQuantity: 2},
			{ItemID: 2, ReceivedQuantity: 5},
		},
	}, receiver)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	// Unknown arrival condition is rejected before any work happens.
	_, err = svc.Receive(ctx, &models.CreateReceivingRequest{
		TransferID:         transfer.ID,
		DispatchID:         dispatch.ID,
		ConditionOnArrival: "SOGGY",
		Items: []models.ReceivingItemRequest{
			{ItemID: 1, ReceivedQuantity: 8},
			{ItemID: 2, ReceivedQuantity: 5},
		},
	}, receiver)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
