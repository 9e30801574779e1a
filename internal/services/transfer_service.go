package services

import (
	"context"
	"fmt"
	"time"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/metrics"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/timeutil"
)

// TransferService drives the transfer lifecycle:
// PENDING -> APPROVED -> IN_TRANSIT -> DELIVERED, with REJECTED and
// CANCELLED as terminal side exits. Stock is reserved at dispatch and the
// ledger entries are posted at receive, so the source branch keeps the
// goods on its books while they are on the truck.
type TransferService struct {
	store repositories.Store
}

func NewTransferService(store repositories.Store) *TransferService {
	return &TransferService{store: store}
}

// Create registers a new PENDING transfer and assigns its TR number. Each
// requested line is checked against the source branch's available balance
// so obviously unfulfillable requests fail fast; nothing is reserved yet.
func (s *TransferService) Create(ctx context.Context, req *models.CreateTransferRequest, userID int) (*models.TransferRequest, error) {
	if req.FromBranchID == req.ToBranchID {
		return nil, fmt.Errorf("%w: source and destination branch must differ", apperrors.ErrValidation)
	}
	if !req.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, req.Priority)
	}
	seen := make(map[int]bool, len(req.Items))
	for _, it := range req.Items {
		if seen[it.ItemID] {
			return nil, fmt.Errorf("%w: item %d listed twice", apperrors.ErrValidation, it.ItemID)
		}
		seen[it.ItemID] = true
	}

	var transfer *models.TransferRequest
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		now := timeutil.Now()
		seq, err := tx.NextDocumentNumber(ctx, DocTypeTransfer, now)
		if err != nil {
			return err
		}

		transfer = &models.TransferRequest{
			TransferNumber: FormatDocumentNumber(DocTypeTransfer, now, seq),
			FromBranchID:   req.FromBranchID,
			ToBranchID:     req.ToBranchID,
			Status:         models.TransferPending,
			Priority:       req.Priority,
			RequestedBy:    userID,
			RequestDate:    now,
			Notes:          req.Notes,
		}
		if err := tx.InsertTransfer(ctx, transfer); err != nil {
			return err
		}

		for _, it := range req.Items {
			inv, err := tx.InventoryForUpdate(ctx, it.ItemID, req.FromBranchID)
			if err != nil {
				return err
			}
			if inv.Available() < it.RequestedQuantity {
				return fmt.Errorf("%w: item %d requested %d, available %d at source branch",
					apperrors.ErrInsufficientAvailableStock, it.ItemID, it.RequestedQuantity, inv.Available())
			}

			item := &models.TransferRequestItem{
				TransferID:        transfer.ID,
				ItemID:            it.ItemID,
				RequestedQuantity: it.RequestedQuantity,
				Notes:             it.Notes,
			}
			if err := tx.InsertTransferItem(ctx, item); err != nil {
				return err
			}
			transfer.Items = append(transfer.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferPending)).Inc()
	return transfer, nil
}

// Approve moves PENDING -> APPROVED, recording per-line approved
// quantities. An approved quantity may trim the request but never exceed
// it; approving a line at zero drops it from the shipment.
func (s *TransferService) Approve(ctx context.Context, transferID int, req *models.ApproveTransferRequest, userID int) error {
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		transfer, err := tx.TransferForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if !transfer.Status.CanTransition(models.TransferApproved) {
			return fmt.Errorf("%w: cannot approve transfer in status %s",
				apperrors.ErrInvalidStateTransition, transfer.Status)
		}

		items, err := tx.TransferItems(ctx, transferID)
		if err != nil {
			return err
		}
		requested := make(map[int]int, len(items))
		for _, it := range items {
			requested[it.ItemID] = it.RequestedQuantity
		}

		approvedTotal := 0
		for _, ap := range req.Items {
			reqQty, ok := requested[ap.ItemID]
			if !ok {
				return fmt.Errorf("%w: item %d is not on the transfer", apperrors.ErrValidation, ap.ItemID)
			}
			if ap.ApprovedQuantity < 0 || ap.ApprovedQuantity > reqQty {
				return fmt.Errorf("%w: item %d approved %d, requested %d",
					apperrors.ErrInvalidApprovalQuantity, ap.ItemID, ap.ApprovedQuantity, reqQty)
			}
			if err := tx.SetApprovedQuantity(ctx, transferID, ap.ItemID, ap.ApprovedQuantity); err != nil {
				return err
			}
			approvedTotal += ap.ApprovedQuantity
		}
		if approvedTotal == 0 {
			return fmt.Errorf("%w: at least one line must be approved above zero", apperrors.ErrInvalidApprovalQuantity)
		}

		ok, err := tx.TransitionTransfer(ctx, transferID, transfer.Status, models.TransferApproved, userID, "")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %d changed concurrently", apperrors.ErrInvalidStateTransition, transferID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferApproved)).Inc()
	return nil
}

// Reject moves PENDING -> REJECTED with a mandatory reason.
func (s *TransferService) Reject(ctx context.Context, transferID int, req *models.RejectTransferRequest, userID int) error {
	if req.RejectionReason == "" {
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		transfer, err := tx.TransferForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if !transfer.Status.CanTransition(models.TransferRejected) {
			return fmt.Errorf("%w: cannot reject transfer in status %s",
				apperrors.ErrInvalidStateTransition, transfer.Status)
		}

		ok, err := tx.TransitionTransfer(ctx, transferID, transfer.Status, models.TransferRejected, userID, req.RejectionReason)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %d changed concurrently", apperrors.ErrInvalidStateTransition, transferID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferRejected)).Inc()
	return nil
}

// Cancel aborts a transfer that has not left the source branch. PENDING
// and APPROVED transfers can be cancelled; once dispatched the goods are
// in transit and only receiving can close the transfer out.
func (s *TransferService) Cancel(ctx context.Context, transferID, userID int) error {
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		transfer, err := tx.TransferForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if !transfer.Status.CanTransition(models.TransferCancelled) {
			return fmt.Errorf("%w: cannot cancel transfer in status %s",
				apperrors.ErrInvalidStateTransition, transfer.Status)
		}

		ok, err := tx.TransitionTransfer(ctx, transferID, transfer.Status, models.TransferCancelled, userID, "")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %d changed concurrently", apperrors.ErrInvalidStateTransition, transferID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferCancelled)).Inc()
	return nil
}

// Dispatch moves APPROVED -> IN_TRANSIT, cuts the DS slip, and reserves
// every approved line at the source branch. The reservation keeps the
// in-transit units on the source's books but off its sellable balance.
func (s *TransferService) Dispatch(ctx context.Context, req *models.CreateDispatchRequest, userID int) (*models.DispatchSlip, error) {
	var slip *models.DispatchSlip
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		transfer, err := tx.TransferForUpdate(ctx, req.TransferID)
		if err != nil {
			return err
		}
		if !transfer.Status.CanTransition(models.TransferInTransit) {
			return fmt.Errorf("%w: cannot dispatch transfer in status %s",
				apperrors.ErrInvalidStateTransition, transfer.Status)
		}

		items, err := tx.TransferItems(ctx, req.TransferID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ApprovedQuantity == nil || *it.ApprovedQuantity == 0 {
				continue
			}
			qty := *it.ApprovedQuantity

			inv, err := tx.InventoryForUpdate(ctx, it.ItemID, transfer.FromBranchID)
			if err != nil {
				return err
			}
			if inv.Available() < qty {
				return fmt.Errorf("%w: item %d needs %d, available %d at source branch",
					apperrors.ErrInsufficientAvailableStock, it.ItemID, qty, inv.Available())
			}
			if err := tx.SetInventoryLevels(ctx, it.ItemID, transfer.FromBranchID,
				inv.CurrentStock, inv.ReservedStock+qty, userID); err != nil {
				return err
			}
			if err := tx.SetDispatchedQuantity(ctx, req.TransferID, it.ItemID, qty); err != nil {
				return err
			}
		}

		now := timeutil.Now()
		seq, err := tx.NextDocumentNumber(ctx, DocTypeDispatch, now)
		if err != nil {
			return err
		}
		slip = &models.DispatchSlip{
			DispatchNumber:       FormatDocumentNumber(DocTypeDispatch, now, seq),
			TransferID:           req.TransferID,
			DispatchedBy:         userID,
			LoaderName:           req.LoaderName,
			VehicleInfo:          req.VehicleInfo,
			DispatchDate:         now,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
			Notes:                req.Notes,
		}
		if err := tx.InsertDispatchSlip(ctx, slip); err != nil {
			return err
		}

		ok, err := tx.TransitionTransfer(ctx, req.TransferID, transfer.Status, models.TransferInTransit, userID, "")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %d changed concurrently", apperrors.ErrInvalidStateTransition, req.TransferID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferInTransit)).Inc()
	return slip, nil
}

// Receive closes out an IN_TRANSIT transfer. For every line, in order: the
// dispatch reservation is released at the source for the received
// quantity, a TRANSFER_OUT is posted at the source for the same quantity,
// and a TRANSFER_IN is posted at the destination. Releasing and posting
// OUT only for what arrived keeps short or damaged shipments on the
// source's books, still reserved, where the automatically filed
// discrepancy picks them up.
func (s *TransferService) Receive(ctx context.Context, req *models.CreateReceivingRequest, userID int) (*models.ReceivingSlip, error) {
	if !req.ConditionOnArrival.Valid() {
		return nil, fmt.Errorf("%w: unknown arrival condition %q", apperrors.ErrValidation, req.ConditionOnArrival)
	}

	var slip *models.ReceivingSlip
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		transfer, err := tx.TransferForUpdate(ctx, req.TransferID)
		if err != nil {
			return err
		}
		if !transfer.Status.CanTransition(models.TransferDelivered) {
			return fmt.Errorf("%w: cannot receive transfer in status %s",
				apperrors.ErrInvalidStateTransition, transfer.Status)
		}

		dispatch, err := tx.DispatchSlipForTransfer(ctx, req.TransferID)
		if err != nil {
			return err
		}
		if dispatch.ID != req.DispatchID {
			return fmt.Errorf("%w: dispatch %d does not belong to transfer %d",
				apperrors.ErrValidation, req.DispatchID, req.TransferID)
		}

		items, err := tx.TransferItems(ctx, req.TransferID)
		if err != nil {
			return err
		}
		dispatched := make(map[int]int, len(items))
		for _, it := range items {
			if it.DispatchedQuantity > 0 {
				dispatched[it.ItemID] = it.DispatchedQuantity
			}
		}
		if len(req.Items) != len(dispatched) {
			return fmt.Errorf("%w: receiving must account for all %d dispatched lines",
				apperrors.ErrValidation, len(dispatched))
		}

		now := timeutil.Now()
		seq, err := tx.NextDocumentNumber(ctx, DocTypeReceiving, now)
		if err != nil {
			return err
		}
		slip = &models.ReceivingSlip{
			ReceivingNumber:    FormatDocumentNumber(DocTypeReceiving, now, seq),
			TransferID:         req.TransferID,
			DispatchID:         dispatch.ID,
			ReceivedBy:         userID,
			ConditionOnArrival: req.ConditionOnArrival,
			ReceivingDate:      now,
			Notes:              req.Notes,
		}
		if err := tx.InsertReceivingSlip(ctx, slip); err != nil {
			return err
		}

		for _, rcv := range req.Items {
			dispQty, ok := dispatched[rcv.ItemID]
			if !ok {
				return fmt.Errorf("%w: item %d was not dispatched on this transfer",
					apperrors.ErrValidation, rcv.ItemID)
			}
			if rcv.ReceivedQuantity < 0 || rcv.DamagedQuantity < 0 ||
				rcv.ReceivedQuantity+rcv.DamagedQuantity > dispQty {
				return fmt.Errorf("%w: item %d received %d + damaged %d exceeds dispatched %d",
					apperrors.ErrValidation, rcv.ItemID, rcv.ReceivedQuantity, rcv.DamagedQuantity, dispQty)
			}

			if err := s.receiveLine(ctx, tx, transfer, rcv, dispQty, userID, now); err != nil {
				return err
			}

			slipItem := &models.ReceivingSlipItem{
				ReceivingID:        slip.ID,
				ItemID:             rcv.ItemID,
				DispatchedQuantity: dispQty,
				ReceivedQuantity:   rcv.ReceivedQuantity,
				DamagedQuantity:    rcv.DamagedQuantity,
				ConditionNotes:     rcv.ConditionNotes,
			}
			if err := tx.InsertReceivingSlipItem(ctx, slipItem); err != nil {
				return err
			}
			slip.Items = append(slip.Items, *slipItem)
		}

		ok, err := tx.TransitionTransfer(ctx, req.TransferID, transfer.Status, models.TransferDelivered, userID, "")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %d changed concurrently", apperrors.ErrInvalidStateTransition, req.TransferID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransferTransitionsTotal.WithLabelValues(string(models.TransferDelivered)).Inc()
	return slip, nil
}

// receiveLine settles one transfer line. The reservation is released for
// the received quantity only, mirroring the TRANSFER_OUT, so the
// release-then-OUT pair can never push current_stock below reserved_stock
// even when the source had its whole balance committed. Short or damaged
// residue stays reserved on the source's books until the discrepancy
// workflow or an explicit release clears it.
func (s *TransferService) receiveLine(ctx context.Context, tx repositories.Tx, transfer *models.TransferRequest, rcv models.ReceivingItemRequest, dispQty, userID int, now time.Time) error {
	src, err := tx.InventoryForUpdate(ctx, rcv.ItemID, transfer.FromBranchID)
	if err != nil {
		return err
	}

	reserved := src.ReservedStock - rcv.ReceivedQuantity
	if reserved < 0 {
		reserved = 0
	}

	outStock, err := models.ApplyMovement(src.CurrentStock, models.MovementTransferOut, rcv.ReceivedQuantity)
	if err != nil {
		return err
	}
	if outStock < reserved {
		return fmt.Errorf("%w: transfer out of item %d would leave stock %d below reservation %d",
			apperrors.ErrInsufficientAvailableStock, rcv.ItemID, outStock, reserved)
	}

	if rcv.ReceivedQuantity > 0 {
		out := &models.StockMovement{
			ItemID:        rcv.ItemID,
			BranchID:      transfer.FromBranchID,
			MovementType:  models.MovementTransferOut,
			Quantity:      rcv.ReceivedQuantity,
			PreviousStock: src.CurrentStock,
			NewStock:      outStock,
			ReferenceType: models.ReferenceTransfer,
			ReferenceID:   &transfer.ID,
			Notes:         transfer.TransferNumber,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := tx.InsertMovement(ctx, out); err != nil {
			return err
		}
		metrics.StockMovementsTotal.WithLabelValues(string(models.MovementTransferOut)).Inc()
	}
	if err := tx.SetInventoryLevels(ctx, rcv.ItemID, transfer.FromBranchID, outStock, reserved, userID); err != nil {
		return err
	}

	if rcv.ReceivedQuantity > 0 {
		dst, err := tx.InventoryForUpdate(ctx, rcv.ItemID, transfer.ToBranchID)
		if err != nil {
			return err
		}
		inStock, err := models.ApplyMovement(dst.CurrentStock, models.MovementTransferIn, rcv.ReceivedQuantity)
		if err != nil {
			return err
		}
		in := &models.StockMovement{
			ItemID:        rcv.ItemID,
			BranchID:      transfer.ToBranchID,
			MovementType:  models.MovementTransferIn,
			Quantity:      rcv.ReceivedQuantity,
			PreviousStock: dst.CurrentStock,
			NewStock:      inStock,
			ReferenceType: models.ReferenceTransfer,
			ReferenceID:   &transfer.ID,
			Notes:         transfer.TransferNumber,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := tx.InsertMovement(ctx, in); err != nil {
			return err
		}
		metrics.StockMovementsTotal.WithLabelValues(string(models.MovementTransferIn)).Inc()
		if err := tx.SetInventoryLevels(ctx, rcv.ItemID, transfer.ToBranchID, inStock, dst.ReservedStock, userID); err != nil {
			return err
		}
	}

	if err := tx.SetReceivedQuantity(ctx, transfer.ID, rcv.ItemID, rcv.ReceivedQuantity); err != nil {
		return err
	}

	// Short or damaged lines leave units on the source's books; file a
	// discrepancy so the shortfall gets investigated instead of lost.
	if rcv.ReceivedQuantity < dispQty {
		dtype := models.DiscrepancyCountError
		if rcv.DamagedQuantity > 0 {
			dtype = models.DiscrepancyDamage
		}
		d := &models.StockDiscrepancy{
			ItemID:           rcv.ItemID,
			BranchID:         transfer.FromBranchID,
			ExpectedQuantity: dispQty,
			ActualQuantity:   rcv.ReceivedQuantity,
			Type:             dtype,
			Status:           models.DiscrepancyReported,
			Description: fmt.Sprintf("transfer %s: dispatched %d, received %d (%d damaged)",
				transfer.TransferNumber, dispQty, rcv.ReceivedQuantity, rcv.DamagedQuantity),
			ReportedBy: userID,
			ReportedAt: now,
		}
		if err := tx.InsertDiscrepancy(ctx, d); err != nil {
			return err
		}
		metrics.DiscrepanciesTotal.WithLabelValues(string(dtype)).Inc()
	}
	return nil
}
