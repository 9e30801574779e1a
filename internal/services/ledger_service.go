package services

import (
	"context"
	"fmt"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/metrics"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/timeutil"
)

// LedgerService owns every write to the stock ledger and the balance rows.
// All mutations go through one transaction per call: lock the balance row,
// compute the new levels, append the movement, write the levels.
type LedgerService struct {
	store repositories.Store
}

func NewLedgerService(store repositories.Store) *LedgerService {
	return &LedgerService{store: store}
}

// PostMovement appends one ledger row and updates the (item, branch)
// balance. The movement's PreviousStock/NewStock snapshots are taken under
// the row lock, so concurrent posts serialize cleanly.
func (s *LedgerService) PostMovement(ctx context.Context, req *models.PostMovementRequest, userID int) (*models.StockMovement, error) {
	if !req.MovementType.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, req.MovementType)
	}
	if !req.ReferenceType.Valid() {
		return nil, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, req.ReferenceType)
	}

	var movement *models.StockMovement
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		inv, err := tx.InventoryForUpdate(ctx, req.ItemID, req.BranchID)
		if err != nil {
			return err
		}

		newStock, err := models.ApplyMovement(inv.CurrentStock, req.MovementType, req.Quantity)
		if err != nil {
			return err
		}
		if newStock < inv.ReservedStock {
			return fmt.Errorf("%w: movement would leave stock %d below reservation %d",
				apperrors.ErrInsufficientAvailableStock, newStock, inv.ReservedStock)
		}

		movement = &models.StockMovement{
			ItemID:        req.ItemID,
			BranchID:      req.BranchID,
			MovementType:  req.MovementType,
			Quantity:      req.Quantity,
			PreviousStock: inv.CurrentStock,
			NewStock:      newStock,
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
			Notes:         req.Notes,
			CreatedBy:     userID,
			CreatedAt:     timeutil.Now(),
		}
		if err := tx.InsertMovement(ctx, movement); err != nil {
			return err
		}
		return tx.SetInventoryLevels(ctx, req.ItemID, req.BranchID, newStock, inv.ReservedStock, userID)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovementsTotal.WithLabelValues(string(req.MovementType)).Inc()
	return movement, nil
}

// Reserve earmarks quantity units at a branch without moving stock. Fails
// when the reservation exceeds the available balance.
func (s *LedgerService) Reserve(ctx context.Context, req *models.StockReservationRequest, userID int) (*models.Inventory, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: reservation quantity must be positive", apperrors.ErrValidation)
	}

	var out *models.Inventory
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		inv, err := tx.InventoryForUpdate(ctx, req.ItemID, req.BranchID)
		if err != nil {
			return err
		}
		if inv.Available() < req.Quantity {
			return fmt.Errorf("%w: requested %d, available %d",
				apperrors.ErrInsufficientAvailableStock, req.Quantity, inv.Available())
		}

		newReserved := inv.ReservedStock + req.Quantity
		if err := tx.SetInventoryLevels(ctx, req.ItemID, req.BranchID, inv.CurrentStock, newReserved, userID); err != nil {
			return err
		}
		out = &models.Inventory{
			ItemID:         req.ItemID,
			BranchID:       req.BranchID,
			CurrentStock:   inv.CurrentStock,
			ReservedStock:  newReserved,
			AvailableStock: inv.CurrentStock - newReserved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Release gives back a reservation. Releasing more than is currently
// reserved clamps to zero rather than failing, so retried releases and
// over-counted callers stay harmless.
func (s *LedgerService) Release(ctx context.Context, req *models.StockReservationRequest, userID int) (*models.Inventory, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: release quantity must be positive", apperrors.ErrValidation)
	}

	var out *models.Inventory
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		inv, err := tx.InventoryForUpdate(ctx, req.ItemID, req.BranchID)
		if err != nil {
			return err
		}

		newReserved := inv.ReservedStock - req.Quantity
		if newReserved < 0 {
			newReserved = 0
		}
		if err := tx.SetInventoryLevels(ctx, req.ItemID, req.BranchID, inv.CurrentStock, newReserved, userID); err != nil {
			return err
		}
		out = &models.Inventory{
			ItemID:         req.ItemID,
			BranchID:       req.BranchID,
			CurrentStock:   inv.CurrentStock,
			ReservedStock:  newReserved,
			AvailableStock: inv.CurrentStock - newReserved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReconcileFromHistory replays the full movement ledger for (item, branch)
// and rewrites the balance row when it disagrees. Running it twice in a row
// is a no-op the second time.
func (s *LedgerService) ReconcileFromHistory(ctx context.Context, itemID, branchID, userID int) (*models.ReconcileResult, error) {
	var result *models.ReconcileResult
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		inv, err := tx.InventoryForUpdate(ctx, itemID, branchID)
		if err != nil {
			return err
		}
		ledger, err := tx.SumMovements(ctx, itemID, branchID)
		if err != nil {
			return err
		}

		result = &models.ReconcileResult{
			ItemID:        itemID,
			BranchID:      branchID,
			RecordedStock: inv.CurrentStock,
			LedgerStock:   ledger,
		}
		if ledger == inv.CurrentStock {
			return nil
		}

		// Reservations cannot exceed the corrected stock level.
		reserved := inv.ReservedStock
		if reserved > ledger {
			reserved = ledger
		}
		if err := tx.SetInventoryLevels(ctx, itemID, branchID, ledger, reserved, userID); err != nil {
			return err
		}
		result.Corrected = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
