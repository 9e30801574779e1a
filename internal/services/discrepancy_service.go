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

// DiscrepancyService runs the REPORTED -> INVESTIGATING -> RESOLVED
// workflow. Resolving with a stock adjustment posts the correcting
// ADJUSTMENT movement in the same transaction as the status change, so a
// discrepancy can never end up resolved with the correction missing.
type DiscrepancyService struct {
	store repositories.Store
}

func NewDiscrepancyService(store repositories.Store) *DiscrepancyService {
	return &DiscrepancyService{store: store}
}

// Report files a new discrepancy. The caller states what the books should
// say via expected_stock; when omitted, the expected quantity is
// snapshotted from the balance row under lock so the recorded difference
// reflects the books at the moment of counting.
func (s *DiscrepancyService) Report(ctx context.Context, req *models.ReportDiscrepancyRequest, userID int) (*models.StockDiscrepancy, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown discrepancy type %q", apperrors.ErrValidation, req.Type)
	}
	if req.ActualQuantity < 0 {
		return nil, fmt.Errorf("%w: actual quantity must be non-negative", apperrors.ErrValidation)
	}
	if req.ExpectedStock != nil && *req.ExpectedStock < 0 {
		return nil, fmt.Errorf("%w: expected stock must be non-negative", apperrors.ErrValidation)
	}

	var d *models.StockDiscrepancy
	err := s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		var expected int
		if req.ExpectedStock != nil {
			expected = *req.ExpectedStock
		} else {
			inv, err := tx.InventoryForUpdate(ctx, req.ItemID, req.BranchID)
			if err != nil {
				return err
			}
			expected = inv.CurrentStock
		}

		d = &models.StockDiscrepancy{
			ItemID:           req.ItemID,
			BranchID:         req.BranchID,
			ExpectedQuantity: expected,
			ActualQuantity:   req.ActualQuantity,
			Type:             req.Type,
			Status:           models.DiscrepancyReported,
			Description:      req.Description,
			ReportedBy:       userID,
			ReportedAt:       timeutil.Now(),
		}
		return tx.InsertDiscrepancy(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	metrics.DiscrepanciesTotal.WithLabelValues(string(req.Type)).Inc()
	return d, nil
}

// Investigate moves REPORTED -> INVESTIGATING.
func (s *DiscrepancyService) Investigate(ctx context.Context, id int, req *models.InvestigateDiscrepancyRequest, userID int) error {
	return s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		d, err := tx.DiscrepancyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d.Status != models.DiscrepancyReported {
			return fmt.Errorf("%w: cannot investigate discrepancy in status %s",
				apperrors.ErrInvalidStateTransition, d.Status)
		}

		update := models.DiscrepancyUpdate{InvestigationNotes: &req.Notes}
		ok, err := tx.TransitionDiscrepancy(ctx, id, d.Status, models.DiscrepancyInvestigating, update)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: discrepancy %d changed concurrently", apperrors.ErrInvalidStateTransition, id)
		}
		return nil
	})
}

// Resolve closes a discrepancy from REPORTED or INVESTIGATING. With
// AdjustStock set, the reported difference (actual - expected) is posted
// as an ADJUSTMENT movement referencing the discrepancy, and the movement
// id is stored back on the discrepancy row.
func (s *DiscrepancyService) Resolve(ctx context.Context, id int, req *models.ResolveDiscrepancyRequest, userID int) error {
	if req.Resolution == "" {
		return fmt.Errorf("%w: resolution is required", apperrors.ErrValidation)
	}

	return s.store.WithinTx(ctx, func(tx repositories.Tx) error {
		d, err := tx.DiscrepancyForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d.Status == models.DiscrepancyResolved {
			return fmt.Errorf("%w: discrepancy %d is already resolved",
				apperrors.ErrInvalidStateTransition, id)
		}

		now := timeutil.Now()
		update := models.DiscrepancyUpdate{
			Resolution: &req.Resolution,
			ResolvedBy: &userID,
			ResolvedAt: &now,
		}

		if req.AdjustStock && d.Difference() != 0 {
			inv, err := tx.InventoryForUpdate(ctx, d.ItemID, d.BranchID)
			if err != nil {
				return err
			}
			newStock, err := models.ApplyMovement(inv.CurrentStock, models.MovementAdjustment, d.Difference())
			if err != nil {
				return err
			}
			if newStock < inv.ReservedStock {
				return fmt.Errorf("%w: adjustment would leave stock %d below reservation %d",
					apperrors.ErrInsufficientAvailableStock, newStock, inv.ReservedStock)
			}

			m := &models.StockMovement{
				ItemID:        d.ItemID,
				BranchID:      d.BranchID,
				MovementType:  models.MovementAdjustment,
				Quantity:      d.Difference(),
				PreviousStock: inv.CurrentStock,
				NewStock:      newStock,
				ReferenceType: models.ReferenceAdjustment,
				ReferenceID:   &d.ID,
				Notes:         req.Resolution,
				CreatedBy:     userID,
				CreatedAt:     now,
			}
			if err := tx.InsertMovement(ctx, m); err != nil {
				return err
			}
			if err := tx.SetInventoryLevels(ctx, d.ItemID, d.BranchID, newStock, inv.ReservedStock, userID); err != nil {
				return err
			}
			metrics.StockMovementsTotal.WithLabelValues(string(models.MovementAdjustment)).Inc()
			update.AdjustmentID = &m.ID
		}

		ok, err := tx.TransitionDiscrepancy(ctx, id, d.Status, models.DiscrepancyResolved, update)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: discrepancy %d changed concurrently", apperrors.ErrInvalidStateTransition, id)
		}
		return nil
	})
}
