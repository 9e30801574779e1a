package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/timeutil"
)

// TxStore is the pgx-backed Store. Every WithinTx call gets one
// transaction; the Tx handed to the callback wraps it.
type TxStore struct {
	DB *pgxpool.Pool
}

func NewTxStore(db *pgxpool.Pool) *TxStore {
	return &TxStore{DB: db}
}

func (s *TxStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	pgtx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer pgtx.Rollback(ctx)

	if err := fn(&sqlTx{tx: pgtx}); err != nil {
		return err
	}
	return pgtx.Commit(ctx)
}

type sqlTx struct {
	tx pgx.Tx
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (t *sqlTx) NextDocumentNumber(ctx context.Context, docType string, day time.Time) (int, error) {
	var next int
	err := t.tx.QueryRow(ctx,
		`INSERT INTO document_sequences(doc_type, seq_date, last_value)
		 VALUES($1, $2, 1)
		 ON CONFLICT (doc_type, seq_date)
		 DO UPDATE SET last_value = document_sequences.last_value + 1
		 RETURNING last_value`,
		docType, day.In(timeutil.Loc).Format(timeutil.DateLayout),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next %s number: %w", docType, err)
	}
	return next, nil
}

func (t *sqlTx) InventoryForUpdate(ctx context.Context, itemID, branchID int) (*models.Inventory, error) {
	// Ensure the balance row exists so the FOR UPDATE always locks one.
	_, err := t.tx.Exec(ctx,
		`INSERT INTO inventory(item_id, branch_id) VALUES($1, $2)
		 ON CONFLICT (item_id, branch_id) DO NOTHING`,
		itemID, branchID,
	)
	if err != nil {
		return nil, err
	}

	var inv models.Inventory
	err = t.tx.QueryRow(ctx,
		`SELECT id, item_id, branch_id, current_stock, reserved_stock,
		        available_stock, last_updated, updated_by
		 FROM inventory
		 WHERE item_id = $1 AND branch_id = $2
		 FOR UPDATE`,
		itemID, branchID,
	).Scan(&inv.ID, &inv.ItemID, &inv.BranchID, &inv.CurrentStock, &inv.ReservedStock,
		&inv.AvailableStock, &inv.LastUpdated, &inv.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (t *sqlTx) SetInventoryLevels(ctx context.Context, itemID, branchID, currentStock, reservedStock, updatedBy int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE inventory
		 SET current_stock = $3, reserved_stock = $4, last_updated = NOW(), updated_by = $5
		 WHERE item_id = $1 AND branch_id = $2`,
		itemID, branchID, currentStock, reservedStock, updatedBy,
	)
	return err
}

func (t *sqlTx) InsertMovement(ctx context.Context, m *models.StockMovement) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO stock_movements(item_id, branch_id, movement_type, quantity,
		        previous_stock, new_stock, reference_type, reference_id, notes,
		        created_by, created_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		m.ItemID, m.BranchID, m.MovementType, m.Quantity,
		m.PreviousStock, m.NewStock, m.ReferenceType, m.ReferenceID, m.Notes,
		m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
}

func (t *sqlTx) SumMovements(ctx context.Context, itemID, branchID int) (int, error) {
	var sum int
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE
		        WHEN movement_type IN ('OUT', 'TRANSFER_OUT') THEN -quantity
		        ELSE quantity END), 0)
		 FROM stock_movements
		 WHERE item_id = $1 AND branch_id = $2`,
		itemID, branchID,
	).Scan(&sum)
	return sum, err
}

func (t *sqlTx) InsertTransfer(ctx context.Context, tr *models.TransferRequest) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO transfer_requests(transfer_number, from_branch_id, to_branch_id,
		        status, priority, requested_by, request_date, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		tr.TransferNumber, tr.FromBranchID, tr.ToBranchID,
		tr.Status, tr.Priority, tr.RequestedBy, tr.RequestDate, tr.Notes,
	).Scan(&tr.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transfer number %s", apperrors.ErrDuplicateReference, tr.TransferNumber)
	}
	return err
}

func (t *sqlTx) InsertTransferItem(ctx context.Context, it *models.TransferRequestItem) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO transfer_request_items(transfer_id, item_id, requested_quantity, notes)
		 VALUES($1, $2, $3, $4)
		 RETURNING id`,
		it.TransferID, it.ItemID, it.RequestedQuantity, it.Notes,
	).Scan(&it.ID)
}

func (t *sqlTx) TransferForUpdate(ctx context.Context, id int) (*models.TransferRequest, error) {
	var tr models.TransferRequest
	err := t.tx.QueryRow(ctx,
		`SELECT id, transfer_number, from_branch_id, to_branch_id, status, priority,
		        requested_by, approved_by, request_date, approval_date,
		        dispatch_date, delivery_date, rejection_reason, notes
		 FROM transfer_requests
		 WHERE id = $1
		 FOR UPDATE`,
		id,
	).Scan(&tr.ID, &tr.TransferNumber, &tr.FromBranchID, &tr.ToBranchID, &tr.Status, &tr.Priority,
		&tr.RequestedBy, &tr.ApprovedBy, &tr.RequestDate, &tr.ApprovalDate,
		&tr.DispatchDate, &tr.DeliveryDate, &tr.RejectionReason, &tr.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transfer %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (t *sqlTx) TransferItems(ctx context.Context, transferID int) ([]models.TransferRequestItem, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT id, transfer_id, item_id, requested_quantity, approved_quantity,
		        dispatched_quantity, received_quantity, notes
		 FROM transfer_request_items
		 WHERE transfer_id = $1
		 ORDER BY id`,
		transferID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.TransferRequestItem
	for rows.Next() {
		var it models.TransferRequestItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ItemID, &it.RequestedQuantity,
			&it.ApprovedQuantity, &it.DispatchedQuantity, &it.ReceivedQuantity, &it.Notes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (t *sqlTx) TransitionTransfer(ctx context.Context, id int, expected, next models.TransferStatus, actorID int, reason string) (bool, error) {
	var tag pgconn.CommandTag
	var err error

	// Each target status stamps its own columns; the WHERE clause on the
	// expected status makes concurrent transitions lose cleanly.
	switch next {
	case models.TransferApproved:
		tag, err = t.tx.Exec(ctx,
			`UPDATE transfer_requests
			 SET status = $3, approved_by = $4, approval_date = NOW()
			 WHERE id = $1 AND status = $2`,
			id, expected, next, actorID)
	case models.TransferRejected:
		tag, err = t.tx.Exec(ctx,
			`UPDATE transfer_requests
			 SET status = $3, approved_by = $4, approval_date = NOW(), rejection_reason = $5
			 WHERE id = $1 AND status = $2`,
			id, expected, next, actorID, reason)
	case models.TransferInTransit:
		tag, err = t.tx.Exec(ctx,
			`UPDATE transfer_requests
			 SET status = $3, dispatch_date = NOW()
			 WHERE id = $1 AND status = $2`,
			id, expected, next)
	case models.TransferDelivered:
		tag, err = t.tx.Exec(ctx,
			`UPDATE transfer_requests
			 SET status = $3, delivery_date = NOW()
			 WHERE id = $1 AND status = $2`,
			id, expected, next)
	case models.TransferCancelled:
		tag, err = t.tx.Exec(ctx,
			`UPDATE transfer_requests
			 SET status = $3
			 WHERE id = $1 AND status = $2`,
			id, expected, next)
	default:
		return false, fmt.Errorf("%w: cannot transition to %s", apperrors.ErrInvalidStateTransition, next)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (t *sqlTx) SetApprovedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE transfer_request_items SET approved_quantity = $3
		 WHERE transfer_id = $1 AND item_id = $2`,
		transferID, itemID, quantity)
	return err
}

func (t *sqlTx) SetDispatchedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE transfer_request_items SET dispatched_quantity = $3
		 WHERE transfer_id = $1 AND item_id = $2`,
		transferID, itemID, quantity)
	return err
}

func (t *sqlTx) SetReceivedQuantity(ctx context.Context, transferID, itemID, quantity int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE transfer_request_items SET received_quantity = $3
		 WHERE transfer_id = $1 AND item_id = $2`,
		transferID, itemID, quantity)
	return err
}

func (t *sqlTx) InsertDispatchSlip(ctx context.Context, d *models.DispatchSlip) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO dispatch_slips(dispatch_number, transfer_id, dispatched_by,
		        loader_name, vehicle_info, dispatch_date, expected_delivery_date, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		d.DispatchNumber, d.TransferID, d.DispatchedBy,
		d.LoaderName, d.VehicleInfo, d.DispatchDate, d.ExpectedDeliveryDate, d.Notes,
	).Scan(&d.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transfer %d already has a dispatch slip", apperrors.ErrDuplicateReference, d.TransferID)
	}
	return err
}

func (t *sqlTx) DispatchSlipForTransfer(ctx context.Context, transferID int) (*models.DispatchSlip, error) {
	var d models.DispatchSlip
	err := t.tx.QueryRow(ctx,
		`SELECT id, dispatch_number, transfer_id, dispatched_by, loader_name,
		        vehicle_info, dispatch_date, expected_delivery_date, notes
		 FROM dispatch_slips
		 WHERE transfer_id = $1`,
		transferID,
	).Scan(&d.ID, &d.DispatchNumber, &d.TransferID, &d.DispatchedBy, &d.LoaderName,
		&d.VehicleInfo, &d.DispatchDate, &d.ExpectedDeliveryDate, &d.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no dispatch slip for transfer %d", apperrors.ErrNotFound, transferID)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *sqlTx) InsertReceivingSlip(ctx context.Context, r *models.ReceivingSlip) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO receiving_slips(receiving_number, transfer_id, dispatch_id,
		        received_by, condition_on_arrival, receiving_date, photo_path, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		r.ReceivingNumber, r.TransferID, r.DispatchID,
		r.ReceivedBy, r.ConditionOnArrival, r.ReceivingDate, r.PhotoPath, r.Notes,
	).Scan(&r.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: receiving number %s", apperrors.ErrDuplicateReference, r.ReceivingNumber)
	}
	return err
}

func (t *sqlTx) InsertReceivingSlipItem(ctx context.Context, it *models.ReceivingSlipItem) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO receiving_slip_items(receiving_id, item_id, dispatched_quantity,
		        received_quantity, damaged_quantity, condition_notes)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		it.ReceivingID, it.ItemID, it.DispatchedQuantity,
		it.ReceivedQuantity, it.DamagedQuantity, it.ConditionNotes,
	).Scan(&it.ID)
}

func (t *sqlTx) InsertDiscrepancy(ctx context.Context, d *models.StockDiscrepancy) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO stock_discrepancies(branch_id, item_id, expected_stock, actual_stock,
		        difference, discrepancy_type, status, description, reported_by, reported_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		d.BranchID, d.ItemID, d.ExpectedQuantity, d.ActualQuantity,
		d.ActualQuantity-d.ExpectedQuantity, d.Type, d.Status, d.Description,
		d.ReportedBy, d.ReportedAt,
	).Scan(&d.ID)
}

func (t *sqlTx) DiscrepancyForUpdate(ctx context.Context, id int) (*models.StockDiscrepancy, error) {
	var d models.StockDiscrepancy
	err := t.tx.QueryRow(ctx,
		`SELECT id, branch_id, item_id, expected_stock, actual_stock, discrepancy_type,
		        status, description, investigation_notes, resolution_notes,
		        adjustment_movement_id, reported_by, resolved_by, reported_date, resolved_date
		 FROM stock_discrepancies
		 WHERE id = $1
		 FOR UPDATE`,
		id,
	).Scan(&d.ID, &d.BranchID, &d.ItemID, &d.ExpectedQuantity, &d.ActualQuantity, &d.Type,
		&d.Status, &d.Description, &d.InvestigationNotes, &d.Resolution,
		&d.AdjustmentID, &d.ReportedBy, &d.ResolvedBy, &d.ReportedAt, &d.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: discrepancy %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *sqlTx) TransitionDiscrepancy(ctx context.Context, id int, expected, next models.DiscrepancyStatus, update models.DiscrepancyUpdate) (bool, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE stock_discrepancies
		 SET status = $3,
		     investigation_notes = COALESCE($4, investigation_notes),
		     resolution_notes = COALESCE($5, resolution_notes),
		     resolved_by = COALESCE($6, resolved_by),
		     adjustment_movement_id = COALESCE($7, adjustment_movement_id),
		     resolved_date = COALESCE($8, resolved_date)
		 WHERE id = $1 AND status = $2`,
		id, expected, next,
		update.InvestigationNotes, update.Resolution, update.ResolvedBy,
		update.AdjustmentID, update.ResolvedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
