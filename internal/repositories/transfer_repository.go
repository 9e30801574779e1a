package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

// TransferRepository serves the read side of transfers; all lifecycle
// mutations go through the TxStore primitives.
type TransferRepository struct {
	DB *pgxpool.Pool
}

func NewTransferRepository(db *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{DB: db}
}

// Get returns a transfer with denormalized names and its line items.
func (r *TransferRepository) Get(ctx context.Context, id int) (*models.TransferRequest, error) {
	var t models.TransferRequest
	err := r.DB.QueryRow(ctx,
		`SELECT t.id, t.transfer_number, t.from_branch_id, fb.branch_name,
		        t.to_branch_id, tb.branch_name, t.status, t.priority,
		        t.requested_by, ru.full_name, t.approved_by, COALESCE(au.full_name, ''),
		        t.request_date, t.approval_date, t.dispatch_date, t.delivery_date,
		        t.rejection_reason, t.notes
		 FROM transfer_requests t
		 JOIN branches fb ON fb.id = t.from_branch_id
		 JOIN branches tb ON tb.id = t.to_branch_id
		 JOIN users ru ON ru.id = t.requested_by
		 LEFT JOIN users au ON au.id = t.approved_by
		 WHERE t.id = $1`,
		id,
	).Scan(&t.ID, &t.TransferNumber, &t.FromBranchID, &t.FromBranchName,
		&t.ToBranchID, &t.ToBranchName, &t.Status, &t.Priority,
		&t.RequestedBy, &t.RequestedByName, &t.ApprovedBy, &t.ApprovedByName,
		&t.RequestDate, &t.ApprovalDate, &t.DispatchDate, &t.DeliveryDate,
		&t.RejectionReason, &t.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transfer %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

// Items returns a transfer's lines with item metadata and the source
// branch's live available stock, which the approval screen shows.
func (r *TransferRepository) Items(ctx context.Context, transferID int) ([]models.TransferRequestItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ti.id, ti.transfer_id, ti.item_id, i.item_name, i.item_code,
		        i.unit_of_measure, ti.requested_quantity, ti.approved_quantity,
		        ti.dispatched_quantity, ti.received_quantity,
		        COALESCE(inv.available_stock, 0), ti.notes
		 FROM transfer_request_items ti
		 JOIN items i ON i.id = ti.item_id
		 JOIN transfer_requests t ON t.id = ti.transfer_id
		 LEFT JOIN inventory inv ON inv.item_id = ti.item_id AND inv.branch_id = t.from_branch_id
		 WHERE ti.transfer_id = $1
		 ORDER BY ti.id`,
		transferID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.TransferRequestItem
	for rows.Next() {
		var it models.TransferRequestItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ItemID, &it.ItemName, &it.ItemCode,
			&it.UnitOfMeasure, &it.RequestedQuantity, &it.ApprovedQuantity,
			&it.DispatchedQuantity, &it.ReceivedQuantity,
			&it.AvailableStock, &it.Notes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *TransferRepository) List(ctx context.Context, filter models.TransferFilter) ([]models.TransferSummary, error) {
	query := `SELECT t.id, t.transfer_number, fb.branch_name, tb.branch_name,
	        u.full_name, t.status, t.priority, t.request_date, t.approval_date,
	        COUNT(ti.id)
	 FROM transfer_requests t
	 JOIN branches fb ON fb.id = t.from_branch_id
	 JOIN branches tb ON tb.id = t.to_branch_id
	 JOIN users u ON u.id = t.requested_by
	 LEFT JOIN transfer_request_items ti ON ti.transfer_id = t.id
	 WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.FromBranchID > 0 {
		args = append(args, filter.FromBranchID)
		query += fmt.Sprintf(" AND t.from_branch_id = $%d", len(args))
	}
	if filter.ToBranchID > 0 {
		args = append(args, filter.ToBranchID)
		query += fmt.Sprintf(" AND t.to_branch_id = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND t.priority = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND t.request_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND t.request_date <= $%d", len(args))
	}

	query += ` GROUP BY t.id, fb.branch_name, tb.branch_name, u.full_name
	 ORDER BY t.request_date DESC`

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.TransferSummary
	for rows.Next() {
		var s models.TransferSummary
		if err := rows.Scan(&s.ID, &s.TransferNumber, &s.FromBranch, &s.ToBranch,
			&s.RequestedBy, &s.Status, &s.Priority, &s.RequestDate, &s.ApprovalDate,
			&s.TotalItems); err != nil {
			return nil, err
		}
		transfers = append(transfers, s)
	}
	return transfers, rows.Err()
}

// NextSequencePreview peeks at what the next per-day sequence value for a
// document type would be without consuming it. Advisory only; the real
// number is assigned inside the create transaction and may differ under
// concurrent creates.
func (r *TransferRepository) NextSequencePreview(ctx context.Context, docType string, day time.Time) (int, error) {
	var last int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(MAX(last_value), 0) FROM document_sequences
		 WHERE doc_type = $1 AND seq_date = $2`,
		docType, day).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("%w: peeking %s sequence: %v", apperrors.ErrStoreUnavailable, docType, err)
	}
	return last + 1, nil
}
