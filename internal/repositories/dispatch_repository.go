package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

type DispatchRepository struct {
	DB *pgxpool.Pool
}

func NewDispatchRepository(db *pgxpool.Pool) *DispatchRepository {
	return &DispatchRepository{DB: db}
}

const dispatchSelect = `SELECT d.id, d.dispatch_number, d.transfer_id, t.transfer_number,
	fb.branch_name, tb.branch_name, d.dispatched_by, u.full_name,
	d.loader_name, d.vehicle_info, d.dispatch_date, d.expected_delivery_date, d.notes
 FROM dispatch_slips d
 JOIN transfer_requests t ON t.id = d.transfer_id
 JOIN branches fb ON fb.id = t.from_branch_id
 JOIN branches tb ON tb.id = t.to_branch_id
 JOIN users u ON u.id = d.dispatched_by`

func scanDispatch(row pgx.Row) (*models.DispatchSlip, error) {
	var d models.DispatchSlip
	err := row.Scan(&d.ID, &d.DispatchNumber, &d.TransferID, &d.TransferNumber,
		&d.FromBranch, &d.ToBranch, &d.DispatchedBy, &d.DispatchedByName,
		&d.LoaderName, &d.VehicleInfo, &d.DispatchDate, &d.ExpectedDeliveryDate, &d.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: dispatch slip", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DispatchRepository) Get(ctx context.Context, id int) (*models.DispatchSlip, error) {
	return scanDispatch(r.DB.QueryRow(ctx, dispatchSelect+` WHERE d.id = $1`, id))
}

func (r *DispatchRepository) GetByTransfer(ctx context.Context, transferID int) (*models.DispatchSlip, error) {
	return scanDispatch(r.DB.QueryRow(ctx, dispatchSelect+` WHERE d.transfer_id = $1`, transferID))
}

func (r *DispatchRepository) List(ctx context.Context, limit, offset int) ([]models.DispatchSlip, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		dispatchSelect+` ORDER BY d.dispatch_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []models.DispatchSlip
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, *d)
	}
	return slips, rows.Err()
}

// Items returns the dispatched lines of a slip, read from the transfer's
// line items.
func (r *DispatchRepository) Items(ctx context.Context, dispatchID int) ([]models.DispatchItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ti.item_id, i.item_name, i.item_code, ti.dispatched_quantity, i.unit_of_measure
		 FROM dispatch_slips d
		 JOIN transfer_request_items ti ON ti.transfer_id = d.transfer_id
		 JOIN items i ON i.id = ti.item_id
		 WHERE d.id = $1 AND ti.dispatched_quantity > 0
		 ORDER BY i.item_name`,
		dispatchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.DispatchItem
	for rows.Next() {
		var it models.DispatchItem
		if err := rows.Scan(&it.ItemID, &it.ItemName, &it.ItemCode,
			&it.DispatchedQuantity, &it.UnitOfMeasure); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
