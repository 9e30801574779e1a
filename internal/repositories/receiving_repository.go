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

type ReceivingRepository struct {
	DB *pgxpool.Pool
}

func NewReceivingRepository(db *pgxpool.Pool) *ReceivingRepository {
	return &ReceivingRepository{DB: db}
}

const receivingSelect = `SELECT r.id, r.receiving_number, r.transfer_id, t.transfer_number,
	r.dispatch_id, d.dispatch_number, fb.branch_name, tb.branch_name,
	r.received_by, u.full_name, r.condition_on_arrival, r.receiving_date,
	r.photo_path, r.notes
 FROM receiving_slips r
 JOIN transfer_requests t ON t.id = r.transfer_id
 JOIN dispatch_slips d ON d.id = r.dispatch_id
 JOIN branches fb ON fb.id = t.from_branch_id
 JOIN branches tb ON tb.id = t.to_branch_id
 JOIN users u ON u.id = r.received_by`

func scanReceiving(row pgx.Row) (*models.ReceivingSlip, error) {
	var s models.ReceivingSlip
	err := row.Scan(&s.ID, &s.ReceivingNumber, &s.TransferID, &s.TransferNumber,
		&s.DispatchID, &s.DispatchNumber, &s.FromBranch, &s.ToBranch,
		&s.ReceivedBy, &s.ReceivedByName, &s.ConditionOnArrival, &s.ReceivingDate,
		&s.PhotoPath, &s.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: receiving slip", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ReceivingRepository) Get(ctx context.Context, id int) (*models.ReceivingSlip, error) {
	slip, err := scanReceiving(r.DB.QueryRow(ctx, receivingSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	slip.Items = items
	return slip, nil
}

func (r *ReceivingRepository) List(ctx context.Context, limit, offset int) ([]models.ReceivingSlip, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		receivingSelect+` ORDER BY r.receiving_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []models.ReceivingSlip
	for rows.Next() {
		s, err := scanReceiving(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, *s)
	}
	return slips, rows.Err()
}

func (r *ReceivingRepository) Items(ctx context.Context, receivingID int) ([]models.ReceivingSlipItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT ri.id, ri.receiving_id, ri.item_id, i.item_name, i.item_code,
		        i.unit_of_measure, ri.dispatched_quantity, ri.received_quantity,
		        ri.damaged_quantity, ri.condition_notes
		 FROM receiving_slip_items ri
		 JOIN items i ON i.id = ri.item_id
		 WHERE ri.receiving_id = $1
		 ORDER BY ri.id`,
		receivingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ReceivingSlipItem
	for rows.Next() {
		var it models.ReceivingSlipItem
		if err := rows.Scan(&it.ID, &it.ReceivingID, &it.ItemID, &it.ItemName, &it.ItemCode,
			&it.UnitOfMeasure, &it.DispatchedQuantity, &it.ReceivedQuantity,
			&it.DamagedQuantity, &it.ConditionNotes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SetPhotoPath records the object storage key of the arrival photo.
func (r *ReceivingRepository) SetPhotoPath(ctx context.Context, id int, path string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE receiving_slips SET photo_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: receiving slip %d", apperrors.ErrNotFound, id)
	}
	return nil
}
