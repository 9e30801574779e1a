package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/models"
)

type MovementRepository struct {
	DB *pgxpool.Pool
}

func NewMovementRepository(db *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{DB: db}
}

// List returns ledger rows newest first, filtered by whatever the caller
// set on the filter.
func (r *MovementRepository) List(ctx context.Context, filter models.MovementFilter) ([]models.StockMovement, error) {
	query := `SELECT m.id, m.item_id, i.item_name, m.branch_id, b.branch_name,
	        m.movement_type, m.quantity, m.previous_stock, m.new_stock,
	        m.reference_type, m.reference_id, m.notes, m.created_by, u.full_name, m.created_at
	 FROM stock_movements m
	 JOIN items i ON i.id = m.item_id
	 JOIN branches b ON b.id = m.branch_id
	 JOIN users u ON u.id = m.created_by
	 WHERE 1=1`
	args := []interface{}{}

	if filter.ItemID > 0 {
		args = append(args, filter.ItemID)
		query += fmt.Sprintf(" AND m.item_id = $%d", len(args))
	}
	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND m.branch_id = $%d", len(args))
	}
	if filter.MovementType != "" {
		args = append(args, filter.MovementType)
		query += fmt.Sprintf(" AND m.movement_type = $%d", len(args))
	}
	if filter.ReferenceType != "" {
		args = append(args, filter.ReferenceType)
		query += fmt.Sprintf(" AND m.reference_type = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND m.created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND m.created_at <= $%d", len(args))
	}

	query += " ORDER BY m.created_at DESC, m.id DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
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

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.BranchID, &m.BranchName,
			&m.MovementType, &m.Quantity, &m.PreviousStock, &m.NewStock,
			&m.ReferenceType, &m.ReferenceID, &m.Notes, &m.CreatedBy, &m.CreatedByName,
			&m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// History returns the full replay-ordered ledger for one (item, branch).
func (r *MovementRepository) History(ctx context.Context, itemID, branchID int) ([]models.StockMovement, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, item_id, branch_id, movement_type, quantity,
		        previous_stock, new_stock, reference_type, reference_id,
		        notes, created_by, created_at
		 FROM stock_movements
		 WHERE item_id = $1 AND branch_id = $2
		 ORDER BY created_at, id`,
		itemID, branchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.BranchID, &m.MovementType, &m.Quantity,
			&m.PreviousStock, &m.NewStock, &m.ReferenceType, &m.ReferenceID,
			&m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
