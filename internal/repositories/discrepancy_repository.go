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

type DiscrepancyRepository struct {
	DB *pgxpool.Pool
}

func NewDiscrepancyRepository(db *pgxpool.Pool) *DiscrepancyRepository {
	return &DiscrepancyRepository{DB: db}
}

const discrepancySelect = `SELECT d.id, d.item_id, i.item_name, i.item_code,
	d.branch_id, b.branch_name, d.expected_stock, d.actual_stock,
	d.discrepancy_type, d.status, d.description, d.investigation_notes,
	d.resolution_notes, d.adjustment_movement_id,
	d.reported_by, ru.full_name, d.resolved_by, COALESCE(su.full_name, ''),
	d.reported_date, d.resolved_date
 FROM stock_discrepancies d
 JOIN items i ON i.id = d.item_id
 JOIN branches b ON b.id = d.branch_id
 JOIN users ru ON ru.id = d.reported_by
 LEFT JOIN users su ON su.id = d.resolved_by`

func scanDiscrepancy(row pgx.Row) (*models.StockDiscrepancy, error) {
	var d models.StockDiscrepancy
	err := row.Scan(&d.ID, &d.ItemID, &d.ItemName, &d.ItemCode,
		&d.BranchID, &d.BranchName, &d.ExpectedQuantity, &d.ActualQuantity,
		&d.Type, &d.Status, &d.Description, &d.InvestigationNotes,
		&d.Resolution, &d.AdjustmentID,
		&d.ReportedBy, &d.ReportedByName, &d.ResolvedBy, &d.ResolvedByName,
		&d.ReportedAt, &d.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: discrepancy", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscrepancyRepository) Get(ctx context.Context, id int) (*models.StockDiscrepancy, error) {
	return scanDiscrepancy(r.DB.QueryRow(ctx, discrepancySelect+` WHERE d.id = $1`, id))
}

func (r *DiscrepancyRepository) List(ctx context.Context, filter models.DiscrepancyFilter) ([]models.StockDiscrepancy, error) {
	query := discrepancySelect + ` WHERE 1=1`
	args := []interface{}{}

	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND d.branch_id = $%d", len(args))
	}
	if filter.ItemID > 0 {
		args = append(args, filter.ItemID)
		query += fmt.Sprintf(" AND d.item_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND d.status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND d.discrepancy_type = $%d", len(args))
	}

	query += " ORDER BY d.reported_date DESC"

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

	var discrepancies []models.StockDiscrepancy
	for rows.Next() {
		d, err := scanDiscrepancy(rows)
		if err != nil {
			return nil, err
		}
		discrepancies = append(discrepancies, *d)
	}
	return discrepancies, rows.Err()
}
