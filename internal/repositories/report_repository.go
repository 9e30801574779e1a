package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/models"
)

type ReportRepository struct {
	DB *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) StockValuation(ctx context.Context, filter models.ReportFilter) ([]models.StockValuationRow, error) {
	query := `SELECT b.id, b.branch_name, c.id, c.category_name,
	        COUNT(DISTINCT i.id), COALESCE(SUM(inv.current_stock), 0),
	        COALESCE(SUM(inv.current_stock * i.unit_price), 0)
	 FROM inventory inv
	 JOIN items i ON i.id = inv.item_id
	 JOIN categories c ON c.id = i.category_id
	 JOIN branches b ON b.id = inv.branch_id
	 WHERE i.is_active AND b.is_active`
	args := []interface{}{}

	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND b.id = $%d", len(args))
	}
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND c.id = $%d", len(args))
	}
	query += ` GROUP BY b.id, b.branch_name, c.id, c.category_name
	 ORDER BY b.branch_name, c.category_name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.StockValuationRow
	for rows.Next() {
		var row models.StockValuationRow
		if err := rows.Scan(&row.BranchID, &row.BranchName, &row.CategoryID, &row.CategoryName,
			&row.ItemCount, &row.TotalUnits, &row.TotalValue); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// StockAging flags balances that have not moved recently.
func (r *ReportRepository) StockAging(ctx context.Context, filter models.ReportFilter) ([]models.StockAgingRow, error) {
	query := `SELECT i.id, i.item_name, i.item_code, b.id, b.branch_name,
	        inv.current_stock, last_move.at,
	        CASE WHEN last_move.at IS NULL THEN NULL
	             ELSE EXTRACT(DAY FROM NOW() - last_move.at)::int END
	 FROM inventory inv
	 JOIN items i ON i.id = inv.item_id
	 JOIN branches b ON b.id = inv.branch_id
	 LEFT JOIN LATERAL (
	     SELECT MAX(created_at) AS at FROM stock_movements m
	     WHERE m.item_id = inv.item_id AND m.branch_id = inv.branch_id
	 ) last_move ON TRUE
	 WHERE inv.current_stock > 0 AND i.is_active`
	args := []interface{}{}

	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND b.id = $%d", len(args))
	}
	query += ` ORDER BY last_move.at NULLS FIRST`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.StockAgingRow
	for rows.Next() {
		var row models.StockAgingRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.ItemCode, &row.BranchID, &row.BranchName,
			&row.CurrentStock, &row.LastMovement, &row.DaysSinceMove); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) TransfersByDay(ctx context.Context, filter models.ReportFilter) ([]models.TransferSummaryByDay, error) {
	query := `SELECT date_trunc('day', request_date) AS day,
	        COUNT(*),
	        COUNT(*) FILTER (WHERE status = 'DELIVERED'),
	        COUNT(*) FILTER (WHERE status = 'REJECTED'),
	        COUNT(*) FILTER (WHERE status = 'CANCELLED')
	 FROM transfer_requests
	 WHERE 1=1`
	args := []interface{}{}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND request_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND request_date <= $%d", len(args))
	}
	query += ` GROUP BY day ORDER BY day`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TransferSummaryByDay
	for rows.Next() {
		var row models.TransferSummaryByDay
		if err := rows.Scan(&row.Day, &row.Created, &row.Delivered, &row.Rejected, &row.Cancelled); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) MostRequestedItems(ctx context.Context, filter models.ReportFilter) ([]models.MostRequestedItem, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := r.DB.Query(ctx,
		`SELECT i.id, i.item_name, i.item_code, COUNT(ti.id), COALESCE(SUM(ti.requested_quantity), 0)
		 FROM transfer_request_items ti
		 JOIN items i ON i.id = ti.item_id
		 GROUP BY i.id, i.item_name, i.item_code
		 ORDER BY COUNT(ti.id) DESC, SUM(ti.requested_quantity) DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MostRequestedItem
	for rows.Next() {
		var row models.MostRequestedItem
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.ItemCode,
			&row.RequestCount, &row.TotalQuantity); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// TransferPerformance reports per-route volumes and how long approvals and
// transit take on average.
func (r *ReportRepository) TransferPerformance(ctx context.Context, filter models.ReportFilter) ([]models.TransferPerformanceRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT t.from_branch_id, fb.branch_name, t.to_branch_id, tb.branch_name,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE t.status = 'DELIVERED'),
		        AVG(EXTRACT(EPOCH FROM (t.approval_date - t.request_date)) / 3600),
		        AVG(EXTRACT(EPOCH FROM (t.delivery_date - t.dispatch_date)) / 3600)
		 FROM transfer_requests t
		 JOIN branches fb ON fb.id = t.from_branch_id
		 JOIN branches tb ON tb.id = t.to_branch_id
		 GROUP BY t.from_branch_id, fb.branch_name, t.to_branch_id, tb.branch_name
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TransferPerformanceRow
	for rows.Next() {
		var row models.TransferPerformanceRow
		if err := rows.Scan(&row.FromBranchID, &row.FromBranch, &row.ToBranchID, &row.ToBranch,
			&row.TotalTransfers, &row.Delivered, &row.AvgApprovalHours, &row.AvgTransitHours); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) MonthlyMovements(ctx context.Context, filter models.ReportFilter) ([]models.MonthlyMovementRow, error) {
	query := `SELECT date_trunc('month', created_at) AS month, movement_type,
	        COALESCE(SUM(quantity) FILTER (WHERE movement_type IN ('IN', 'TRANSFER_IN')), 0),
	        COALESCE(SUM(quantity) FILTER (WHERE movement_type IN ('OUT', 'TRANSFER_OUT')), 0),
	        COUNT(*)
	 FROM stock_movements
	 WHERE 1=1`
	args := []interface{}{}

	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += ` GROUP BY month, movement_type ORDER BY month, movement_type`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MonthlyMovementRow
	for rows.Next() {
		var row models.MonthlyMovementRow
		if err := rows.Scan(&row.Month, &row.MovementType, &row.TotalIn, &row.TotalOut, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) BranchPerformance(ctx context.Context, filter models.ReportFilter) ([]models.BranchPerformanceRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT b.id, b.branch_name,
		        (SELECT COUNT(*) FROM transfer_requests WHERE from_branch_id = b.id),
		        (SELECT COUNT(*) FROM transfer_requests WHERE to_branch_id = b.id),
		        (SELECT COUNT(*) FROM stock_discrepancies WHERE branch_id = b.id),
		        COALESCE((SELECT 100.0 * SUM(ri.damaged_quantity) / NULLIF(SUM(ri.dispatched_quantity), 0)
		           FROM receiving_slip_items ri
		           JOIN receiving_slips rs ON rs.id = ri.receiving_id
		           JOIN transfer_requests t ON t.id = rs.transfer_id
		           WHERE t.from_branch_id = b.id), 0)
		 FROM branches b
		 WHERE b.is_active
		 ORDER BY b.branch_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.BranchPerformanceRow
	for rows.Next() {
		var row models.BranchPerformanceRow
		if err := rows.Scan(&row.BranchID, &row.BranchName, &row.TransfersOut, &row.TransfersIn,
			&row.Discrepancies, &row.DamageRatePercent); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) ReorderAlerts(ctx context.Context, branchID int) ([]models.ReorderAlert, error) {
	query := `SELECT i.id, i.item_name, i.item_code, b.id, b.branch_name,
	        inv.current_stock, inv.reserved_stock, inv.available_stock,
	        i.minimum_stock_level, i.minimum_stock_level - inv.available_stock
	 FROM inventory inv
	 JOIN items i ON i.id = inv.item_id
	 JOIN branches b ON b.id = inv.branch_id
	 WHERE i.is_active AND b.is_active
	   AND inv.available_stock < i.minimum_stock_level`
	args := []interface{}{}

	if branchID > 0 {
		args = append(args, branchID)
		query += fmt.Sprintf(" AND b.id = $%d", len(args))
	}
	query += ` ORDER BY i.minimum_stock_level - inv.available_stock DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ReorderAlert
	for rows.Next() {
		var row models.ReorderAlert
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.ItemCode, &row.BranchID, &row.BranchName,
			&row.CurrentStock, &row.ReservedStock, &row.AvailableStock,
			&row.ReorderLevel, &row.Shortfall); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ReportRepository) UserActivity(ctx context.Context, filter models.ReportFilter) ([]models.UserActivity, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT u.id, u.username, u.full_name,
		        (SELECT COUNT(*) FROM transfer_requests WHERE requested_by = u.id),
		        (SELECT COUNT(*) FROM transfer_requests WHERE approved_by = u.id),
		        (SELECT COUNT(*) FROM stock_movements WHERE created_by = u.id)
		 FROM users u
		 WHERE u.is_active
		 ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.UserActivity
	for rows.Next() {
		var row models.UserActivity
		if err := rows.Scan(&row.UserID, &row.Username, &row.FullName,
			&row.TransfersCreated, &row.TransfersApproved, &row.MovementsPosted); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
