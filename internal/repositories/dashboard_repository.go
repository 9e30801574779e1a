package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/models"
	"stockflow-backend/internal/timeutil"
)

type DashboardRepository struct {
	DB *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

func (r *DashboardRepository) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	s := &models.DashboardSummary{
		TransfersByStatus: map[string]int{},
		GeneratedAt:       timeutil.Now(),
	}

	err := r.DB.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM branches WHERE is_active),
		    (SELECT COUNT(*) FROM items WHERE is_active),
		    (SELECT COALESCE(SUM(current_stock), 0) FROM inventory),
		    (SELECT COALESCE(SUM(reserved_stock), 0) FROM inventory),
		    (SELECT COUNT(*) FROM stock_discrepancies WHERE status <> 'RESOLVED'),
		    (SELECT COUNT(*) FROM inventory inv JOIN items i ON i.id = inv.item_id
		       WHERE i.is_active AND inv.available_stock <= i.minimum_stock_level),
		    (SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1)`,
		timeutil.Today(),
	).Scan(&s.TotalBranches, &s.TotalItems, &s.TotalStockUnits, &s.TotalReservedUnits,
		&s.OpenDiscrepancies, &s.LowStockItems, &s.MovementsToday)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM transfer_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.TransfersByStatus[status] = count
		switch models.TransferStatus(status) {
		case models.TransferPending:
			s.PendingTransfers = count
		case models.TransferInTransit:
			s.InTransitTransfers = count
		}
	}
	return s, rows.Err()
}

// RecentActivity unions the latest transfers, movements and discrepancies
// into one reverse-chronological feed.
func (r *DashboardRepository) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT kind, reference_id, reference, description, actor, occurred_at FROM (
		    SELECT 'transfer' AS kind, t.id AS reference_id, t.transfer_number AS reference,
		           'Transfer ' || t.status AS description, u.full_name AS actor,
		           t.request_date AS occurred_at
		    FROM transfer_requests t JOIN users u ON u.id = t.requested_by
		    UNION ALL
		    SELECT 'movement', m.id, i.item_code,
		           m.movement_type || ' ' || ABS(m.quantity) || ' @ ' || b.branch_name,
		           u.full_name, m.created_at
		    FROM stock_movements m
		    JOIN items i ON i.id = m.item_id
		    JOIN branches b ON b.id = m.branch_id
		    JOIN users u ON u.id = m.created_by
		    UNION ALL
		    SELECT 'discrepancy', d.id, i.item_code,
		           d.discrepancy_type || ' ' || d.status, u.full_name, d.reported_date
		    FROM stock_discrepancies d
		    JOIN items i ON i.id = d.item_id
		    JOIN users u ON u.id = d.reported_by
		 ) feed
		 ORDER BY occurred_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []models.RecentActivity
	for rows.Next() {
		var a models.RecentActivity
		if err := rows.Scan(&a.Kind, &a.ReferenceID, &a.Reference, &a.Description,
			&a.Actor, &a.OccurredAt); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
