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

// InventoryRepository serves the read side of stock. All writes to balance
// rows happen through the TxStore primitives.
type InventoryRepository struct {
	DB *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

func (r *InventoryRepository) Get(ctx context.Context, itemID, branchID int) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.DB.QueryRow(ctx,
		`SELECT id, item_id, branch_id, current_stock, reserved_stock,
		        available_stock, last_updated, updated_by
		 FROM inventory
		 WHERE item_id = $1 AND branch_id = $2`,
		itemID, branchID,
	).Scan(&inv.ID, &inv.ItemID, &inv.BranchID, &inv.CurrentStock, &inv.ReservedStock,
		&inv.AvailableStock, &inv.LastUpdated, &inv.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		// No balance row yet means zero stock, not an error.
		return &models.Inventory{ItemID: itemID, BranchID: branchID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// BranchStock lists every active item's balance at a branch with its low
// stock classification.
func (r *InventoryRepository) BranchStock(ctx context.Context, branchID int) ([]models.BranchStock, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT i.id, i.item_name, i.item_code, c.category_name,
		        COALESCE(inv.current_stock, 0), COALESCE(inv.reserved_stock, 0),
		        COALESCE(inv.available_stock, 0), i.minimum_stock_level, inv.last_updated
		 FROM items i
		 JOIN categories c ON i.category_id = c.id
		 LEFT JOIN inventory inv ON inv.item_id = i.id AND inv.branch_id = $1
		 WHERE i.is_active
		 ORDER BY i.item_name`,
		branchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stock []models.BranchStock
	for rows.Next() {
		var s models.BranchStock
		if err := rows.Scan(&s.ItemID, &s.ItemName, &s.ItemCode, &s.CategoryName,
			&s.CurrentStock, &s.ReservedStock, &s.AvailableStock,
			&s.MinimumStockLevel, &s.LastUpdated); err != nil {
			return nil, err
		}
		switch {
		case s.AvailableStock <= 0:
			s.StockStatus = models.StockStatusOutOfStock
		case s.AvailableStock <= s.MinimumStockLevel:
			s.StockStatus = models.StockStatusLow
		default:
			s.StockStatus = models.StockStatusNormal
		}
		stock = append(stock, s)
	}
	return stock, rows.Err()
}

// ItemStock shows one item's balance in every branch that holds it.
func (r *InventoryRepository) ItemStock(ctx context.Context, itemID int) ([]models.ItemBranchStock, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT i.item_name, i.item_code, b.id, b.branch_name, b.branch_code,
		        inv.current_stock, inv.reserved_stock, inv.available_stock
		 FROM inventory inv
		 JOIN items i ON i.id = inv.item_id
		 JOIN branches b ON b.id = inv.branch_id
		 WHERE inv.item_id = $1 AND b.is_active
		 ORDER BY b.branch_name`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stock []models.ItemBranchStock
	for rows.Next() {
		var s models.ItemBranchStock
		if err := rows.Scan(&s.ItemName, &s.ItemCode, &s.BranchID, &s.BranchName, &s.BranchCode,
			&s.CurrentStock, &s.ReservedStock, &s.AvailableStock); err != nil {
			return nil, err
		}
		stock = append(stock, s)
	}
	if len(stock) == 0 {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, itemID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: item %d", apperrors.ErrNotFound, itemID)
		}
	}
	return stock, rows.Err()
}

func (r *InventoryRepository) LowStock(ctx context.Context, branchID int) ([]models.LowStockItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT i.item_name, i.item_code, inv.available_stock, i.minimum_stock_level,
		        i.minimum_stock_level - inv.available_stock
		 FROM inventory inv
		 JOIN items i ON i.id = inv.item_id
		 WHERE inv.branch_id = $1 AND i.is_active
		   AND inv.available_stock <= i.minimum_stock_level
		 ORDER BY i.minimum_stock_level - inv.available_stock DESC`,
		branchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LowStockItem
	for rows.Next() {
		var it models.LowStockItem
		if err := rows.Scan(&it.ItemName, &it.ItemCode, &it.AvailableStock,
			&it.MinimumStockLevel, &it.Shortage); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Availability answers "can branch X ship N units of item Y right now".
func (r *InventoryRepository) Availability(ctx context.Context, itemID, branchID, quantity int) (*models.ItemAvailability, error) {
	var a models.ItemAvailability
	err := r.DB.QueryRow(ctx,
		`SELECT i.item_name, i.item_code, COALESCE(inv.available_stock, 0)
		 FROM items i
		 LEFT JOIN inventory inv ON inv.item_id = i.id AND inv.branch_id = $2
		 WHERE i.id = $1`,
		itemID, branchID,
	).Scan(&a.ItemName, &a.ItemCode, &a.AvailableStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %d", apperrors.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	if a.AvailableStock >= quantity {
		a.AvailabilityStatus = "AVAILABLE"
	} else if a.AvailableStock > 0 {
		a.AvailabilityStatus = "PARTIAL"
	} else {
		a.AvailabilityStatus = "UNAVAILABLE"
	}
	return &a, nil
}
