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

type ItemRepository struct {
	DB *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{DB: db}
}

const itemColumns = `i.id, i.item_name, i.item_code, i.category_id, c.category_name,
	i.description, i.unit_of_measure, i.minimum_stock_level, i.maximum_stock_level,
	i.unit_price, i.is_active, i.created_at, i.updated_at`

const itemJoins = `FROM items i JOIN categories c ON i.category_id = c.id`

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.ItemName, &it.ItemCode, &it.CategoryID, &it.CategoryName,
		&it.Description, &it.UnitOfMeasure, &it.MinimumStockLevel, &it.MaximumStockLevel,
		&it.UnitPrice, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: item", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) Get(ctx context.Context, id int) (*models.Item, error) {
	return scanItem(r.DB.QueryRow(ctx,
		`SELECT `+itemColumns+` `+itemJoins+` WHERE i.id = $1`, id))
}

func (r *ItemRepository) GetByCode(ctx context.Context, code string) (*models.Item, error) {
	return scanItem(r.DB.QueryRow(ctx,
		`SELECT `+itemColumns+` `+itemJoins+` WHERE i.item_code = $1`, code))
}

// List returns active items, optionally filtered by category and a
// case-insensitive name/code search.
func (r *ItemRepository) List(ctx context.Context, categoryID int, search string) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` ` + itemJoins + ` WHERE i.is_active`
	args := []interface{}{}

	if categoryID > 0 {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND i.category_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (i.item_name ILIKE $%d OR i.item_code ILIKE $%d)", len(args), len(args))
	}
	query += ` ORDER BY i.item_name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	uom := req.UnitOfMeasure
	if uom == "" {
		uom = "pcs"
	}

	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO items(item_name, item_code, category_id, description, unit_of_measure,
		        minimum_stock_level, maximum_stock_level, unit_price)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		req.ItemName, req.ItemCode, req.CategoryID, req.Description, uom,
		req.MinimumStockLevel, req.MaximumStockLevel, req.UnitPrice,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: item code %s", apperrors.ErrDuplicateReference, req.ItemCode)
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *ItemRepository) Update(ctx context.Context, id int, req *models.UpdateItemRequest) (*models.Item, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE items
		 SET item_name = $2, category_id = $3, description = $4, unit_of_measure = $5,
		     minimum_stock_level = $6, maximum_stock_level = $7, unit_price = $8,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, req.ItemName, req.CategoryID, req.Description, req.UnitOfMeasure,
		req.MinimumStockLevel, req.MaximumStockLevel, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: item %d", apperrors.ErrNotFound, id)
	}
	return r.Get(ctx, id)
}

// SetMinimumStockByCategory rewrites the reorder threshold for every
// active item in a category. Returns the number of rows touched.
func (r *ItemRepository) SetMinimumStockByCategory(ctx context.Context, categoryID, level int) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE items SET minimum_stock_level = $2, updated_at = NOW()
		 WHERE category_id = $1 AND is_active = TRUE`,
		categoryID, level)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// AdjustPricesByCategory scales unit prices for every active item in a
// category by a percentage (10 = +10%, -5 = -5%). Prices round to two
// decimal places and never go negative.
func (r *ItemRepository) AdjustPricesByCategory(ctx context.Context, categoryID int, percent float64) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE items
		 SET unit_price = GREATEST(ROUND((unit_price * (1 + $2::numeric / 100))::numeric, 2), 0),
		     updated_at = NOW()
		 WHERE category_id = $1 AND is_active = TRUE`,
		categoryID, percent)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *ItemRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE items SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %d", apperrors.ErrNotFound, id)
	}
	return nil
}
