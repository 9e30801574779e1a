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

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

const branchColumns = `id, branch_name, branch_code, city, address, phone,
	email, manager_name, is_active, created_at, updated_at`

func scanBranch(row pgx.Row) (*models.Branch, error) {
	var b models.Branch
	err := row.Scan(&b.ID, &b.BranchName, &b.BranchCode, &b.City, &b.Address, &b.Phone,
		&b.Email, &b.ManagerName, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: branch", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) Get(ctx context.Context, id int) (*models.Branch, error) {
	return scanBranch(r.DB.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
}

func (r *BranchRepository) List(ctx context.Context, includeInactive bool) ([]models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY branch_name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error) {
	b, err := scanBranch(r.DB.QueryRow(ctx,
		`INSERT INTO branches(branch_name, branch_code, city, address, phone, email, manager_name)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+branchColumns,
		req.BranchName, req.BranchCode, req.City, req.Address, req.Phone, req.Email, req.ManagerName))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: branch code %s", apperrors.ErrDuplicateReference, req.BranchCode)
	}
	return b, err
}

func (r *BranchRepository) Update(ctx context.Context, id int, req *models.UpdateBranchRequest) (*models.Branch, error) {
	return scanBranch(r.DB.QueryRow(ctx,
		`UPDATE branches
		 SET branch_name = $2, city = $3, address = $4, phone = $5,
		     email = $6, manager_name = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+branchColumns,
		id, req.BranchName, req.City, req.Address, req.Phone, req.Email, req.ManagerName))
}

// Deactivate soft-deletes a branch. Rows stay for historical transfers.
func (r *BranchRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE branches SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: branch %d", apperrors.ErrNotFound, id)
	}
	return nil
}

// Summaries rolls up stock per branch for the branch overview.
func (r *BranchRepository) Summaries(ctx context.Context) ([]models.BranchSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT b.id, b.branch_name,
		        COUNT(inv.id),
		        COALESCE(SUM(inv.current_stock), 0),
		        COALESCE(SUM(inv.reserved_stock), 0),
		        COALESCE(SUM(inv.available_stock), 0),
		        COUNT(*) FILTER (WHERE inv.available_stock > 0 AND inv.available_stock <= i.minimum_stock_level),
		        COUNT(*) FILTER (WHERE inv.available_stock <= 0)
		 FROM branches b
		 LEFT JOIN inventory inv ON inv.branch_id = b.id
		 LEFT JOIN items i ON i.id = inv.item_id
		 WHERE b.is_active
		 GROUP BY b.id, b.branch_name
		 ORDER BY b.branch_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.BranchSummary
	for rows.Next() {
		var s models.BranchSummary
		if err := rows.Scan(&s.BranchID, &s.BranchName, &s.TotalItems, &s.TotalStock,
			&s.TotalReserved, &s.TotalAvailable, &s.LowStockItems, &s.OutOfStockItems); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
