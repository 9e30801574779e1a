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

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, category_name, description, is_active, created_at
		 FROM categories WHERE is_active ORDER BY category_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, category_name, description, is_active, created_at
		 FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.CategoryName, &c.Description, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	var c models.Category
	err := r.DB.QueryRow(ctx,
		`INSERT INTO categories(category_name, description) VALUES($1, $2)
		 RETURNING id, category_name, description, is_active, created_at`,
		req.CategoryName, req.Description,
	).Scan(&c.ID, &c.CategoryName, &c.Description, &c.IsActive, &c.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrDuplicateReference, req.CategoryName)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE categories SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d", apperrors.ErrNotFound, id)
	}
	return nil
}
