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

type RoleRepository struct {
	DB *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, role_name, description, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) Get(ctx context.Context, id int) (*models.Role, error) {
	var role models.Role
	err := r.DB.QueryRow(ctx,
		`SELECT id, role_name, description, created_at FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: role %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Create(ctx context.Context, req *models.CreateRoleRequest) (*models.Role, error) {
	var role models.Role
	err := r.DB.QueryRow(ctx,
		`INSERT INTO roles(role_name, description) VALUES($1, $2)
		 RETURNING id, role_name, description, created_at`,
		req.Name, req.Description,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: role %s", apperrors.ErrDuplicateReference, req.Name)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
