package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `u.id, u.username, u.full_name, u.email, u.password_hash,
	u.role_id, r.role_name, u.branch_id, COALESCE(b.branch_name, ''),
	u.totp_enabled, u.is_active, u.last_login_at, u.created_at`

const userJoins = `FROM users u
	JOIN roles r ON u.role_id = r.id
	LEFT JOIN branches b ON u.branch_id = b.id`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Password,
		&u.RoleID, &u.RoleName, &u.BranchID, &u.BranchName,
		&u.TOTPEnabled, &u.IsActive, &u.LastLoginAt, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` `+userJoins+` WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` `+userJoins+` WHERE u.username = $1`, username))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` `+userJoins+` ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		u.Password = ""
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, req *models.CreateUserRequest, passwordHash string) (*models.User, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(username, full_name, email, password_hash, role_id, branch_id)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		req.Username, req.FullName, req.Email, passwordHash, req.RoleID, req.BranchID,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: username or email already in use", apperrors.ErrDuplicateReference)
	}
	if err != nil {
		return nil, err
	}

	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users
		 SET full_name = COALESCE($2, full_name),
		     email = COALESCE($3, email),
		     role_id = COALESCE($4, role_id),
		     branch_id = COALESCE($5, branch_id),
		     is_active = COALESCE($6, is_active),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, req.FullName, req.Email, req.RoleID, req.BranchID, req.IsActive)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
	}

	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	return err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *UserRepository) GetTOTPSecret(ctx context.Context, id int) (string, error) {
	var secret *string
	err := r.DB.QueryRow(ctx,
		`SELECT totp_secret FROM users WHERE id = $1`, id).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return "", err
	}
	if secret == nil {
		return "", nil
	}
	return *secret, nil
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_secret = $2, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1`,
		id, secret)
	return err
}

func (r *UserRepository) SetTOTPEnabled(ctx context.Context, id int, enabled bool) error {
	if enabled {
		_, err := r.DB.Exec(ctx,
			`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, id)
		return err
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled = FALSE, totp_secret = NULL, updated_at = NOW() WHERE id = $1`, id)
	return err
}
