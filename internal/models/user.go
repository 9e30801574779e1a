package models

import "time"

type User struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Password    string     `json:"-"`
	RoleID      int        `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	BranchID    *int       `json:"branch_id,omitempty"`
	BranchName  string     `json:"branch_name,omitempty"`
	TOTPEnabled bool       `json:"totp_enabled"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int    `json:"role_id" validate:"required,gt=0"`
	BranchID *int   `json:"branch_id,omitempty"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	RoleID   *int    `json:"role_id,omitempty"`
	BranchID *int    `json:"branch_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type EnableTOTPResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
}

type UserActivity struct {
	UserID            int    `json:"user_id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	TransfersCreated  int    `json:"transfers_created"`
	TransfersApproved int    `json:"transfers_approved"`
	MovementsPosted   int    `json:"movements_posted"`
}
