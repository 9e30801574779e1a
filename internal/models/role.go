package models

import "time"

type Role struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Role names seeded by the initial migration. Authorization checks
// reference these rather than numeric IDs.
const (
	RoleAdmin         = "admin"
	RoleBranchManager = "branch_manager"
	RoleWarehouse     = "warehouse_staff"
	RoleViewer        = "viewer"
)

type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description"`
}
