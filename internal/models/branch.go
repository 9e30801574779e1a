package models

import "time"

type Branch struct {
	ID          int       `json:"id"`
	BranchName  string    `json:"branch_name"`
	BranchCode  string    `json:"branch_code"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	ManagerName string    `json:"manager_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateBranchRequest struct {
	BranchName  string `json:"branch_name" validate:"required,max=100"`
	BranchCode  string `json:"branch_code" validate:"required,max=20"`
	City        string `json:"city" validate:"max=100"`
	Address     string `json:"address"`
	Phone       string `json:"phone" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	ManagerName string `json:"manager_name" validate:"max=100"`
}

type UpdateBranchRequest struct {
	BranchName  string `json:"branch_name" validate:"required,max=100"`
	City        string `json:"city" validate:"max=100"`
	Address     string `json:"address"`
	Phone       string `json:"phone" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	ManagerName string `json:"manager_name" validate:"max=100"`
}

// BranchSummary is the per-branch stock rollup used by the stock summary
// report and branch listing.
type BranchSummary struct {
	BranchID        int    `json:"branch_id"`
	BranchName      string `json:"branch_name"`
	TotalItems      int    `json:"total_items"`
	TotalStock      int    `json:"total_stock"`
	TotalReserved   int    `json:"total_reserved"`
	TotalAvailable  int    `json:"total_available"`
	LowStockItems   int    `json:"low_stock_items"`
	OutOfStockItems int    `json:"out_of_stock_items"`
}
