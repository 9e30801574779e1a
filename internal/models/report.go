package models

import "time"

type StockValuationRow struct {
	BranchID     int     `json:"branch_id"`
	BranchName   string  `json:"branch_name"`
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	ItemCount    int     `json:"item_count"`
	TotalUnits   int     `json:"total_units"`
	TotalValue   float64 `json:"total_value"`
}

type StockAgingRow struct {
	ItemID        int        `json:"item_id"`
	ItemName      string     `json:"item_name"`
	ItemCode      string     `json:"item_code"`
	BranchID      int        `json:"branch_id"`
	BranchName    string     `json:"branch_name"`
	CurrentStock  int        `json:"current_stock"`
	LastMovement  *time.Time `json:"last_movement_at,omitempty"`
	DaysSinceMove *int       `json:"days_since_movement,omitempty"`
}

type TransferSummaryByDay struct {
	Day       time.Time `json:"day"`
	Created   int       `json:"created"`
	Delivered int       `json:"delivered"`
	Rejected  int       `json:"rejected"`
	Cancelled int       `json:"cancelled"`
}

type MostRequestedItem struct {
	ItemID        int    `json:"item_id"`
	ItemName      string `json:"item_name"`
	ItemCode      string `json:"item_code"`
	RequestCount  int    `json:"request_count"`
	TotalQuantity int    `json:"total_quantity"`
}

type TransferPerformanceRow struct {
	FromBranchID     int      `json:"from_branch_id"`
	FromBranch       string   `json:"from_branch"`
	ToBranchID       int      `json:"to_branch_id"`
	ToBranch         string   `json:"to_branch"`
	TotalTransfers   int      `json:"total_transfers"`
	Delivered        int      `json:"delivered"`
	AvgApprovalHours *float64 `json:"avg_approval_hours,omitempty"`
	AvgTransitHours  *float64 `json:"avg_transit_hours,omitempty"`
}

type MonthlyMovementRow struct {
	Month        time.Time    `json:"month"`
	MovementType MovementType `json:"movement_type"`
	TotalIn      int          `json:"total_in"`
	TotalOut     int          `json:"total_out"`
	Count        int          `json:"count"`
}

type BranchPerformanceRow struct {
	BranchID          int     `json:"branch_id"`
	BranchName        string  `json:"branch_name"`
	TransfersOut      int     `json:"transfers_out"`
	TransfersIn       int     `json:"transfers_in"`
	Discrepancies     int     `json:"discrepancies"`
	DamageRatePercent float64 `json:"damage_rate_percent"`
}

type ReorderAlert struct {
	ItemID         int    `json:"item_id"`
	ItemName       string `json:"item_name"`
	ItemCode       string `json:"item_code"`
	BranchID       int    `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	CurrentStock   int    `json:"current_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
	ReorderLevel   int    `json:"reorder_level"`
	Shortfall      int    `json:"shortfall"`
}

type ReportFilter struct {
	BranchID   int
	CategoryID int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}
