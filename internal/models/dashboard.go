package models

import "time"

type DashboardSummary struct {
	TotalBranches      int            `json:"total_branches"`
	TotalItems         int            `json:"total_items"`
	TotalStockUnits    int            `json:"total_stock_units"`
	TotalReservedUnits int            `json:"total_reserved_units"`
	PendingTransfers   int            `json:"pending_transfers"`
	InTransitTransfers int            `json:"in_transit_transfers"`
	OpenDiscrepancies  int            `json:"open_discrepancies"`
	LowStockItems      int            `json:"low_stock_items"`
	TransfersByStatus  map[string]int `json:"transfers_by_status"`
	MovementsToday     int            `json:"movements_today"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

type RecentActivity struct {
	Kind        string    `json:"kind"`
	ReferenceID int       `json:"reference_id"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Actor       string    `json:"actor,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
