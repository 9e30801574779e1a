package models

import "time"

type DiscrepancyStatus string

const (
	DiscrepancyReported      DiscrepancyStatus = "REPORTED"
	DiscrepancyInvestigating DiscrepancyStatus = "INVESTIGATING"
	DiscrepancyResolved      DiscrepancyStatus = "RESOLVED"
)

func (s DiscrepancyStatus) Valid() bool {
	switch s {
	case DiscrepancyReported, DiscrepancyInvestigating, DiscrepancyResolved:
		return true
	}
	return false
}

type DiscrepancyType string

const (
	DiscrepancyCountError DiscrepancyType = "COUNT_ERROR"
	DiscrepancyDamage     DiscrepancyType = "DAMAGE"
	DiscrepancyTheft      DiscrepancyType = "THEFT"
	DiscrepancyExpiry     DiscrepancyType = "EXPIRY"
	DiscrepancyOther      DiscrepancyType = "OTHER"
)

func (t DiscrepancyType) Valid() bool {
	switch t {
	case DiscrepancyCountError, DiscrepancyDamage, DiscrepancyTheft, DiscrepancyExpiry, DiscrepancyOther:
		return true
	}
	return false
}

type StockDiscrepancy struct {
	ID                 int               `json:"id"`
	ItemID             int               `json:"item_id"`
	ItemName           string            `json:"item_name,omitempty"`
	ItemCode           string            `json:"item_code,omitempty"`
	BranchID           int               `json:"branch_id"`
	BranchName         string            `json:"branch_name,omitempty"`
	ExpectedQuantity   int               `json:"expected_quantity"`
	ActualQuantity     int               `json:"actual_quantity"`
	Type               DiscrepancyType   `json:"discrepancy_type"`
	Status             DiscrepancyStatus `json:"status"`
	Description        string            `json:"description"`
	InvestigationNotes string            `json:"investigation_notes,omitempty"`
	ReportedBy         int               `json:"reported_by"`
	ReportedByName     string            `json:"reported_by_name,omitempty"`
	ResolvedBy         *int              `json:"resolved_by,omitempty"`
	ResolvedByName     string            `json:"resolved_by_name,omitempty"`
	Resolution         string            `json:"resolution,omitempty"`
	AdjustmentID       *int              `json:"adjustment_movement_id,omitempty"`
	ReportedAt         time.Time         `json:"reported_at"`
	ResolvedAt         *time.Time        `json:"resolved_at,omitempty"`
}

// Difference is actual minus expected, the signed quantity an
// ADJUSTMENT movement posts when the discrepancy resolves with
// a stock correction.
func (d *StockDiscrepancy) Difference() int {
	return d.ActualQuantity - d.ExpectedQuantity
}

type ReportDiscrepancyRequest struct {
	ItemID         int             `json:"item_id" validate:"required,gt=0"`
	BranchID       int             `json:"branch_id" validate:"required,gt=0"`
	ExpectedStock  *int            `json:"expected_stock,omitempty" validate:"omitempty,gte=0"`
	ActualQuantity int             `json:"actual_quantity" validate:"gte=0"`
	Type           DiscrepancyType `json:"discrepancy_type" validate:"required"`
	Description    string          `json:"description" validate:"required"`
}

type InvestigateDiscrepancyRequest struct {
	Notes string `json:"notes"`
}

type ResolveDiscrepancyRequest struct {
	Resolution  string `json:"resolution" validate:"required"`
	AdjustStock bool   `json:"adjust_stock"`
}

// DiscrepancyUpdate carries the columns a status transition writes.
// Nil pointers leave the existing values untouched.
type DiscrepancyUpdate struct {
	InvestigationNotes *string
	Resolution         *string
	ResolvedBy         *int
	AdjustmentID       *int
	ResolvedAt         *time.Time
}

type DiscrepancyFilter struct {
	BranchID int
	ItemID   int
	Status   DiscrepancyStatus
	Type     DiscrepancyType
	Limit    int
	Offset   int
}
