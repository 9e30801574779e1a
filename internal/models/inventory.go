package models

import (
	"fmt"
	"time"

	"stockflow-backend/internal/apperrors"
)

type MovementType string

const (
	MovementIn          MovementType = "IN"
	MovementOut         MovementType = "OUT"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
)

type ReferenceType string

const (
	ReferencePurchase   ReferenceType = "PURCHASE"
	ReferenceSale       ReferenceType = "SALE"
	ReferenceTransfer   ReferenceType = "TRANSFER"
	ReferenceAdjustment ReferenceType = "ADJUSTMENT"
	ReferenceInitial    ReferenceType = "INITIAL"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

func (t ReferenceType) Valid() bool {
	switch t {
	case ReferencePurchase, ReferenceSale, ReferenceTransfer, ReferenceAdjustment, ReferenceInitial:
		return true
	}
	return false
}

// Inventory is the materialized stock balance for one (item, branch) pair.
// CurrentStock and ReservedStock are only ever written through ledger
// operations; AvailableStock = CurrentStock - ReservedStock and must never
// go negative.
type Inventory struct {
	ID             int       `json:"id"`
	ItemID         int       `json:"item_id"`
	BranchID       int       `json:"branch_id"`
	CurrentStock   int       `json:"current_stock"`
	ReservedStock  int       `json:"reserved_stock"`
	AvailableStock int       `json:"available_stock"`
	LastUpdated    time.Time `json:"last_updated"`
	UpdatedBy      *int      `json:"updated_by,omitempty"`
}

func (inv *Inventory) Available() int {
	return inv.CurrentStock - inv.ReservedStock
}

// StockMovement is one append-only ledger row. Quantity is stored unsigned
// for IN/OUT/TRANSFER_* types (the type fixes the direction) and signed for
// ADJUSTMENT (the caller supplies the delta). PreviousStock/NewStock are
// snapshots taken at posting time.
type StockMovement struct {
	ID            int           `json:"id"`
	ItemID        int           `json:"item_id"`
	ItemName      string        `json:"item_name,omitempty"`
	BranchID      int           `json:"branch_id"`
	BranchName    string        `json:"branch_name,omitempty"`
	MovementType  MovementType  `json:"movement_type"`
	Quantity      int           `json:"quantity"`
	PreviousStock int           `json:"previous_stock"`
	NewStock      int           `json:"new_stock"`
	ReferenceType ReferenceType `json:"reference_type"`
	ReferenceID   *int          `json:"reference_id,omitempty"`
	Notes         string        `json:"notes"`
	CreatedBy     int           `json:"created_by"`
	CreatedByName string        `json:"created_by_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Delta returns the signed stock effect of the movement, the value summed
// during ledger replay.
func (m *StockMovement) Delta() int {
	return MovementDelta(m.MovementType, m.Quantity)
}

// MovementDelta maps (type, quantity) to the signed effect on current_stock.
// ADJUSTMENT quantities are already signed; all other types store quantity
// unsigned with the type determining direction.
func MovementDelta(t MovementType, quantity int) int {
	switch t {
	case MovementIn, MovementTransferIn:
		return quantity
	case MovementOut, MovementTransferOut:
		return -quantity
	default: // ADJUSTMENT
		return quantity
	}
}

// ApplyMovement computes the new stock level produced by posting a movement
// of the given type/quantity on top of currentStock. For non-ADJUSTMENT
// types quantity must be >= 0. Fails when an OUT-direction movement (or a
// negative adjustment) would drive the stock negative.
func ApplyMovement(currentStock int, t MovementType, quantity int) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, t)
	}
	if t != MovementAdjustment && quantity < 0 {
		return 0, fmt.Errorf("%w: quantity must be non-negative for %s movements", apperrors.ErrValidation, t)
	}

	newStock := currentStock + MovementDelta(t, quantity)
	if newStock < 0 {
		return 0, fmt.Errorf("%w: %s of %d from stock of %d",
			apperrors.ErrInsufficientStock, t, quantity, currentStock)
	}
	return newStock, nil
}

type PostMovementRequest struct {
	ItemID        int           `json:"item_id" validate:"required,gt=0"`
	BranchID      int           `json:"branch_id" validate:"required,gt=0"`
	MovementType  MovementType  `json:"movement_type" validate:"required"`
	Quantity      int           `json:"quantity"`
	ReferenceType ReferenceType `json:"reference_type" validate:"required"`
	ReferenceID   *int          `json:"reference_id,omitempty"`
	Notes         string        `json:"notes"`
}

type StockReservationRequest struct {
	ItemID   int `json:"item_id" validate:"required,gt=0"`
	BranchID int `json:"branch_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type MovementFilter struct {
	ItemID        int
	BranchID      int
	MovementType  MovementType
	ReferenceType ReferenceType
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int
}

// ReconcileResult reports a ledger replay. LedgerStock is the sum of all
// movement deltas; Corrected is true when the balance row disagreed and
// was rewritten.
type ReconcileResult struct {
	ItemID        int  `json:"item_id"`
	BranchID      int  `json:"branch_id"`
	RecordedStock int  `json:"recorded_stock"`
	LedgerStock   int  `json:"ledger_stock"`
	Corrected     bool `json:"corrected"`
}

type StockStatus string

const (
	StockStatusNormal     StockStatus = "NORMAL"
	StockStatusLow        StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// BranchStock is one row of the branch stock listing, joining item metadata
// with the inventory balance.
type BranchStock struct {
	ItemID            int         `json:"item_id"`
	ItemName          string      `json:"item_name"`
	ItemCode          string      `json:"item_code"`
	CategoryName      string      `json:"category_name"`
	CurrentStock      int         `json:"current_stock"`
	ReservedStock     int         `json:"reserved_stock"`
	AvailableStock    int         `json:"available_stock"`
	MinimumStockLevel int         `json:"minimum_stock_level"`
	StockStatus       StockStatus `json:"stock_status"`
	LastUpdated       *time.Time  `json:"last_updated,omitempty"`
}

// ItemBranchStock is an item's balance at one branch, for the cross-branch
// stock view.
type ItemBranchStock struct {
	ItemName       string `json:"item_name"`
	ItemCode       string `json:"item_code"`
	BranchID       int    `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	BranchCode     string `json:"branch_code"`
	CurrentStock   int    `json:"current_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
}

type LowStockItem struct {
	ItemName          string `json:"item_name"`
	ItemCode          string `json:"item_code"`
	AvailableStock    int    `json:"available_stock"`
	MinimumStockLevel int    `json:"minimum_stock_level"`
	Shortage          int    `json:"shortage"`
}

type ItemAvailability struct {
	ItemName           string `json:"item_name"`
	ItemCode           string `json:"item_code"`
	AvailableStock     int    `json:"available_stock"`
	AvailabilityStatus string `json:"availability_status"`
}
