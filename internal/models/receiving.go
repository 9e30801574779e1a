package models

import "time"

type ArrivalCondition string

const (
	ConditionGood          ArrivalCondition = "GOOD"
	ConditionPartialDamage ArrivalCondition = "PARTIAL_DAMAGE"
	ConditionDamaged       ArrivalCondition = "DAMAGED"
)

func (c ArrivalCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionPartialDamage, ConditionDamaged:
		return true
	}
	return false
}

type ReceivingSlip struct {
	ID                 int              `json:"id"`
	ReceivingNumber    string           `json:"receiving_number"`
	TransferID         int              `json:"transfer_id"`
	TransferNumber     string           `json:"transfer_number,omitempty"`
	DispatchID         int              `json:"dispatch_id"`
	DispatchNumber     string           `json:"dispatch_number,omitempty"`
	FromBranch         string           `json:"from_branch,omitempty"`
	ToBranch           string           `json:"to_branch,omitempty"`
	ReceivedBy         int              `json:"received_by"`
	ReceivedByName     string           `json:"received_by_name,omitempty"`
	ConditionOnArrival ArrivalCondition `json:"condition_on_arrival"`
	ReceivingDate      time.Time        `json:"receiving_date"`
	PhotoPath          string           `json:"photo_path"`
	Notes              string           `json:"notes"`

	Items []ReceivingSlipItem `json:"items,omitempty"`
}

type ReceivingSlipItem struct {
	ID                 int    `json:"id"`
	ReceivingID        int    `json:"receiving_id"`
	ItemID             int    `json:"item_id"`
	ItemName           string `json:"item_name,omitempty"`
	ItemCode           string `json:"item_code,omitempty"`
	UnitOfMeasure      string `json:"unit_of_measure,omitempty"`
	DispatchedQuantity int    `json:"dispatched_quantity"`
	ReceivedQuantity   int    `json:"received_quantity"`
	DamagedQuantity    int    `json:"damaged_quantity"`
	ConditionNotes     string `json:"condition_notes"`
}

type CreateReceivingRequest struct {
	TransferID         int                    `json:"transfer_id" validate:"required,gt=0"`
	DispatchID         int                    `json:"dispatch_id" validate:"required,gt=0"`
	ConditionOnArrival ArrivalCondition       `json:"condition_on_arrival" validate:"required"`
	Notes              string                 `json:"notes"`
	Items              []ReceivingItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceivingItemRequest struct {
	ItemID           int    `json:"item_id" validate:"required,gt=0"`
	ReceivedQuantity int    `json:"received_quantity" validate:"gte=0"`
	DamagedQuantity  int    `json:"damaged_quantity" validate:"gte=0"`
	ConditionNotes   string `json:"condition_notes"`
}
