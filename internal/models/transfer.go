package models

import "time"

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferApproved  TransferStatus = "APPROVED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferDelivered TransferStatus = "DELIVERED"
	TransferCancelled TransferStatus = "CANCELLED"
)

type TransferPriority string

const (
	PriorityLow    TransferPriority = "LOW"
	PriorityMedium TransferPriority = "MEDIUM"
	PriorityHigh   TransferPriority = "HIGH"
	PriorityUrgent TransferPriority = "URGENT"
)

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferApproved, TransferRejected,
		TransferInTransit, TransferDelivered, TransferCancelled:
		return true
	}
	return false
}

func (p TransferPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s TransferStatus) Terminal() bool {
	switch s {
	case TransferRejected, TransferDelivered, TransferCancelled:
		return true
	}
	return false
}

// transferTransitions is the lifecycle DAG. Each key lists the statuses an
// operation may move the transfer to from that state.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:   {TransferApproved, TransferRejected, TransferCancelled},
	TransferApproved:  {TransferInTransit, TransferCancelled},
	TransferInTransit: {TransferDelivered},
}

// CanTransition reports whether a transfer in status s may move to target.
func (s TransferStatus) CanTransition(target TransferStatus) bool {
	for _, t := range transferTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type TransferRequest struct {
	ID              int                   `json:"id"`
	TransferNumber  string                `json:"transfer_number"`
	FromBranchID    int                   `json:"from_branch_id"`
	FromBranchName  string                `json:"from_branch_name,omitempty"`
	ToBranchID      int                   `json:"to_branch_id"`
	ToBranchName    string                `json:"to_branch_name,omitempty"`
	Status          TransferStatus        `json:"status"`
	Priority        TransferPriority      `json:"priority"`
	RequestedBy     int                   `json:"requested_by"`
	RequestedByName string                `json:"requested_by_name,omitempty"`
	ApprovedBy      *int                  `json:"approved_by,omitempty"`
	ApprovedByName  string                `json:"approved_by_name,omitempty"`
	RequestDate     time.Time             `json:"request_date"`
	ApprovalDate    *time.Time            `json:"approval_date,omitempty"`
	DispatchDate    *time.Time            `json:"dispatch_date,omitempty"`
	DeliveryDate    *time.Time            `json:"delivery_date,omitempty"`
	RejectionReason *string               `json:"rejection_reason,omitempty"`
	Notes           string                `json:"notes"`
	Items           []TransferRequestItem `json:"items,omitempty"`
}

type TransferRequestItem struct {
	ID                 int    `json:"id"`
	TransferID         int    `json:"transfer_id"`
	ItemID             int    `json:"item_id"`
	ItemName           string `json:"item_name,omitempty"`
	ItemCode           string `json:"item_code,omitempty"`
	UnitOfMeasure      string `json:"unit_of_measure,omitempty"`
	RequestedQuantity  int    `json:"requested_quantity"`
	ApprovedQuantity   *int   `json:"approved_quantity,omitempty"`
	DispatchedQuantity int    `json:"dispatched_quantity"`
	ReceivedQuantity   int    `json:"received_quantity"`
	AvailableStock     int    `json:"available_stock,omitempty"`
	Notes              string `json:"notes"`
}

// TransferSummary is the list-view row with denormalized names and an item
// count, matching the transfer listing queries.
type TransferSummary struct {
	ID             int              `json:"id"`
	TransferNumber string           `json:"transfer_number"`
	FromBranch     string           `json:"from_branch"`
	ToBranch       string           `json:"to_branch"`
	RequestedBy    string           `json:"requested_by"`
	Status         TransferStatus   `json:"status"`
	Priority       TransferPriority `json:"priority"`
	RequestDate    time.Time        `json:"request_date"`
	ApprovalDate   *time.Time       `json:"approval_date,omitempty"`
	TotalItems     int              `json:"total_items"`
}

type CreateTransferRequest struct {
	FromBranchID int                   `json:"from_branch_id" validate:"required,gt=0"`
	ToBranchID   int                   `json:"to_branch_id" validate:"required,gt=0"`
	Priority     TransferPriority      `json:"priority" validate:"required"`
	Notes        string                `json:"notes"`
	Items        []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

type TransferItemRequest struct {
	ItemID            int    `json:"item_id" validate:"required,gt=0"`
	RequestedQuantity int    `json:"requested_quantity" validate:"required,gt=0"`
	Notes             string `json:"notes"`
}

type ApproveTransferRequest struct {
	Items []ApproveItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ApproveItemRequest struct {
	ItemID           int `json:"item_id" validate:"required,gt=0"`
	ApprovedQuantity int `json:"approved_quantity" validate:"gte=0"`
}

type RejectTransferRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
}

type TransferFilter struct {
	Status       TransferStatus
	FromBranchID int
	ToBranchID   int
	Priority     TransferPriority
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
