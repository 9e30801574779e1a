package models

import "time"

type DispatchSlip struct {
	ID                   int        `json:"id"`
	DispatchNumber       string     `json:"dispatch_number"`
	TransferID           int        `json:"transfer_id"`
	TransferNumber       string     `json:"transfer_number,omitempty"`
	FromBranch           string     `json:"from_branch,omitempty"`
	ToBranch             string     `json:"to_branch,omitempty"`
	DispatchedBy         int        `json:"dispatched_by"`
	DispatchedByName     string     `json:"dispatched_by_name,omitempty"`
	LoaderName           string     `json:"loader_name"`
	VehicleInfo          string     `json:"vehicle_info"`
	DispatchDate         time.Time  `json:"dispatch_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                string     `json:"notes"`
}

type DispatchItem struct {
	ItemID             int    `json:"item_id"`
	ItemName           string `json:"item_name"`
	ItemCode           string `json:"item_code"`
	DispatchedQuantity int    `json:"dispatched_quantity"`
	UnitOfMeasure      string `json:"unit_of_measure"`
}

type CreateDispatchRequest struct {
	TransferID           int        `json:"transfer_id" validate:"required,gt=0"`
	LoaderName           string     `json:"loader_name" validate:"max=100"`
	VehicleInfo          string     `json:"vehicle_info" validate:"max=100"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                string     `json:"notes"`
}
