package models

import "time"

type Item struct {
	ID                int       `json:"id"`
	ItemName          string    `json:"item_name"`
	ItemCode          string    `json:"item_code"`
	CategoryID        int       `json:"category_id"`
	CategoryName      string    `json:"category_name,omitempty"`
	Description       string    `json:"description"`
	UnitOfMeasure     string    `json:"unit_of_measure"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
	MaximumStockLevel int       `json:"maximum_stock_level"`
	UnitPrice         float64   `json:"unit_price"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateItemRequest struct {
	ItemName          string  `json:"item_name" validate:"required,max=150"`
	ItemCode          string  `json:"item_code" validate:"required,max=30"`
	CategoryID        int     `json:"category_id" validate:"required,gt=0"`
	Description       string  `json:"description"`
	UnitOfMeasure     string  `json:"unit_of_measure" validate:"max=20"`
	MinimumStockLevel int     `json:"minimum_stock_level" validate:"gte=0"`
	MaximumStockLevel int     `json:"maximum_stock_level" validate:"gte=0"`
	UnitPrice         float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateItemRequest deliberately excludes item_code: item identity (id, code)
// is immutable once created. Thresholds and price may change over time.
type UpdateItemRequest struct {
	ItemName          string  `json:"item_name" validate:"required,max=150"`
	CategoryID        int     `json:"category_id" validate:"required,gt=0"`
	Description       string  `json:"description"`
	UnitOfMeasure     string  `json:"unit_of_measure" validate:"max=20"`
	MinimumStockLevel int     `json:"minimum_stock_level" validate:"gte=0"`
	MaximumStockLevel int     `json:"maximum_stock_level" validate:"gte=0"`
	UnitPrice         float64 `json:"unit_price" validate:"gte=0"`
}
