package models

// Batch operations apply a list of independent sub-requests in one
// call. Each entry succeeds or fails on its own; the response reports
// per-entry outcomes so callers can retry only the failures.

type BatchStockUpdateRequest struct {
	Updates []BatchStockUpdateEntry `json:"updates" validate:"required,min=1,max=500,dive"`
}

type BatchStockUpdateEntry struct {
	ItemID        int           `json:"item_id" validate:"required,gt=0"`
	BranchID      int           `json:"branch_id" validate:"required,gt=0"`
	MovementType  MovementType  `json:"movement_type" validate:"required"`
	Quantity      int           `json:"quantity" validate:"required"`
	ReferenceType ReferenceType `json:"reference_type,omitempty"`
	Notes         string        `json:"notes"`
}

type BatchItemCreateRequest struct {
	Items []CreateItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type BatchMinStockUpdateRequest struct {
	CategoryID        int `json:"category_id" validate:"required,gt=0"`
	MinimumStockLevel int `json:"minimum_stock_level" validate:"gte=0"`
}

type BatchPriceUpdateRequest struct {
	CategoryID int     `json:"category_id" validate:"required,gt=0"`
	Percentage float64 `json:"percentage" validate:"required,gt=-100"`
}

// BatchCategoryUpdateResponse reports a category-wide item update.
type BatchCategoryUpdateResponse struct {
	CategoryID   int `json:"category_id"`
	ItemsUpdated int `json:"items_updated"`
}

type BatchResult struct {
	Index int    `json:"index"`
	OK    bool   `json:"ok"`
	ID    int    `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type BatchResponse struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []BatchResult `json:"results"`
}
