package services

import (
	"context"
	"log"

	"stockflow-backend/internal/models"
)

// ItemCreator is the slice of the item repository the batch service needs.
type ItemCreator interface {
	Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)
	SetMinimumStockByCategory(ctx context.Context, categoryID, level int) (int, error)
	AdjustPricesByCategory(ctx context.Context, categoryID int, percent float64) (int, error)
}

// BatchService applies bulk requests entry by entry. Each entry runs in
// its own transaction so one bad line does not poison the rest; the
// response tells the caller exactly which indexes to retry.
type BatchService struct {
	ledger *LedgerService
	items  ItemCreator
}

func NewBatchService(ledger *LedgerService, items ItemCreator) *BatchService {
	return &BatchService{ledger: ledger, items: items}
}

func (s *BatchService) UpdateStock(ctx context.Context, req *models.BatchStockUpdateRequest, userID int) *models.BatchResponse {
	resp := &models.BatchResponse{Total: len(req.Updates)}
	for i, entry := range req.Updates {
		refType := entry.ReferenceType
		if refType == "" {
			refType = models.ReferenceAdjustment
		}
		movement, err := s.ledger.PostMovement(ctx, &models.PostMovementRequest{
			ItemID:        entry.ItemID,
			BranchID:      entry.BranchID,
			MovementType:  entry.MovementType,
			Quantity:      entry.Quantity,
			ReferenceType: refType,
			Notes:         entry.Notes,
		}, userID)

		result := models.BatchResult{Index: i, OK: err == nil}
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
			log.Printf("[Batch] stock update %d/%d failed: %v", i+1, resp.Total, err)
		} else {
			result.ID = movement.ID
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp
}

func (s *BatchService) CreateItems(ctx context.Context, req *models.BatchItemCreateRequest) *models.BatchResponse {
	resp := &models.BatchResponse{Total: len(req.Items)}
	for i, entry := range req.Items {
		entry := entry
		item, err := s.items.Create(ctx, &entry)

		result := models.BatchResult{Index: i, OK: err == nil}
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
			log.Printf("[Batch] item create %d/%d failed: %v", i+1, resp.Total, err)
		} else {
			result.ID = item.ID
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp
}

// UpdateMinimumStock sets the reorder threshold for every active item in
// a category in one statement.
func (s *BatchService) UpdateMinimumStock(ctx context.Context, req *models.BatchMinStockUpdateRequest) (*models.BatchCategoryUpdateResponse, error) {
	updated, err := s.items.SetMinimumStockByCategory(ctx, req.CategoryID, req.MinimumStockLevel)
	if err != nil {
		return nil, err
	}
	log.Printf("[Batch] minimum stock set to %d for %d items in category %d",
		req.MinimumStockLevel, updated, req.CategoryID)
	return &models.BatchCategoryUpdateResponse{CategoryID: req.CategoryID, ItemsUpdated: updated}, nil
}

// UpdatePrices scales unit prices for every active item in a category by
// a percentage.
func (s *BatchService) UpdatePrices(ctx context.Context, req *models.BatchPriceUpdateRequest) (*models.BatchCategoryUpdateResponse, error) {
	updated, err := s.items.AdjustPricesByCategory(ctx, req.CategoryID, req.Percentage)
	if err != nil {
		return nil, err
	}
	log.Printf("[Batch] prices adjusted by %.2f%% for %d items in category %d",
		req.Percentage, updated, req.CategoryID)
	return &models.BatchCategoryUpdateResponse{CategoryID: req.CategoryID, ItemsUpdated: updated}, nil
}
