package services

import (
	"context"
	"encoding/json"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
)

type ReportService struct {
	repo *repositories.ReportRepository
}

func NewReportService(repo *repositories.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// StockValuation is the only cached report; it scans the whole inventory
// joined to item prices and is hit from every manager's landing page.
func (s *ReportService) StockValuation(ctx context.Context, filter models.ReportFilter) ([]models.StockValuationRow, error) {
	key := cache.StockValuationKey(filter.BranchID, filter.CategoryID)
	if data, ok := cache.Get(ctx, key); ok {
		var rows []models.StockValuationRow
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := s.repo.StockValuation(ctx, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		cache.Set(ctx, key, data, cache.ReportTTL)
	}
	return rows, nil
}

func (s *ReportService) StockAging(ctx context.Context, filter models.ReportFilter) ([]models.StockAgingRow, error) {
	return s.repo.StockAging(ctx, filter)
}

func (s *ReportService) TransfersByDay(ctx context.Context, filter models.ReportFilter) ([]models.TransferSummaryByDay, error) {
	return s.repo.TransfersByDay(ctx, filter)
}

func (s *ReportService) MostRequestedItems(ctx context.Context, filter models.ReportFilter) ([]models.MostRequestedItem, error) {
	return s.repo.MostRequestedItems(ctx, filter)
}

func (s *ReportService) TransferPerformance(ctx context.Context, filter models.ReportFilter) ([]models.TransferPerformanceRow, error) {
	return s.repo.TransferPerformance(ctx, filter)
}

func (s *ReportService) MonthlyMovements(ctx context.Context, filter models.ReportFilter) ([]models.MonthlyMovementRow, error) {
	return s.repo.MonthlyMovements(ctx, filter)
}

func (s *ReportService) BranchPerformance(ctx context.Context, filter models.ReportFilter) ([]models.BranchPerformanceRow, error) {
	return s.repo.BranchPerformance(ctx, filter)
}

func (s *ReportService) ReorderAlerts(ctx context.Context, branchID int) ([]models.ReorderAlert, error) {
	return s.repo.ReorderAlerts(ctx, branchID)
}

func (s *ReportService) UserActivity(ctx context.Context, filter models.ReportFilter) ([]models.UserActivity, error) {
	return s.repo.UserActivity(ctx, filter)
}
