package services

import (
	"context"
	"encoding/json"
	"log"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
)

// DashboardService aggregates the landing-page numbers. Payloads are
// cached briefly in Redis; the underlying queries hit several tables and
// the dashboard tolerates data a minute old.
type DashboardService struct {
	repo *repositories.DashboardRepository
}

func NewDashboardService(repo *repositories.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	if data, ok := cache.Get(ctx, cache.DashboardSummaryKey); ok {
		var summary models.DashboardSummary
		if err := json.Unmarshal(data, &summary); err == nil {
			return &summary, nil
		}
		log.Printf("[Dashboard] discarding corrupt cached summary")
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		cache.Set(ctx, cache.DashboardSummaryKey, data, cache.DashboardTTL)
	}
	return summary, nil
}

func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if data, ok := cache.Get(ctx, cache.RecentActivityKey); ok {
		var activity []models.RecentActivity
		if err := json.Unmarshal(data, &activity); err == nil && len(activity) >= limit {
			return activity[:limit], nil
		}
	}

	activity, err := s.repo.RecentActivity(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(activity); err == nil {
		cache.Set(ctx, cache.RecentActivityKey, data, cache.DashboardTTL)
	}
	return activity, nil
}
