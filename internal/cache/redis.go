package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stockflow-backend/internal/config"
	"stockflow-backend/internal/metrics"
)

// Cache keys. Dashboard and report payloads are the only cached data;
// inventory balances and transfer state are always read from Postgres.
const (
	DashboardSummaryKey  = "dashboard:summary"
	RecentActivityKey    = "dashboard:activity"
	StockValuationKeyFmt = "report:valuation:%d:%d"

	DashboardTTL = 60 * time.Second
	ReportTTL    = 5 * time.Minute
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call degrades to a miss, so the service runs fine without Redis.
func Init(cfg *config.Config) error {
	if !cfg.Redis.Enabled {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

func Close() {
	if client != nil {
		client.Close()
	}
}

// Get returns the cached payload for key, or (nil, false) on a miss or
// when Redis is unavailable.
func Get(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.CacheHits.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheHits.WithLabelValues("error").Inc()
		}
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return data, true
}

// Set stores a payload with a TTL. Failures are swallowed; the cache is
// purely an accelerator.
func Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateDashboard drops the dashboard keys after any stock or
// transfer mutation.
func InvalidateDashboard(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, DashboardSummaryKey, RecentActivityKey)
}

// StockValuationKey builds the per-filter valuation report key.
func StockValuationKey(branchID, categoryID int) string {
	return fmt.Sprintf(StockValuationKeyFmt, branchID, categoryID)
}
