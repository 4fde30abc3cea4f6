package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache caches the admin dashboard aggregates in Redis.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// DashboardCacheTTL is short: the dashboard tolerates slightly stale numbers
// but should reflect new donations within a refresh or two.
const DashboardCacheTTL = 30 * time.Second

const dashboardCacheKey = "cache:stats:dashboard"

// CachedDashboard is the cached form of the dashboard aggregates.
type CachedDashboard struct {
	Stories            int     `json:"stories"`
	Volunteers         int     `json:"volunteers"`
	Donations          int     `json:"donations"`
	Revenue            float64 `json:"revenue"`
	AnimalsInCare      int     `json:"animals_in_care"`
	AdoptionsThisMonth int     `json:"adoptions_this_month"`
}

// GetDashboard retrieves cached dashboard stats. Returns nil on cache miss.
func (s *StatsCache) GetDashboard(ctx context.Context) (*CachedDashboard, error) {
	data, err := s.client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var dashboard CachedDashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// SetDashboard stores dashboard stats in cache.
func (s *StatsCache) SetDashboard(ctx context.Context, dashboard *CachedDashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, dashboardCacheKey, data, DashboardCacheTTL).Err()
}
