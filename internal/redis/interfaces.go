package redis

import "context"

// StatsCacheInterface defines the interface for dashboard stats caching.
type StatsCacheInterface interface {
	GetDashboard(ctx context.Context) (*CachedDashboard, error)
	SetDashboard(ctx context.Context, dashboard *CachedDashboard) error
}

// Ensure concrete types implement interfaces.
var _ StatsCacheInterface = (*StatsCache)(nil)
