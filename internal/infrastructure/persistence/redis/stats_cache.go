package redis

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache keeps hot dashboard data out of PostgreSQL: placement
// statistics and the active job listing. Values are opaque JSON; the
// query layer owns the shapes. A scheduler job refreshes the stats
// entry, so most dashboard loads never touch the database.
type StatsCache struct {
	cache *Cache
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(cache *Cache) *StatsCache {
	return &StatsCache{cache: cache}
}

// GetStats loads cached placement statistics into dest.
// Returns ErrCacheMiss when absent or expired.
func (c *StatsCache) GetStats(ctx context.Context, dest interface{}) error {
	return c.cache.Get(ctx, StatsKey(""), dest)
}

// SetStats stores placement statistics with the standard TTL.
func (c *StatsCache) SetStats(ctx context.Context, stats interface{}) error {
	if err := c.cache.Set(ctx, StatsKey(""), stats, TTLStatsCache); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}

// InvalidateStats drops the cached statistics. Called after writes that
// change the numbers (transitions to selected, job postings).
func (c *StatsCache) InvalidateStats(ctx context.Context) error {
	return c.cache.Delete(ctx, StatsKey(""))
}

// GetJobsList loads a cached job listing view into dest.
// Returns ErrCacheMiss when absent or expired.
func (c *StatsCache) GetJobsList(ctx context.Context, view string, dest interface{}) error {
	return c.cache.Get(ctx, JobsListKey(view), dest)
}

// SetJobsList stores a job listing view with the standard TTL.
func (c *StatsCache) SetJobsList(ctx context.Context, view string, jobs interface{}) error {
	if err := c.cache.Set(ctx, JobsListKey(view), jobs, TTLJobsCache); err != nil {
		return fmt.Errorf("failed to cache jobs list: %w", err)
	}
	return nil
}

// InvalidateJobsLists drops every cached job listing. Called after any
// job posting write.
func (c *StatsCache) InvalidateJobsLists(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixJobs+"*")
}
