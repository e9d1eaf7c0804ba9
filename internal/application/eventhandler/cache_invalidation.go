package eventhandler

import (
	"context"
	"log/slog"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// CACHE INVALIDATION HANDLER
// Drops stale Redis entries after writes. Cached views are short-lived
// anyway, so invalidation failures are logged and swallowed; the TTL is
// the backstop.
// ═══════════════════════════════════════════════════════════════════════════

// DashboardCache is the invalidation side of the Redis stats cache.
type DashboardCache interface {
	InvalidateStats(ctx context.Context) error
	InvalidateJobsLists(ctx context.Context) error
}

// CacheInvalidationHandler keeps cached dashboard views in step with writes.
type CacheInvalidationHandler struct {
	cache  DashboardCache
	logger *slog.Logger
}

// NewCacheInvalidationHandler creates a new CacheInvalidationHandler.
func NewCacheInvalidationHandler(cache DashboardCache, logger *slog.Logger) *CacheInvalidationHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CacheInvalidationHandler{
		cache:  cache,
		logger: logger.With("handler", "cache_invalidation"),
	}
}

// Handle drops the cached views the event made stale.
func (h *CacheInvalidationHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch event.EventType() {
	case shared.EventJobPosted, shared.EventJobUpdated, shared.EventJobClosed:
		// Listings change and so does the job count on the dashboard.
		h.invalidateJobsLists(ctx, event)
		h.invalidateStats(ctx, event)

	case shared.EventStudentRegistered,
		shared.EventApplicationSubmitted,
		shared.EventApplicationStatusChanged,
		shared.EventGrievanceSubmitted,
		shared.EventGrievanceUpdated:
		h.invalidateStats(ctx, event)
	}

	return nil
}

func (h *CacheInvalidationHandler) invalidateStats(ctx context.Context, event shared.Event) {
	if err := h.cache.InvalidateStats(ctx); err != nil {
		h.logger.Warn("failed to invalidate stats cache",
			"event_type", event.EventType(),
			"error", err,
		)
	}
}

func (h *CacheInvalidationHandler) invalidateJobsLists(ctx context.Context, event shared.Event) {
	if err := h.cache.InvalidateJobsLists(ctx); err != nil {
		h.logger.Warn("failed to invalidate jobs cache",
			"event_type", event.EventType(),
			"error", err,
		)
	}
}
