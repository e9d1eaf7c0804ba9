package eventhandler

import (
	"fmt"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// RegisterAll subscribes every event handler on the bus. Both handlers
// filter by event type themselves, so they listen globally.
func RegisterAll(bus shared.EventBus, feed *ActivityFeedHandler, cache *CacheInvalidationHandler) error {
	if feed != nil {
		if err := bus.SubscribeAll(feed.Handle); err != nil {
			return fmt.Errorf("subscribe activity feed: %w", err)
		}
	}
	if cache != nil {
		if err := bus.SubscribeAll(cache.Handle); err != nil {
			return fmt.Errorf("subscribe cache invalidation: %w", err)
		}
	}
	return nil
}
