package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCompletionCaches drops everything derived from a user's answers
// after a save or completion: their progress entries and the dashboard
// aggregations that count completions.
func InvalidateCompletionCaches(ctx context.Context, cm *CacheManager, userID string) {
	SafeInvalidatePattern(ctx, cm.Progress, fmt.Sprintf("user:%s*", userID))
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}
