package cache

import (
	"context"
	"fmt"
	"time"
)

const reminderGuardTTL = 48 * time.Hour

// ReminderGuard не даёт отправить напоминание по одной подписке дважды за день.
type ReminderGuard struct {
	cache *Cache
}

// NewReminderGuard создаёт ReminderGuard поверх кэша.
func NewReminderGuard(c *Cache) *ReminderGuard {
	return &ReminderGuard{cache: c}
}

// Acquire занимает слот subscriptionID на день day (YYYY-MM-DD).
func (g *ReminderGuard) Acquire(ctx context.Context, subscriptionID, day string) (bool, error) {
	return g.cache.Claim(ctx, fmt.Sprintf("reminder:sent:%s:%s", subscriptionID, day), reminderGuardTTL)
}
