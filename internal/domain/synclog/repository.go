package synclog

import (
	"context"
	"time"
)

// Usage is a read-only view of today's provider budget.
type Usage struct {
	CountToday  int
	LastRequest *time.Time
}

type Repository interface {
	// UsageForDay returns the request count and last request timestamp
	// within the UTC calendar day containing now.
	UsageForDay(ctx context.Context, now time.Time) (Usage, error)
	// AcquireSlot appends a request log row iff the daily budget and
	// minimum spacing still hold, in one atomic statement. Overlapping
	// callers cannot both acquire the last slot.
	AcquireSlot(ctx context.Context, now time.Time, dailyLimit int, minInterval time.Duration) (bool, error)
}
