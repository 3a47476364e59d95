package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/synclog"
)

type SyncLogRepository struct {
	mu       sync.Mutex
	requests []time.Time
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{}
}

// Seed records request timestamps directly, bypassing the slot policy.
func (r *SyncLogRepository) Seed(requests ...time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, requests...)
}

func (r *SyncLogRepository) UsageForDay(_ context.Context, now time.Time) (synclog.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.usageLocked(now), nil
}

func (r *SyncLogRepository) AcquireSlot(_ context.Context, now time.Time, dailyLimit int, minInterval time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	usage := r.usageLocked(now)
	if !synclog.Allow(usage.CountToday, usage.LastRequest, now, dailyLimit, minInterval) {
		return false, nil
	}

	r.requests = append(r.requests, now.UTC())
	return true, nil
}

func (r *SyncLogRepository) usageLocked(now time.Time) synclog.Usage {
	day := synclog.DayBucket(now)

	today := make([]time.Time, 0, len(r.requests))
	for _, ts := range r.requests {
		if synclog.DayBucket(ts).Equal(day) {
			today = append(today, ts)
		}
	}
	sort.Slice(today, func(i, j int) bool { return today[i].Before(today[j]) })

	usage := synclog.Usage{CountToday: len(today)}
	if len(today) > 0 {
		last := today[len(today)-1]
		usage.LastRequest = &last
	}
	return usage
}
