package synclog

import "time"

const (
	// DefaultDailyLimit matches the provider's free-tier request budget.
	DefaultDailyLimit = 100
	// DefaultMinInterval spaces provider calls so a burst of cache
	// misses cannot drain the daily budget.
	DefaultMinInterval = 15 * time.Minute
)

// DayBucket truncates an instant to its UTC calendar date. The daily
// budget resets on this boundary, not on a rolling 24h window.
func DayBucket(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Allow reports whether a provider call is permitted under the daily
// budget and minimum spacing. It is advisory only: the authoritative gate
// is the repository's atomic AcquireSlot.
func Allow(countToday int, lastRequest *time.Time, now time.Time, dailyLimit int, minInterval time.Duration) bool {
	if countToday >= dailyLimit {
		return false
	}
	if lastRequest == nil {
		return true
	}
	if !DayBucket(*lastRequest).Equal(DayBucket(now)) {
		return true
	}
	return now.Sub(*lastRequest) >= minInterval
}
