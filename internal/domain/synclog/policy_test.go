package synclog

import (
	"testing"
	"time"
)

func TestAllow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-5 * time.Minute)
	spaced := now.Add(-20 * time.Minute)
	yesterday := now.Add(-24 * time.Hour)

	cases := []struct {
		name        string
		countToday  int
		lastRequest *time.Time
		want        bool
	}{
		{name: "first request of the day", countToday: 0, lastRequest: nil, want: true},
		{name: "within minimum spacing", countToday: 3, lastRequest: &recent, want: false},
		{name: "spacing elapsed", countToday: 3, lastRequest: &spaced, want: true},
		{name: "at daily limit", countToday: DefaultDailyLimit, lastRequest: &spaced, want: false},
		{name: "over daily limit", countToday: DefaultDailyLimit + 1, lastRequest: &spaced, want: false},
		{name: "last request on a previous day", countToday: 0, lastRequest: &yesterday, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Allow(tc.countToday, tc.lastRequest, now, DefaultDailyLimit, DefaultMinInterval)
			if got != tc.want {
				t.Fatalf("Allow() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDayBucket_UTCBoundary(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 2, 28, 22, 30, 0, 0, loc)

	got := DayBucket(local)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DayBucket() = %v, want %v", got, want)
	}
}
