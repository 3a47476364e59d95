package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/synclog"
	"github.com/golazo-app/predictions-api/internal/infrastructure/repository/memory"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeFixturesProvider struct {
	calls   atomic.Int32
	matches []usecase.ExternalMatch
	err     error
}

func (f *fakeFixturesProvider) FetchFixturesByDate(_ context.Context, _ string) ([]usecase.ExternalMatch, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type syncFixture struct {
	provider *fakeFixturesProvider
	matches  *memory.MatchRepository
	leagues  *memory.LeagueRepository
	syncLog  *memory.SyncLogRepository
	service  *usecase.MatchSyncService
}

func newSyncFixture(t *testing.T, provider *fakeFixturesProvider) *syncFixture {
	t.Helper()

	f := &syncFixture{
		provider: provider,
		matches:  memory.NewMatchRepository(nil),
		leagues:  memory.NewLeagueRepository(),
		syncLog:  memory.NewSyncLogRepository(),
	}
	f.service = usecase.NewMatchSyncService(
		provider, f.matches, f.leagues, f.syncLog, nil,
		usecase.MatchSyncConfig{Now: func() time.Time { return testNow }},
	)
	return f
}

func externalMatch(fixtureID int64, status string, kickoff time.Time) usecase.ExternalMatch {
	return usecase.ExternalMatch{
		FixtureID:        fixtureID,
		KickoffAt:        kickoff,
		StatusShort:      status,
		HomeTeam:         "Home FC",
		AwayTeam:         "Away FC",
		LeagueExternalID: 39,
		LeagueName:       "Premier League",
		LeagueCountry:    "England",
		LeagueSeason:     2025,
	}
}

func TestGetMatches_ServesCachedPageWithoutProviderCall(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, &fakeFixturesProvider{})
	seedErr := f.matches.UpsertMatches(context.Background(), []match.Match{{
		ExternalID: 1,
		HomeTeam:   "Home FC",
		AwayTeam:   "Away FC",
		KickoffAt:  testNow.Add(2 * time.Hour),
		Status:     match.StatusUpcoming,
	}})
	if seedErr != nil {
		t.Fatalf("seed matches: %v", seedErr)
	}

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("get matches: %v", err)
	}
	if !page.FromCache || page.ServePath != usecase.ServePathCache {
		t.Fatalf("expected cache path, got %+v", page)
	}
	if len(page.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(page.Matches))
	}
	if f.provider.calls.Load() != 0 {
		t.Fatalf("provider must not be called on cache hit")
	}
	if page.RequestsCount != 0 {
		t.Fatalf("cache hit must not consume a provider slot")
	}
}

func TestGetMatches_FetchesAndUpsertsOnEmptyCache(t *testing.T) {
	t.Parallel()

	score := func(v int) *int { return &v }
	provider := &fakeFixturesProvider{matches: []usecase.ExternalMatch{
		externalMatch(10, "NS", testNow.Add(3*time.Hour)),
		func() usecase.ExternalMatch {
			m := externalMatch(11, "FT", testNow.Add(-2*time.Hour))
			m.HomeScore = score(2)
			m.AwayScore = score(0)
			return m
		}(),
	}}
	f := newSyncFixture(t, provider)

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("get matches: %v", err)
	}
	if page.FromCache || page.ServePath != usecase.ServePathAPI {
		t.Fatalf("expected api path, got %+v", page)
	}
	if len(page.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(page.Matches))
	}
	if len(page.Leagues) != 1 || page.Leagues[0].ExternalID != 39 {
		t.Fatalf("expected deduped league, got %+v", page.Leagues)
	}
	if page.RequestsCount != 1 {
		t.Fatalf("expected 1 consumed slot, got %d", page.RequestsCount)
	}

	finished := page.Matches[0]
	if finished.Status != match.StatusFinished || finished.HomeScore == nil || *finished.HomeScore != 2 {
		t.Fatalf("finished match mapped wrong: %+v", finished)
	}
}

func TestGetMatches_UnknownStatusStoredAsUpcoming(t *testing.T) {
	t.Parallel()

	provider := &fakeFixturesProvider{matches: []usecase.ExternalMatch{
		externalMatch(20, "WEIRD_CODE", testNow.Add(time.Hour)),
	}}
	f := newSyncFixture(t, provider)

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("get matches: %v", err)
	}
	if len(page.Matches) != 1 || page.Matches[0].Status != match.StatusUpcoming {
		t.Fatalf("unknown status must map to upcoming, got %+v", page.Matches)
	}
	if page.Matches[0].APIStatus != "WEIRD_CODE" {
		t.Fatalf("raw status must be preserved")
	}
}

func TestGetMatches_DailyCeilingServesEmptyWithoutError(t *testing.T) {
	t.Parallel()

	provider := &fakeFixturesProvider{}
	f := newSyncFixture(t, provider)

	seeds := make([]time.Time, 0, synclog.DefaultDailyLimit)
	base := synclog.DayBucket(testNow).Add(time.Hour)
	for i := 0; i < synclog.DefaultDailyLimit; i++ {
		seeds = append(seeds, base.Add(time.Duration(i)*time.Minute))
	}
	f.syncLog.Seed(seeds...)

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("rate limiting must not error: %v", err)
	}
	if page.ServePath != usecase.ServePathRateLimited || !page.FromCache {
		t.Fatalf("expected rate_limited path, got %+v", page)
	}
	if len(page.Matches) != 0 {
		t.Fatalf("expected empty page, got %d matches", len(page.Matches))
	}
	if f.provider.calls.Load() != 0 {
		t.Fatalf("provider must not be called past the daily ceiling")
	}
	if page.RequestsCount != synclog.DefaultDailyLimit {
		t.Fatalf("expected requests count %d, got %d", synclog.DefaultDailyLimit, page.RequestsCount)
	}
}

func TestGetMatches_MinimumSpacingBlocksRefetch(t *testing.T) {
	t.Parallel()

	provider := &fakeFixturesProvider{}
	f := newSyncFixture(t, provider)
	f.syncLog.Seed(testNow.Add(-5 * time.Minute))

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("spacing must not error: %v", err)
	}
	if page.ServePath != usecase.ServePathRateLimited {
		t.Fatalf("expected rate_limited path, got %s", page.ServePath)
	}
	if f.provider.calls.Load() != 0 {
		t.Fatalf("provider must not be called inside the spacing window")
	}
}

func TestGetMatches_PaginationNoOverlapNoGap(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, &fakeFixturesProvider{})
	seed := make([]match.Match, 0, 5)
	for i := 0; i < 5; i++ {
		seed = append(seed, match.Match{
			ExternalID: int64(100 + i),
			KickoffAt:  testNow.Add(time.Duration(i) * time.Hour),
			Status:     match.StatusUpcoming,
		})
	}
	if err := f.matches.UpsertMatches(context.Background(), seed); err != nil {
		t.Fatalf("seed matches: %v", err)
	}

	seen := make(map[int64]int)
	total := 0
	for offset := 0; ; offset += 2 {
		page, err := f.service.GetMatches(context.Background(), offset, 2)
		if err != nil {
			t.Fatalf("get matches offset=%d: %v", offset, err)
		}
		if len(page.Matches) == 0 {
			break
		}
		for _, m := range page.Matches {
			seen[m.ExternalID]++
			total++
		}
	}

	if total != 5 {
		t.Fatalf("expected 5 matches across pages, got %d", total)
	}
	for extID, count := range seen {
		if count != 1 {
			t.Fatalf("match %d appeared %d times", extID, count)
		}
	}
}

func TestGetMatches_IdempotentResync(t *testing.T) {
	t.Parallel()

	provider := &fakeFixturesProvider{matches: []usecase.ExternalMatch{
		externalMatch(30, "NS", testNow.Add(time.Hour)),
	}}
	f := newSyncFixture(t, provider)

	if err := f.matches.UpsertMatches(context.Background(), []match.Match{{
		ExternalID: 30,
		KickoffAt:  testNow.Add(time.Hour),
		Status:     match.StatusLive,
		APIStatus:  "1H",
	}}); err != nil {
		t.Fatalf("seed matches: %v", err)
	}

	// Re-upsert the same fixture with a stale upcoming status.
	matches := []match.Match{{
		ExternalID: 30,
		KickoffAt:  testNow.Add(time.Hour),
		Status:     match.StatusUpcoming,
		APIStatus:  "NS",
	}}
	if err := f.matches.UpsertMatches(context.Background(), matches); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	page, err := f.service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("get matches: %v", err)
	}
	if len(page.Matches) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(page.Matches))
	}
	if page.Matches[0].Status != match.StatusLive {
		t.Fatalf("status must never regress, got %s", page.Matches[0].Status)
	}
}

func TestPruneMatches_RequiresPositiveRetention(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, &fakeFixturesProvider{})
	if _, err := f.service.PruneMatches(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero retention")
	}
}
