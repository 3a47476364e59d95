package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/golazo-app/predictions-api/internal/infrastructure/repository/memory"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

type mockFixturesProvider struct {
	mock.Mock
}

func newMockFixturesProvider(t *testing.T) *mockFixturesProvider {
	m := &mockFixturesProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockFixturesProvider) FetchFixturesByDate(ctx context.Context, date string) ([]usecase.ExternalMatch, error) {
	args := m.Called(ctx, date)
	var matches []usecase.ExternalMatch
	if v := args.Get(0); v != nil {
		matches = v.([]usecase.ExternalMatch)
	}
	return matches, args.Error(1)
}

func newMockSyncService(provider usecase.FixturesProvider) *usecase.MatchSyncService {
	return usecase.NewMatchSyncService(
		provider,
		memory.NewMatchRepository(nil),
		memory.NewLeagueRepository(),
		memory.NewSyncLogRepository(),
		nil,
		usecase.MatchSyncConfig{Now: func() time.Time { return testNow }},
	)
}

func TestGetMatches_ProviderReceivesUTCDayUsingMock(t *testing.T) {
	t.Parallel()

	provider := newMockFixturesProvider(t)
	provider.
		On("FetchFixturesByDate", mock.Anything, "2026-03-01").
		Return([]usecase.ExternalMatch{externalMatch(40, "NS", testNow.Add(time.Hour))}, nil).
		Once()

	service := newMockSyncService(provider)
	page, err := service.GetMatches(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("get matches: %v", err)
	}
	if len(page.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(page.Matches))
	}
}

func TestGetMatches_ProviderFailureTaggedWithFetchStepUsingMock(t *testing.T) {
	t.Parallel()

	provider := newMockFixturesProvider(t)
	provider.
		On("FetchFixturesByDate", mock.Anything, "2026-03-01").
		Return(nil, errors.New("upstream timeout")).
		Once()

	service := newMockSyncService(provider)
	_, err := service.GetMatches(context.Background(), 0, 20)
	if err == nil {
		t.Fatalf("expected provider failure to surface")
	}
	if got := usecase.StepOf(err); got != usecase.StepAPIFetch {
		t.Fatalf("expected step %q, got %q", usecase.StepAPIFetch, got)
	}
}
