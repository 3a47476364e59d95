package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/league"
	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/synclog"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
)

// Serve paths reported alongside a match page.
const (
	ServePathCache       = "cache"
	ServePathRateLimited = "rate_limited"
	ServePathAPI         = "api"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type MatchSyncConfig struct {
	DailyLimit  int
	MinInterval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (c MatchSyncConfig) normalize() MatchSyncConfig {
	if c.DailyLimit <= 0 {
		c.DailyLimit = synclog.DefaultDailyLimit
	}
	if c.MinInterval <= 0 {
		c.MinInterval = synclog.DefaultMinInterval
	}
	return c
}

// MatchPage is one page of the day's fixtures plus provider budget info.
type MatchPage struct {
	ServePath     string
	FromCache     bool
	Matches       []match.Match
	Leagues       []league.League
	RequestsCount int
	LastRequest   *time.Time
}

// MatchSyncService serves today's fixtures cache-first and refreshes from
// the provider only when the page is empty and the rate budget allows it.
type MatchSyncService struct {
	provider    FixturesProvider
	matchRepo   match.Repository
	leagueRepo  league.Repository
	syncLogRepo synclog.Repository
	logger      *logging.Logger
	cfg         MatchSyncConfig
	now         func() time.Time
}

func NewMatchSyncService(
	provider FixturesProvider,
	matchRepo match.Repository,
	leagueRepo league.Repository,
	syncLogRepo synclog.Repository,
	logger *logging.Logger,
	cfg MatchSyncConfig,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &MatchSyncService{
		provider:    provider,
		matchRepo:   matchRepo,
		leagueRepo:  leagueRepo,
		syncLogRepo: syncLogRepo,
		logger:      logger,
		cfg:         cfg.normalize(),
		now:         now,
	}
}

// GetMatches returns one page of today's fixtures. A non-empty cached
// page is always served without touching the provider; a denied rate
// slot degrades to the cached page, possibly empty, and never errors.
func (s *MatchSyncService) GetMatches(ctx context.Context, offset, limit int) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchSyncService.GetMatches")
	defer span.End()

	offset, limit = normalizePage(offset, limit)
	now := s.now().UTC()
	dayStart := synclog.DayBucket(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	usage, err := s.syncLogRepo.UsageForDay(ctx, now)
	if err != nil {
		return MatchPage{}, WithStep(StepRequestCount, fmt.Errorf("read provider usage: %w", err))
	}

	cached, err := s.matchRepo.ListByKickoffRange(ctx, dayStart, dayEnd, offset, limit)
	if err != nil {
		return MatchPage{}, WithStep(StepDBQuery, fmt.Errorf("list cached matches: %w", err))
	}
	if len(cached) > 0 {
		return s.buildPage(ctx, ServePathCache, true, cached, usage)
	}

	acquired, err := s.syncLogRepo.AcquireSlot(ctx, now, s.cfg.DailyLimit, s.cfg.MinInterval)
	if err != nil {
		return MatchPage{}, WithStep(StepRequestCount, fmt.Errorf("acquire provider slot: %w", err))
	}
	if !acquired {
		s.logger.InfoContext(ctx, "provider budget exhausted, serving cached page",
			"requests_today", usage.CountToday)
		return s.buildPage(ctx, ServePathRateLimited, true, cached, usage)
	}
	usage.CountToday++
	usage.LastRequest = &now

	external, err := s.provider.FetchFixturesByDate(ctx, dayStart.Format("2006-01-02"))
	if err != nil {
		if StepOf(err) == "" {
			err = WithStep(StepAPIFetch, err)
		}
		return MatchPage{}, fmt.Errorf("fetch fixtures: %w", err)
	}

	matches, leagues := mapExternalMatches(external)
	if len(leagues) > 0 {
		if err := s.leagueRepo.UpsertLeagues(ctx, leagues); err != nil {
			return MatchPage{}, WithStep(StepLeagueUpsert, fmt.Errorf("upsert leagues: %w", err))
		}
	}
	if len(matches) > 0 {
		if err := s.matchRepo.UpsertMatches(ctx, matches); err != nil {
			return MatchPage{}, WithStep(StepMatchUpsert, fmt.Errorf("upsert matches: %w", err))
		}
	}

	fresh, err := s.matchRepo.ListByKickoffRange(ctx, dayStart, dayEnd, offset, limit)
	if err != nil {
		return MatchPage{}, WithStep(StepFinalQuery, fmt.Errorf("list refreshed matches: %w", err))
	}

	s.logger.InfoContext(ctx, "fixtures refreshed from provider",
		"fetched", len(external),
		"stored", len(matches),
		"leagues", len(leagues),
		"requests_today", usage.CountToday,
	)
	return s.buildPage(ctx, ServePathAPI, false, fresh, usage)
}

func (s *MatchSyncService) buildPage(ctx context.Context, servePath string, fromCache bool, matches []match.Match, usage synclog.Usage) (MatchPage, error) {
	leagues, err := s.leagueRepo.ListAll(ctx)
	if err != nil {
		return MatchPage{}, WithStep(StepDBQuery, fmt.Errorf("list leagues: %w", err))
	}

	if matches == nil {
		matches = []match.Match{}
	}
	return MatchPage{
		ServePath:     servePath,
		FromCache:     fromCache,
		Matches:       matches,
		Leagues:       leagues,
		RequestsCount: usage.CountToday,
		LastRequest:   usage.LastRequest,
	}, nil
}

// PruneMatches removes matches untouched by any sync for the retention
// window. Kept off the read path so GET traffic never deletes rows.
func (s *MatchSyncService) PruneMatches(ctx context.Context, retention time.Duration) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchSyncService.PruneMatches")
	defer span.End()

	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", ErrInvalidInput)
	}

	cutoff := s.now().UTC().Add(-retention)
	removed, err := s.matchRepo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune matches: %w", err)
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "pruned stale matches", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit
}
