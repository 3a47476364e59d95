package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/popular"
	"github.com/golazo-app/predictions-api/internal/platform/cache"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
)

// PopularMatchesService serves the popular-matches payload through two
// cache layers: a process-local TTL cache and a day-keyed DB snapshot.
// The provider is only hit on the first miss of a day.
type PopularMatchesService struct {
	provider PopularProvider
	repo     popular.Repository
	memory   *cache.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewPopularMatchesService(
	provider PopularProvider,
	repo popular.Repository,
	memory *cache.Store,
	logger *logging.Logger,
) *PopularMatchesService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PopularMatchesService{
		provider: provider,
		repo:     repo,
		memory:   memory,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *PopularMatchesService) GetPopularMatches(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "PopularMatchesService.GetPopularMatches")
	defer span.End()

	date := s.now().UTC().Format("2006-01-02")
	key := "popular:" + date

	load := func(ctx context.Context) (any, error) {
		return s.loadSnapshot(ctx, date)
	}

	var value any
	var err error
	if s.memory != nil {
		value, err = s.memory.GetOrLoad(ctx, key, load)
	} else {
		value, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	payload, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", value)
	}
	return payload, nil
}

func (s *PopularMatchesService) loadSnapshot(ctx context.Context, date string) ([]byte, error) {
	snapshot, err := s.repo.GetByDate(ctx, date)
	if err == nil {
		return snapshot.Payload, nil
	}
	if !errors.Is(err, popular.ErrNotFound) {
		return nil, fmt.Errorf("read popular snapshot: %w", err)
	}

	payload, err := s.provider.FetchPopularMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch popular matches: %w", err)
	}

	insertErr := s.repo.Insert(ctx, popular.Snapshot{CacheDate: date, Payload: payload})
	if insertErr == nil {
		return payload, nil
	}
	if !errors.Is(insertErr, popular.ErrDuplicate) {
		return nil, fmt.Errorf("store popular snapshot: %w", insertErr)
	}

	// Lost the insert race: serve whatever the winner stored so all
	// callers agree on the day's payload.
	winner, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("re-read popular snapshot: %w", err)
	}
	s.logger.DebugContext(ctx, "popular snapshot race lost, serving stored payload", "date", date)
	return winner.Payload, nil
}
