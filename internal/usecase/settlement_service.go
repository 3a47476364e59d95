package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/domain/userstats"
	"github.com/golazo-app/predictions-api/internal/platform/logging"
)

const defaultRecomputeWorkers = 4

type SettlementResult struct {
	ProcessedMatches   int
	UpdatedPredictions int
	RecomputedUsers    int
}

// SettlementService scores pending predictions against finished matches.
// Per-prediction failures are logged and skipped so one bad row never
// blocks the rest of the run; re-running is safe because each settle
// write claims its row conditionally.
type SettlementService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	statsRepo      userstats.Repository
	logger         *logging.Logger
	workers        int
	now            func() time.Time
}

func NewSettlementService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	statsRepo userstats.Repository,
	logger *logging.Logger,
	workers int,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}
	return &SettlementService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		statsRepo:      statsRepo,
		logger:         logger,
		workers:        workers,
		now:            time.Now,
	}
}

func (s *SettlementService) UpdateResults(ctx context.Context) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.UpdateResults")
	defer span.End()

	finished, err := s.matchRepo.ListFinishedWithScores(ctx)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list finished matches: %w", err)
	}

	result := SettlementResult{}
	touchedUsers := make(map[string]struct{})

	for _, m := range finished {
		pending, err := s.predictionRepo.ListUnsettledByMatch(ctx, m.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "skip match: list unsettled predictions failed",
				"match_id", m.ID, "error", err)
			continue
		}
		result.ProcessedMatches++

		for _, p := range pending {
			correct, points := prediction.Score(
				p.PredictedHomeScore, p.PredictedAwayScore,
				*m.HomeScore, *m.AwayScore,
			)

			claimed, err := s.predictionRepo.Settle(ctx, p.ID, correct, points)
			if err != nil {
				s.logger.WarnContext(ctx, "skip prediction: settle failed",
					"prediction_id", p.ID, "match_id", m.ID, "error", err)
				continue
			}
			if !claimed {
				continue
			}

			result.UpdatedPredictions++
			touchedUsers[p.UserID] = struct{}{}
		}
	}

	recomputed, err := s.recomputeStats(ctx, touchedUsers)
	if err != nil {
		return result, err
	}
	result.RecomputedUsers = recomputed

	s.logger.InfoContext(ctx, "settlement run completed",
		"processed_matches", result.ProcessedMatches,
		"updated_predictions", result.UpdatedPredictions,
		"recomputed_users", result.RecomputedUsers,
	)
	return result, nil
}

// recomputeStats rebuilds the scoreboard rows for the touched users on a
// bounded worker pool, then refreshes rank positions once at the end.
func (s *SettlementService) recomputeStats(ctx context.Context, touched map[string]struct{}) (int, error) {
	if s.statsRepo == nil || len(touched) == 0 {
		return 0, nil
	}

	userIDs := make([]string, 0, len(touched))
	for userID := range touched {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	workerCount := s.workers
	if workerCount > len(userIDs) {
		workerCount = len(userIDs)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return 0, fmt.Errorf("create recompute pool: %w", err)
	}
	defer pool.Release()

	var catcher panics.Catcher
	var failed sync.Map
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		userID := userID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			catcher.Try(func() {
				if err := s.statsRepo.RecomputeForUser(ctx, userID); err != nil {
					failed.Store(userID, err)
				}
			})
		}); err != nil {
			wg.Done()
			return 0, fmt.Errorf("submit recompute task: %w", err)
		}
	}
	wg.Wait()

	if recovered := catcher.Recovered(); recovered != nil {
		return 0, fmt.Errorf("recompute user stats: %w", recovered.AsError())
	}

	count := len(userIDs)
	failed.Range(func(key, value any) bool {
		s.logger.WarnContext(ctx, "recompute user stats failed",
			"user_id", key, "error", value)
		count--
		return true
	})

	if err := s.statsRepo.RefreshRanks(ctx); err != nil {
		return count, fmt.Errorf("refresh ranks: %w", err)
	}
	return count, nil
}

// Leaderboard returns the top-ranked users.
func (s *SettlementService) Leaderboard(ctx context.Context, limit int) ([]userstats.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.Leaderboard")
	defer span.End()

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	rows, err := s.statsRepo.ListTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return rows, nil
}
