// Package memory holds in-process repository implementations used as test
// doubles. They uphold the same invariants as the postgres repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/platform/id"
)

type MatchRepository struct {
	mu    sync.RWMutex
	byExt map[int64]match.Match
	idGen id.Generator
	now   func() time.Time
}

func NewMatchRepository(idGen id.Generator) *MatchRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &MatchRepository{
		byExt: make(map[int64]match.Match),
		idGen: idGen,
		now:   time.Now,
	}
}

func (r *MatchRepository) UpsertMatches(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		if item.ExternalID <= 0 {
			return fmt.Errorf("upsert match external_id=%d: missing external id", item.ExternalID)
		}

		now := r.now().UTC()
		existing, ok := r.byExt[item.ExternalID]
		if !ok {
			publicID, err := r.idGen.NewID()
			if err != nil {
				return fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
			}
			item.ID = publicID
			item.CreatedAt = now
			item.UpdatedAt = now
			r.byExt[item.ExternalID] = item
			continue
		}

		existing.HomeTeam = item.HomeTeam
		existing.AwayTeam = item.AwayTeam
		existing.HomeLogo = item.HomeLogo
		existing.AwayLogo = item.AwayLogo
		existing.LeagueName = item.LeagueName
		existing.KickoffAt = item.KickoffAt
		if match.StatusRank(item.Status) >= match.StatusRank(existing.Status) {
			existing.Status = item.Status
			existing.APIStatus = item.APIStatus
		}
		if item.HomeScore != nil {
			existing.HomeScore = item.HomeScore
		}
		if item.AwayScore != nil {
			existing.AwayScore = item.AwayScore
		}
		existing.UpdatedAt = now
		r.byExt[item.ExternalID] = existing
	}
	return nil
}

func (r *MatchRepository) ListByKickoffRange(_ context.Context, start, end time.Time, offset, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.byExt))
	for _, item := range r.byExt {
		if item.KickoffAt.Before(start) || !item.KickoffAt.Before(end) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []match.Match{}, nil
	}
	out = out[offset:]
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) GetByPublicID(_ context.Context, publicID string) (match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byExt {
		if item.ID == publicID {
			return item, nil
		}
	}
	return match.Match{}, fmt.Errorf("match %s: %w", publicID, match.ErrNotFound)
}

func (r *MatchRepository) ListFinishedWithScores(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.byExt))
	for _, item := range r.byExt {
		if item.HasFinalScore() {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func (r *MatchRepository) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for extID, item := range r.byExt {
		if item.UpdatedAt.Before(cutoff) {
			delete(r.byExt, extID)
			removed++
		}
	}
	return removed, nil
}
