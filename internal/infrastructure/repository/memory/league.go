package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	byExt map[int64]league.League
	now   func() time.Time
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		byExt: make(map[int64]league.League),
		now:   time.Now,
	}
}

func (r *LeagueRepository) UpsertLeagues(_ context.Context, leagues []league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range leagues {
		if item.ExternalID <= 0 {
			return fmt.Errorf("upsert league %q: missing external id", item.Name)
		}

		now := r.now().UTC()
		existing, ok := r.byExt[item.ExternalID]
		if !ok {
			item.CreatedAt = now
			item.UpdatedAt = now
			r.byExt[item.ExternalID] = item
			continue
		}

		existing.Name = item.Name
		existing.Logo = item.Logo
		existing.Country = item.Country
		existing.Season = item.Season
		existing.UpdatedAt = now
		r.byExt[item.ExternalID] = existing
	}
	return nil
}

func (r *LeagueRepository) ListAll(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.byExt))
	for _, item := range r.byExt {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}
