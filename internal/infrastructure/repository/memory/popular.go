package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/popular"
)

type PopularRepository struct {
	mu     sync.Mutex
	byDate map[string]popular.Snapshot
	now    func() time.Time
}

func NewPopularRepository() *PopularRepository {
	return &PopularRepository{
		byDate: make(map[string]popular.Snapshot),
		now:    time.Now,
	}
}

func (r *PopularRepository) GetByDate(_ context.Context, cacheDate string) (popular.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, ok := r.byDate[cacheDate]
	if !ok {
		return popular.Snapshot{}, fmt.Errorf("snapshot %s: %w", cacheDate, popular.ErrNotFound)
	}
	return snapshot, nil
}

func (r *PopularRepository) Insert(_ context.Context, snapshot popular.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byDate[snapshot.CacheDate]; exists {
		return fmt.Errorf("snapshot %s: %w", snapshot.CacheDate, popular.ErrDuplicate)
	}
	snapshot.CreatedAt = r.now().UTC()
	r.byDate[snapshot.CacheDate] = snapshot
	return nil
}
