package popular

import (
	"context"
	"errors"
)

// ErrNotFound reports that no snapshot exists for the requested date.
var ErrNotFound = errors.New("snapshot not found")

// ErrDuplicate reports a lost insert race on cache_date. Callers re-read
// the winning row instead of failing.
var ErrDuplicate = errors.New("snapshot already exists for date")

type Repository interface {
	GetByDate(ctx context.Context, cacheDate string) (Snapshot, error)
	// Insert stores the day's snapshot; a lost race surfaces as
	// ErrDuplicate.
	Insert(ctx context.Context, snapshot Snapshot) error
}
