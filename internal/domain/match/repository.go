package match

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a lookup for a match that does not exist.
var ErrNotFound = errors.New("match not found")

type Repository interface {
	// UpsertMatches writes the batch keyed by external id. Status never
	// regresses and scores only move from null to a value.
	UpsertMatches(ctx context.Context, matches []Match) error
	// ListByKickoffRange returns matches with start <= kickoff < end,
	// ordered by kickoff then id.
	ListByKickoffRange(ctx context.Context, start, end time.Time, offset, limit int) ([]Match, error)
	GetByPublicID(ctx context.Context, publicID string) (Match, error)
	// ListFinishedWithScores returns settlement candidates: finished
	// matches whose both scores are present.
	ListFinishedWithScores(ctx context.Context) ([]Match, error)
	// PruneOlderThan deletes matches not touched by any sync since the
	// cutoff and returns how many rows were removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
