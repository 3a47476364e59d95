package userstats

import "context"

type Repository interface {
	// RecomputeForUser rebuilds the user's totals from their predictions
	// in one aggregate upsert.
	RecomputeForUser(ctx context.Context, userID string) error
	// RefreshRanks reassigns rank positions ordered by total points.
	RefreshRanks(ctx context.Context) error
	ListTop(ctx context.Context, limit int) ([]Stats, error)
}
