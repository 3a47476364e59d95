package prediction

import (
	"context"
	"errors"

	"github.com/golazo-app/predictions-api/internal/domain/match"
)

// ErrNotFound reports a lookup for a prediction that does not exist.
var ErrNotFound = errors.New("prediction not found")

// WithMatch joins a prediction with the match it was made on.
type WithMatch struct {
	Prediction
	Match match.Match
}

type Repository interface {
	// Upsert inserts the pick or replaces the user's existing pick for
	// the same match, returning the stored row.
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	// ListByUser returns the user's predictions newest first, joined
	// with the matches they target.
	ListByUser(ctx context.Context, userID string) ([]WithMatch, error)
	ListUnsettledByMatch(ctx context.Context, matchPublicID string) ([]Prediction, error)
	// Settle records the outcome for one prediction. The write is
	// conditional on the row being unsettled; claimed reports whether
	// this call won the row.
	Settle(ctx context.Context, predictionID string, correct bool, points int) (claimed bool, err error)
}
