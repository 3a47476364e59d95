package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/platform/id"
)

type PredictionRepository struct {
	mu      sync.Mutex
	byID    map[string]prediction.Prediction
	idGen   id.Generator
	matches *MatchRepository
	now     func() time.Time
}

// NewPredictionRepository joins list reads against the given match
// repository, mirroring the SQL join in the postgres implementation.
func NewPredictionRepository(idGen id.Generator, matches *MatchRepository) *PredictionRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &PredictionRepository{
		byID:    make(map[string]prediction.Prediction),
		idGen:   idGen,
		matches: matches,
		now:     time.Now,
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for existingID, existing := range r.byID {
		if existing.UserID == p.UserID && existing.MatchPublicID == p.MatchPublicID {
			existing.PredictedHomeScore = p.PredictedHomeScore
			existing.PredictedAwayScore = p.PredictedAwayScore
			existing.Confidence = p.Confidence
			existing.IsCorrect = nil
			existing.PointsEarned = nil
			r.byID[existingID] = existing
			return existing, nil
		}
	}

	publicID, err := r.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	p.ID = publicID
	p.CreatedAt = r.now().UTC()
	r.byID[p.ID] = p
	return p, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.WithMatch, error) {
	r.mu.Lock()
	rows := make([]prediction.Prediction, 0, len(r.byID))
	for _, item := range r.byID {
		if item.UserID == userID {
			rows = append(rows, item)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	out := make([]prediction.WithMatch, 0, len(rows))
	for _, item := range rows {
		joined := prediction.WithMatch{Prediction: item}
		if r.matches != nil {
			m, err := r.matches.GetByPublicID(ctx, item.MatchPublicID)
			if err == nil {
				joined.Match = m
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

func (r *PredictionRepository) ListUnsettledByMatch(_ context.Context, matchPublicID string) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.byID {
		if item.MatchPublicID == matchPublicID && !item.Settled() {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PredictionRepository) Settle(_ context.Context, predictionID string, correct bool, points int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[predictionID]
	if !ok {
		return false, fmt.Errorf("prediction %s: %w", predictionID, prediction.ErrNotFound)
	}
	if item.Settled() {
		return false, nil
	}

	item.IsCorrect = &correct
	item.PointsEarned = &points
	r.byID[predictionID] = item
	return true, nil
}

// snapshotByUser returns all of the user's predictions, used by the
// stats recompute.
func (r *PredictionRepository) snapshotByUser(userID string) []prediction.Prediction {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.byID {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out
}
