package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/domain/userstats"
)

type UserStatsRepository struct {
	mu          sync.Mutex
	byUser      map[string]userstats.Stats
	predictions *PredictionRepository
	now         func() time.Time
}

func NewUserStatsRepository(predictions *PredictionRepository) *UserStatsRepository {
	return &UserStatsRepository{
		byUser:      make(map[string]userstats.Stats),
		predictions: predictions,
		now:         time.Now,
	}
}

func (r *UserStatsRepository) RecomputeForUser(_ context.Context, userID string) error {
	var rows []prediction.Prediction
	if r.predictions != nil {
		rows = r.predictions.snapshotByUser(userID)
	}

	stats := userstats.Stats{UserID: userID, UpdatedAt: r.now().UTC()}
	for _, item := range rows {
		stats.TotalPredictions++
		if item.IsCorrect == nil {
			continue
		}
		if *item.IsCorrect {
			stats.CorrectPredictions++
		}
		if item.PointsEarned != nil {
			stats.TotalPoints += *item.PointsEarned
		}
	}
	stats.Accuracy = prediction.Accuracy(stats.CorrectPredictions, stats.TotalPredictions)

	r.mu.Lock()
	if existing, ok := r.byUser[userID]; ok {
		stats.RankPosition = existing.RankPosition
	}
	r.byUser[userID] = stats
	r.mu.Unlock()
	return nil
}

func (r *UserStatsRepository) RefreshRanks(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]userstats.Stats, 0, len(r.byUser))
	for _, item := range r.byUser {
		rows = append(rows, item)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].UserID < rows[j].UserID
	})

	for idx, item := range rows {
		item.RankPosition = idx + 1
		r.byUser[item.UserID] = item
	}
	return nil
}

func (r *UserStatsRepository) ListTop(_ context.Context, limit int) ([]userstats.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]userstats.Stats, 0, len(r.byUser))
	for _, item := range r.byUser {
		rows = append(rows, item)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RankPosition != rows[j].RankPosition {
			return rows[i].RankPosition < rows[j].RankPosition
		}
		return rows[i].UserID < rows[j].UserID
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}
