package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/userstats"
	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

// recomputeQuery rebuilds a user's totals from their predictions in one
// statement. Accuracy divides correct picks by all predictions made.
const recomputeQuery = `INSERT INTO user_stats
(user_id, total_predictions, correct_predictions, accuracy, total_points, updated_at)
SELECT $1,
count(*),
count(*) FILTER (WHERE is_correct),
COALESCE(round(
	100.0 * count(*) FILTER (WHERE is_correct)
	/ NULLIF(count(*), 0), 2), 0),
COALESCE(sum(points_earned), 0),
now()
FROM predictions WHERE user_id = $1
ON CONFLICT (user_id) DO UPDATE SET
total_predictions = EXCLUDED.total_predictions,
correct_predictions = EXCLUDED.correct_predictions,
accuracy = EXCLUDED.accuracy,
total_points = EXCLUDED.total_points,
updated_at = EXCLUDED.updated_at`

const refreshRanksQuery = `UPDATE user_stats SET rank_position = ranked.position
FROM (SELECT user_id,
	row_number() OVER (ORDER BY total_points DESC, user_id) AS position
	FROM user_stats) ranked
WHERE user_stats.user_id = ranked.user_id`

type userStatsTableModel struct {
	ID                 int64     `db:"id"`
	UserID             string    `db:"user_id"`
	TotalPredictions   int       `db:"total_predictions"`
	CorrectPredictions int       `db:"correct_predictions"`
	Accuracy           float64   `db:"accuracy"`
	TotalPoints        int       `db:"total_points"`
	RankPosition       int       `db:"rank_position"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type UserStatsRepository struct {
	db *sqlx.DB
}

func NewUserStatsRepository(db *sqlx.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) RecomputeForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, recomputeQuery, userID); err != nil {
		return fmt.Errorf("recompute stats for user %s: %w", userID, err)
	}
	return nil
}

func (r *UserStatsRepository) RefreshRanks(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, refreshRanksQuery); err != nil {
		return fmt.Errorf("refresh ranks: %w", err)
	}
	return nil
}

func (r *UserStatsRepository) ListTop(ctx context.Context, limit int) ([]userstats.Stats, error) {
	query, args, err := qb.Select("*").From("user_stats").
		OrderBy("rank_position", "user_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leaderboard query: %w", err)
	}

	var rows []userStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]userstats.Stats, 0, len(rows))
	for _, row := range rows {
		out = append(out, userstats.Stats{
			UserID:             row.UserID,
			TotalPredictions:   row.TotalPredictions,
			CorrectPredictions: row.CorrectPredictions,
			Accuracy:           row.Accuracy,
			TotalPoints:        row.TotalPoints,
			RankPosition:       row.RankPosition,
			UpdatedAt:          row.UpdatedAt,
		})
	}
	return out, nil
}
