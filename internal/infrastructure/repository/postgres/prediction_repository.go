package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/platform/id"
	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

// predictionUpsertQuery replaces the user's existing pick for the match
// and clears any prior settlement so the revised pick scores fresh.
const predictionUpsertQuery = `INSERT INTO predictions
(public_id, user_id, match_public_id, predicted_home_score, predicted_away_score, confidence)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, match_public_id) DO UPDATE SET
predicted_home_score = EXCLUDED.predicted_home_score,
predicted_away_score = EXCLUDED.predicted_away_score,
confidence = EXCLUDED.confidence,
is_correct = NULL,
points_earned = NULL
RETURNING id, public_id, user_id, match_public_id, predicted_home_score, predicted_away_score, confidence, is_correct, points_earned, created_at`

const predictionListByUserQuery = `SELECT p.*,
m.id AS m_id,
m.external_id AS m_external_id,
m.home_team AS m_home_team,
m.away_team AS m_away_team,
m.home_logo AS m_home_logo,
m.away_logo AS m_away_logo,
m.league_name AS m_league_name,
m.kickoff_at AS m_kickoff_at,
m.status AS m_status,
m.api_status AS m_api_status,
m.home_score AS m_home_score,
m.away_score AS m_away_score
FROM predictions p
LEFT JOIN matches m ON m.public_id = p.match_public_id
WHERE p.user_id = $1
ORDER BY p.created_at DESC, p.id DESC`

type PredictionRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewPredictionRepository(db *sqlx.DB, idGen id.Generator) *PredictionRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &PredictionRepository{db: db, idGen: idGen}
}

func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	publicID, err := r.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	var row predictionTableModel
	err = r.db.GetContext(ctx, &row, predictionUpsertQuery,
		publicID, p.UserID, p.MatchPublicID,
		p.PredictedHomeScore, p.PredictedAwayScore, p.Confidence,
	)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	return row.toDomain(), nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.WithMatch, error) {
	var rows []predictionWithMatchModel
	if err := r.db.SelectContext(ctx, &rows, predictionListByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("select predictions by user: %w", err)
	}

	out := make([]prediction.WithMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) ListUnsettledByMatch(ctx context.Context, matchPublicID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("match_public_id", matchPublicID),
			qb.IsNull("is_correct"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unsettled predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unsettled predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Settle claims the row only while it is unsettled; a second run or a
// concurrent settler finds zero rows affected and reports claimed=false.
func (r *PredictionRepository) Settle(ctx context.Context, predictionID string, correct bool, points int) (bool, error) {
	query, args, err := qb.Update("predictions").
		Set("is_correct", correct).
		Set("points_earned", points).
		Where(
			qb.Eq("public_id", predictionID),
			qb.IsNull("is_correct"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build settle prediction query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("settle prediction %s: %w", predictionID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read settled row count: %w", err)
	}
	if affected == 0 {
		// Either already settled or the row is gone; distinguish for
		// the caller's logs.
		exists, err := r.exists(ctx, predictionID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, fmt.Errorf("prediction %s: %w", predictionID, prediction.ErrNotFound)
		}
		return false, nil
	}
	return true, nil
}

func (r *PredictionRepository) exists(ctx context.Context, predictionID string) (bool, error) {
	var count int
	query, args, err := qb.Select("count(*)").From("predictions").
		Where(qb.Eq("public_id", predictionID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build prediction exists query: %w", err)
	}
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check prediction exists: %w", err)
	}
	return count > 0, nil
}
