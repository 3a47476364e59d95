package postgres

import (
	"database/sql"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/prediction"
)

type predictionTableModel struct {
	ID                 int64     `db:"id"`
	PublicID           string    `db:"public_id"`
	UserID             string    `db:"user_id"`
	MatchPublicID      string    `db:"match_public_id"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	Confidence         int       `db:"confidence"`
	IsCorrect          *bool     `db:"is_correct"`
	PointsEarned       *int      `db:"points_earned"`
	CreatedAt          time.Time `db:"created_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:                 m.PublicID,
		UserID:             m.UserID,
		MatchPublicID:      m.MatchPublicID,
		PredictedHomeScore: m.PredictedHomeScore,
		PredictedAwayScore: m.PredictedAwayScore,
		Confidence:         m.Confidence,
		IsCorrect:          m.IsCorrect,
		PointsEarned:       m.PointsEarned,
		CreatedAt:          m.CreatedAt,
	}
}

// predictionWithMatchModel flattens the prediction/match join; match
// columns are aliased with an m_ prefix in the query.
type predictionWithMatchModel struct {
	predictionTableModel
	MatchRowID      sql.NullInt64  `db:"m_id"`
	MatchExternalID sql.NullInt64  `db:"m_external_id"`
	MatchHomeTeam   sql.NullString `db:"m_home_team"`
	MatchAwayTeam   sql.NullString `db:"m_away_team"`
	MatchHomeLogo   sql.NullString `db:"m_home_logo"`
	MatchAwayLogo   sql.NullString `db:"m_away_logo"`
	MatchLeagueName sql.NullString `db:"m_league_name"`
	MatchKickoffAt  sql.NullTime   `db:"m_kickoff_at"`
	MatchStatus     sql.NullString `db:"m_status"`
	MatchAPIStatus  sql.NullString `db:"m_api_status"`
	MatchHomeScore  *int           `db:"m_home_score"`
	MatchAwayScore  *int           `db:"m_away_score"`
}

func (m predictionWithMatchModel) toDomain() prediction.WithMatch {
	out := prediction.WithMatch{Prediction: m.predictionTableModel.toDomain()}
	if !m.MatchRowID.Valid {
		return out
	}

	out.Match = match.Match{
		ID:         m.MatchPublicID,
		ExternalID: m.MatchExternalID.Int64,
		HomeTeam:   m.MatchHomeTeam.String,
		AwayTeam:   m.MatchAwayTeam.String,
		HomeLogo:   m.MatchHomeLogo.String,
		AwayLogo:   m.MatchAwayLogo.String,
		LeagueName: m.MatchLeagueName.String,
		KickoffAt:  m.MatchKickoffAt.Time,
		Status:     m.MatchStatus.String,
		APIStatus:  m.MatchAPIStatus.String,
		HomeScore:  m.MatchHomeScore,
		AwayScore:  m.MatchAwayScore,
	}
	return out
}
