package postgres

import (
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/match"
)

type matchTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	ExternalID int64     `db:"external_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	HomeLogo   string    `db:"home_logo"`
	AwayLogo   string    `db:"away_logo"`
	LeagueName string    `db:"league_name"`
	KickoffAt  time.Time `db:"kickoff_at"`
	Status     string    `db:"status"`
	APIStatus  string    `db:"api_status"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.PublicID,
		ExternalID: m.ExternalID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeLogo:   m.HomeLogo,
		AwayLogo:   m.AwayLogo,
		LeagueName: m.LeagueName,
		KickoffAt:  m.KickoffAt,
		Status:     m.Status,
		APIStatus:  m.APIStatus,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type matchInsertModel struct {
	PublicID   string    `db:"public_id"`
	ExternalID int64     `db:"external_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	HomeLogo   string    `db:"home_logo"`
	AwayLogo   string    `db:"away_logo"`
	LeagueName string    `db:"league_name"`
	KickoffAt  time.Time `db:"kickoff_at"`
	Status     string    `db:"status"`
	APIStatus  string    `db:"api_status"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
}
