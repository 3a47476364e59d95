package postgres

import (
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	Name       string    `db:"name"`
	Logo       string    `db:"logo"`
	Country    string    `db:"country"`
	Season     int       `db:"season"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Logo:       m.Logo,
		Country:    m.Country,
		Season:     m.Season,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type leagueInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	Logo       string `db:"logo"`
	Country    string `db:"country"`
	Season     int    `db:"season"`
}
