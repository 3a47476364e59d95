package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/league"
	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

const leagueUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
name = EXCLUDED.name,
logo = EXCLUDED.logo,
country = EXCLUDED.country,
season = EXCLUDED.season,
updated_at = now()`

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) UpsertLeagues(ctx context.Context, leagues []league.League) error {
	for _, item := range leagues {
		if item.ExternalID <= 0 {
			return fmt.Errorf("upsert league %q: missing external id", item.Name)
		}

		query, args, err := qb.InsertModel("leagues", leagueInsertModel{
			ExternalID: item.ExternalID,
			Name:       item.Name,
			Logo:       item.Logo,
			Country:    item.Country,
			Season:     item.Season,
		}, leagueUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert league %q query: %w", item.Name, err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert league %q: %w", item.Name, err)
		}
	}
	return nil
}

func (r *LeagueRepository) ListAll(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
