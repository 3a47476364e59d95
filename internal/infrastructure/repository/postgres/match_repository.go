package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/platform/id"
	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

// matchUpsertSuffix keeps status transitions monotonic and scores
// null-to-value only; concurrent syncs can never roll a match back.
const matchUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
home_team = EXCLUDED.home_team,
away_team = EXCLUDED.away_team,
home_logo = EXCLUDED.home_logo,
away_logo = EXCLUDED.away_logo,
league_name = EXCLUDED.league_name,
kickoff_at = EXCLUDED.kickoff_at,
status = CASE WHEN
	CASE EXCLUDED.status WHEN 'finished' THEN 2 WHEN 'live' THEN 1 ELSE 0 END >=
	CASE matches.status WHEN 'finished' THEN 2 WHEN 'live' THEN 1 ELSE 0 END
	THEN EXCLUDED.status ELSE matches.status END,
api_status = CASE WHEN
	CASE EXCLUDED.status WHEN 'finished' THEN 2 WHEN 'live' THEN 1 ELSE 0 END >=
	CASE matches.status WHEN 'finished' THEN 2 WHEN 'live' THEN 1 ELSE 0 END
	THEN EXCLUDED.api_status ELSE matches.api_status END,
home_score = COALESCE(EXCLUDED.home_score, matches.home_score),
away_score = COALESCE(EXCLUDED.away_score, matches.away_score),
updated_at = now()`

type MatchRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewMatchRepository(db *sqlx.DB, idGen id.Generator) *MatchRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &MatchRepository{db: db, idGen: idGen}
}

// UpsertMatches writes the batch one row at a time, failing fast on the
// first bad row so the error names the offending fixture. Earlier rows
// stay written.
func (r *MatchRepository) UpsertMatches(ctx context.Context, matches []match.Match) error {
	for _, item := range matches {
		if item.ExternalID <= 0 {
			return fmt.Errorf("upsert match external_id=%d: missing external id", item.ExternalID)
		}

		publicID, err := r.idGen.NewID()
		if err != nil {
			return fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
		}

		query, args, err := qb.InsertModel("matches", matchInsertModel{
			PublicID:   publicID,
			ExternalID: item.ExternalID,
			HomeTeam:   item.HomeTeam,
			AwayTeam:   item.AwayTeam,
			HomeLogo:   item.HomeLogo,
			AwayLogo:   item.AwayLogo,
			LeagueName: item.LeagueName,
			KickoffAt:  item.KickoffAt.UTC(),
			Status:     item.Status,
			APIStatus:  item.APIStatus,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		}, matchUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert match external_id=%d query: %w", item.ExternalID, err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
		}
	}
	return nil
}

func (r *MatchRepository) ListByKickoffRange(ctx context.Context, start, end time.Time, offset, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Gte("kickoff_at", start.UTC()),
			qb.Lt("kickoff_at", end.UTC()),
		).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by kickoff range: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) GetByPublicID(ctx context.Context, publicID string) (match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", publicID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, fmt.Errorf("match %s: %w", publicID, match.ErrNotFound)
		}
		return match.Match{}, fmt.Errorf("select match by public id: %w", err)
	}

	return row.toDomain(), nil
}

func (r *MatchRepository) ListFinishedWithScores(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", match.StatusFinished),
			qb.IsNotNull("home_score"),
			qb.IsNotNull("away_score"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select finished matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Lt("updated_at", cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build prune matches query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune matches: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned matches: %w", err)
	}
	return removed, nil
}
