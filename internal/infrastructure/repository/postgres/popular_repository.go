package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/popular"
	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

type popularSnapshotModel struct {
	ID        int64     `db:"id"`
	CacheDate string    `db:"cache_date"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

type PopularRepository struct {
	db *sqlx.DB
}

func NewPopularRepository(db *sqlx.DB) *PopularRepository {
	return &PopularRepository{db: db}
}

func (r *PopularRepository) GetByDate(ctx context.Context, cacheDate string) (popular.Snapshot, error) {
	query, args, err := qb.Select("*").From("popular_snapshots").
		Where(qb.Eq("cache_date", cacheDate)).
		Limit(1).
		ToSQL()
	if err != nil {
		return popular.Snapshot{}, fmt.Errorf("build select snapshot query: %w", err)
	}

	var row popularSnapshotModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return popular.Snapshot{}, fmt.Errorf("snapshot %s: %w", cacheDate, popular.ErrNotFound)
		}
		return popular.Snapshot{}, fmt.Errorf("select snapshot by date: %w", err)
	}

	return popular.Snapshot{
		CacheDate: row.CacheDate,
		Payload:   row.Payload,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *PopularRepository) Insert(ctx context.Context, snapshot popular.Snapshot) error {
	query, args, err := qb.InsertInto("popular_snapshots").
		Columns("cache_date", "payload").
		Values(snapshot.CacheDate, snapshot.Payload).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert snapshot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("snapshot %s: %w", snapshot.CacheDate, popular.ErrDuplicate)
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}
