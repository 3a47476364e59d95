package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golazo-app/predictions-api/internal/domain/synclog"
)

// acquireSlotQuery appends a request row only while today's count is
// under the limit and no request landed inside the spacing window. The
// quota check and the append are one statement, so two overlapping syncs
// cannot both take the last slot.
const acquireSlotQuery = `INSERT INTO provider_sync_requests (requested_at)
SELECT $1
WHERE (SELECT count(*) FROM provider_sync_requests
       WHERE requested_at >= $2 AND requested_at < $3) < $4
  AND NOT EXISTS (SELECT 1 FROM provider_sync_requests
       WHERE requested_at >= $2 AND requested_at > $5)`

type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) UsageForDay(ctx context.Context, now time.Time) (synclog.Usage, error) {
	dayStart := synclog.DayBucket(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	var row struct {
		Count       int          `db:"count"`
		LastRequest sql.NullTime `db:"last_request"`
	}
	query := `SELECT count(*) AS count, max(requested_at) AS last_request
FROM provider_sync_requests
WHERE requested_at >= $1 AND requested_at < $2`
	if err := r.db.GetContext(ctx, &row, query, dayStart, dayEnd); err != nil {
		return synclog.Usage{}, fmt.Errorf("select provider usage: %w", err)
	}

	usage := synclog.Usage{CountToday: row.Count}
	if row.LastRequest.Valid {
		last := row.LastRequest.Time.UTC()
		usage.LastRequest = &last
	}
	return usage, nil
}

func (r *SyncLogRepository) AcquireSlot(ctx context.Context, now time.Time, dailyLimit int, minInterval time.Duration) (bool, error) {
	now = now.UTC()
	dayStart := synclog.DayBucket(now)
	dayEnd := dayStart.Add(24 * time.Hour)
	spacingCutoff := now.Add(-minInterval)

	result, err := r.db.ExecContext(ctx, acquireSlotQuery, now, dayStart, dayEnd, dailyLimit, spacingCutoff)
	if err != nil {
		return false, fmt.Errorf("acquire provider slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read acquired slot count: %w", err)
	}
	return affected == 1, nil
}
