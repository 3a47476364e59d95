package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_RangeWithPagination(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query, args, err := Select("*").From("matches").
		Where(
			Gte("kickoff_at", start),
			Lt("kickoff_at", end),
		).
		OrderBy("kickoff_at", "id").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "SELECT * FROM matches WHERE kickoff_at >= $1 AND kickoff_at < $2 ORDER BY kickoff_at, id LIMIT 20 OFFSET 40"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args count: %d", len(args))
	}
}

func TestInsertModel_UsesDBTagsAndSuffix(t *testing.T) {
	t.Parallel()

	model := struct {
		ExternalID int64  `db:"external_id"`
		Name       string `db:"name"`
		Skipped    string `db:"-"`
	}{ExternalID: 39, Name: "Premier League", Skipped: "x"}

	query, args, err := InsertModel("leagues", model, `ON CONFLICT (external_id)
DO UPDATE SET name = EXCLUDED.name`)
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO leagues (external_id, name) VALUES ($1, $2) ON CONFLICT (external_id)\nDO UPDATE SET name = EXCLUDED.name"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 || args[0] != int64(39) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ConditionalSettle(t *testing.T) {
	t.Parallel()

	query, args, err := Update("predictions").
		Set("is_correct", true).
		Set("points_earned", 3).
		Where(
			Eq("public_id", "p-1"),
			IsNull("is_correct"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE predictions SET is_correct = $1, points_earned = $2 WHERE public_id = $3 AND is_correct IS NULL"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args count: %d", len(args))
	}
}

func TestExprCondition_RewritesPlaceholders(t *testing.T) {
	t.Parallel()

	query, args, err := Select("count(*)").From("provider_sync_requests").
		Where(Expr("requested_at >= ? AND requested_at < ?", "a", "b")).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "SELECT count(*) FROM provider_sync_requests WHERE requested_at >= $1 AND requested_at < $2"
	if query != want {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args count: %d", len(args))
	}
}
