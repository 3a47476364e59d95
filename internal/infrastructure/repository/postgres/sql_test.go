package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"

	qb "github.com/golazo-app/predictions-api/internal/platform/querybuilder"
)

func TestNewRepositories_DefaultIDGenerator(t *testing.T) {
	t.Parallel()

	if repo := NewMatchRepository(nil, nil); repo.idGen == nil {
		t.Fatalf("match repository must fall back to a default id generator")
	}
	if repo := NewPredictionRepository(nil, nil); repo.idGen == nil {
		t.Fatalf("prediction repository must fall back to a default id generator")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("sql.ErrNoRows must be a not-found error")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatalf("arbitrary errors are not not-found")
	}
	if !isNotFound(fmt.Errorf("select match: %w", sql.ErrNoRows)) {
		t.Fatalf("wrapped sql.ErrNoRows must be detected")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatalf("23505 must be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violations are not unique violations")
	}
	if isUniqueViolation(fmt.Errorf("boom")) {
		t.Fatalf("arbitrary errors are not unique violations")
	}
}

func TestMatchUpsertQuery_GuardsStatusAndScores(t *testing.T) {
	t.Parallel()

	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:   "abc",
		ExternalID: 99,
		Status:     "live",
		APIStatus:  "1H",
	}, matchUpsertSuffix)
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}

	if !strings.Contains(query, "ON CONFLICT (external_id) DO UPDATE SET") {
		t.Fatalf("upsert must target external_id: %s", query)
	}
	if !strings.Contains(query, "COALESCE(EXCLUDED.home_score, matches.home_score)") {
		t.Fatalf("scores must only move null to value: %s", query)
	}
	if !strings.Contains(query, "WHEN 'finished' THEN 2 WHEN 'live' THEN 1 ELSE 0") {
		t.Fatalf("status rank guard missing: %s", query)
	}
	if len(args) != 12 {
		t.Fatalf("expected 12 args, got %d", len(args))
	}
}
