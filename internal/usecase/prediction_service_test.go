package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golazo-app/predictions-api/internal/domain/match"
	"github.com/golazo-app/predictions-api/internal/domain/prediction"
	"github.com/golazo-app/predictions-api/internal/infrastructure/repository/memory"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

type predictionFixture struct {
	matches     *memory.MatchRepository
	predictions *memory.PredictionRepository
	service     *usecase.PredictionService
}

func newPredictionFixture(t *testing.T) *predictionFixture {
	t.Helper()

	matches := memory.NewMatchRepository(nil)
	predictions := memory.NewPredictionRepository(nil, matches)
	return &predictionFixture{
		matches:     matches,
		predictions: predictions,
		service:     usecase.NewPredictionService(matches, predictions, nil),
	}
}

func (f *predictionFixture) seedMatch(t *testing.T, externalID int64, status string) match.Match {
	t.Helper()

	if err := f.matches.UpsertMatches(context.Background(), []match.Match{{
		ExternalID: externalID,
		HomeTeam:   "Home FC",
		AwayTeam:   "Away FC",
		KickoffAt:  testNow.Add(4 * time.Hour),
		Status:     status,
	}}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	rows, err := f.matches.ListByKickoffRange(context.Background(), testNow, testNow.Add(24*time.Hour), 0, 100)
	if err != nil {
		t.Fatalf("read seeded match: %v", err)
	}
	for _, m := range rows {
		if m.ExternalID == externalID {
			return m
		}
	}
	t.Fatalf("seeded match %d not found", externalID)
	return match.Match{}
}

func TestSave_MapsPicksToScorelines(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pick       string
		home, away int
	}{
		{pick: prediction.PickHomeWin, home: 1, away: 0},
		{pick: prediction.PickDraw, home: 0, away: 0},
		{pick: prediction.PickAwayWin, home: 0, away: 1},
	}

	for i, tc := range cases {
		f := newPredictionFixture(t)
		m := f.seedMatch(t, int64(300+i), match.StatusUpcoming)

		saved, err := f.service.Save(context.Background(), "user-1", m.ID, tc.pick)
		if err != nil {
			t.Fatalf("save %s: %v", tc.pick, err)
		}
		if saved.PredictedHomeScore != tc.home || saved.PredictedAwayScore != tc.away {
			t.Fatalf("pick %s mapped to (%d, %d)", tc.pick, saved.PredictedHomeScore, saved.PredictedAwayScore)
		}
		if saved.Confidence != prediction.DefaultConfidence {
			t.Fatalf("confidence default missing, got %d", saved.Confidence)
		}
	}
}

func TestSave_RejectsUnknownPick(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	m := f.seedMatch(t, 310, match.StatusUpcoming)

	_, err := f.service.Save(context.Background(), "user-1", m.ID, "home")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSave_RejectsUnknownMatch(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	_, err := f.service.Save(context.Background(), "user-1", "no-such-match", prediction.PickDraw)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSave_RejectsNonUpcomingMatch(t *testing.T) {
	t.Parallel()

	for _, status := range []string{match.StatusLive, match.StatusFinished} {
		f := newPredictionFixture(t)
		m := f.seedMatch(t, 320, status)

		_, err := f.service.Save(context.Background(), "user-1", m.ID, prediction.PickHomeWin)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("status %s: expected ErrInvalidInput, got %v", status, err)
		}
	}
}

func TestSave_RevisionReplacesExistingPick(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	m := f.seedMatch(t, 330, match.StatusUpcoming)

	first, err := f.service.Save(context.Background(), "user-1", m.ID, prediction.PickHomeWin)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := f.service.Save(context.Background(), "user-1", m.ID, prediction.PickAwayWin)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("revision must keep one row per user and match")
	}

	rows, _, err := f.service.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(rows))
	}
	if rows[0].PredictedHomeScore != 0 || rows[0].PredictedAwayScore != 1 {
		t.Fatalf("revision not applied: %+v", rows[0].Prediction)
	}
}

func TestListByUser_SummaryAccuracyOverAllPredictions(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	m1 := f.seedMatch(t, 340, match.StatusUpcoming)
	m2 := f.seedMatch(t, 341, match.StatusUpcoming)
	m3 := f.seedMatch(t, 342, match.StatusUpcoming)

	if _, err := f.service.Save(context.Background(), "user-1", m1.ID, prediction.PickHomeWin); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := f.service.Save(context.Background(), "user-1", m2.ID, prediction.PickDraw); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := f.service.Save(context.Background(), "user-1", m3.ID, prediction.PickAwayWin); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Settle two of the three predictions out of band.
	rows, _, err := f.service.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := f.predictions.Settle(context.Background(), rows[0].ID, true, 4); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if _, err := f.predictions.Settle(context.Background(), rows[1].ID, false, 0); err != nil {
		t.Fatalf("settle: %v", err)
	}

	_, summary, err := f.service.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list after settle: %v", err)
	}
	if summary.TotalPredictions != 3 || summary.CorrectPredictions != 1 || summary.TotalPoints != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Accuracy != 33.33 {
		t.Fatalf("accuracy must divide by every prediction made, got %v", summary.Accuracy)
	}
}

func TestListByUser_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	m1 := f.seedMatch(t, 350, match.StatusUpcoming)
	m2 := f.seedMatch(t, 351, match.StatusUpcoming)

	first, err := f.service.Save(context.Background(), "user-1", m1.ID, prediction.PickHomeWin)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := f.service.Save(context.Background(), "user-1", m2.ID, prediction.PickDraw)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, _, err := f.service.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if first.ID == second.ID {
		t.Fatalf("different matches must create different predictions")
	}
	if rows[0].CreatedAt.Before(rows[1].CreatedAt) {
		t.Fatalf("expected newest first ordering")
	}
	if rows[0].Match.ID == "" || rows[1].Match.ID == "" {
		t.Fatalf("rows must join match data")
	}
}
