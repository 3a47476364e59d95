package prediction

import "testing"

func TestScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                         string
		predHome, predAway           int
		actualHome, actualAway       int
		wantCorrect                  bool
		wantPoints                   int
	}{
		{name: "right outcome wrong scoreline", predHome: 2, predAway: 1, actualHome: 3, actualAway: 0, wantCorrect: true, wantPoints: 3},
		{name: "exact scoreline", predHome: 1, predAway: 1, actualHome: 1, actualAway: 1, wantCorrect: true, wantPoints: 4},
		{name: "wrong outcome", predHome: 0, predAway: 1, actualHome: 1, actualAway: 0, wantCorrect: false, wantPoints: 0},
		{name: "draw predicted but home won", predHome: 0, predAway: 0, actualHome: 2, actualAway: 0, wantCorrect: false, wantPoints: 0},
		{name: "exact away win", predHome: 0, predAway: 2, actualHome: 0, actualAway: 2, wantCorrect: true, wantPoints: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			correct, points := Score(tc.predHome, tc.predAway, tc.actualHome, tc.actualAway)
			if correct != tc.wantCorrect || points != tc.wantPoints {
				t.Fatalf("Score() = (%v, %d), want (%v, %d)", correct, points, tc.wantCorrect, tc.wantPoints)
			}
		})
	}
}

func TestScoresForPick(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pick       string
		home, away int
		ok         bool
	}{
		{pick: PickHomeWin, home: 1, away: 0, ok: true},
		{pick: PickAwayWin, home: 0, away: 1, ok: true},
		{pick: PickDraw, home: 0, away: 0, ok: true},
		{pick: "draw", ok: false},
		{pick: "", ok: false},
	}
	for _, tc := range cases {
		home, away, ok := ScoresForPick(tc.pick)
		if ok != tc.ok || home != tc.home || away != tc.away {
			t.Fatalf("ScoresForPick(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tc.pick, home, away, ok, tc.home, tc.away, tc.ok)
		}
	}
}

func TestAccuracy_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	if got := Accuracy(1, 3); got != 33.33 {
		t.Fatalf("Accuracy(1, 3) = %v, want 33.33", got)
	}
	if got := Accuracy(2, 3); got != 66.67 {
		t.Fatalf("Accuracy(2, 3) = %v, want 66.67", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("Accuracy(0, 0) = %v, want 0", got)
	}
	if got := Accuracy(5, 5); got != 100 {
		t.Fatalf("Accuracy(5, 5) = %v, want 100", got)
	}
}
