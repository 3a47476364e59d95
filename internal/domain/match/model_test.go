package match

import "testing"

func TestMapAPIStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want string
	}{
		{code: "NS", want: StatusUpcoming},
		{code: "TBD", want: StatusUpcoming},
		{code: "1H", want: StatusLive},
		{code: "ht", want: StatusLive},
		{code: " LIVE ", want: StatusLive},
		{code: "Q3", want: StatusLive},
		{code: "FT", want: StatusFinished},
		{code: "AET", want: StatusFinished},
		{code: "PEN", want: StatusFinished},
		{code: "CANC", want: StatusFinished},
		{code: "WO", want: StatusFinished},
		{code: "", want: StatusUpcoming},
		{code: "SOMETHING_NEW", want: StatusUpcoming},
	}

	for _, tc := range cases {
		if got := MapAPIStatus(tc.code); got != tc.want {
			t.Fatalf("MapAPIStatus(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestStatusRank_Monotonic(t *testing.T) {
	t.Parallel()

	if !(StatusRank(StatusUpcoming) < StatusRank(StatusLive) && StatusRank(StatusLive) < StatusRank(StatusFinished)) {
		t.Fatalf("status ranks are not ordered: %d %d %d",
			StatusRank(StatusUpcoming), StatusRank(StatusLive), StatusRank(StatusFinished))
	}
	if StatusRank("garbage") != StatusRank(StatusUpcoming) {
		t.Fatalf("unknown status should rank as upcoming")
	}
}

func TestClassifyOutcome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		home, away int
		want       string
	}{
		{2, 0, OutcomeHomeWin},
		{0, 3, OutcomeAwayWin},
		{1, 1, OutcomeDraw},
		{0, 0, OutcomeDraw},
	}
	for _, tc := range cases {
		if got := ClassifyOutcome(tc.home, tc.away); got != tc.want {
			t.Fatalf("ClassifyOutcome(%d, %d) = %q, want %q", tc.home, tc.away, got, tc.want)
		}
	}
}

func TestHasFinalScore(t *testing.T) {
	t.Parallel()

	score := func(v int) *int { return &v }

	m := Match{Status: StatusFinished, HomeScore: score(2), AwayScore: score(0)}
	if !m.HasFinalScore() {
		t.Fatalf("finished match with both scores should be settleable")
	}

	m.AwayScore = nil
	if m.HasFinalScore() {
		t.Fatalf("missing score must block settlement")
	}

	m = Match{Status: StatusLive, HomeScore: score(1), AwayScore: score(0)}
	if m.HasFinalScore() {
		t.Fatalf("live match must not be settleable")
	}
}
