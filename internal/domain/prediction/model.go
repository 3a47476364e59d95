package prediction

import "time"

const (
	PickHomeWin = "local"
	PickDraw    = "empate"
	PickAwayWin = "visitante"
)

// DefaultConfidence is stored with every pick; scoring ignores it.
const DefaultConfidence = 5

// Prediction is one user's pick for one match. A user holds at most one
// prediction per match and may revise it while the match is upcoming.
type Prediction struct {
	ID                 string
	UserID             string
	MatchPublicID      string
	PredictedHomeScore int
	PredictedAwayScore int
	Confidence         int
	IsCorrect          *bool
	PointsEarned       *int
	CreatedAt          time.Time
}

// Settled reports whether the prediction has already been scored.
func (p Prediction) Settled() bool {
	return p.IsCorrect != nil
}

// ScoresForPick maps a pick to the scoreline it stands for.
func ScoresForPick(pick string) (home, away int, ok bool) {
	switch pick {
	case PickHomeWin:
		return 1, 0, true
	case PickAwayWin:
		return 0, 1, true
	case PickDraw:
		return 0, 0, true
	default:
		return 0, 0, false
	}
}

// UserSummary aggregates a user's settled and pending predictions.
type UserSummary struct {
	TotalPredictions   int
	CorrectPredictions int
	Accuracy           float64
	TotalPoints        int
}
