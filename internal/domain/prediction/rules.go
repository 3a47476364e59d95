package prediction

import (
	"math"

	"github.com/golazo-app/predictions-api/internal/domain/match"
)

const (
	pointsOutcome  = 3
	pointsExact    = 1
	maxMatchPoints = pointsOutcome + pointsExact
)

// Score settles a prediction against the final score. A prediction is
// correct when its outcome class matches the actual outcome; the exact
// scoreline earns one bonus point on top.
func Score(predictedHome, predictedAway, actualHome, actualAway int) (correct bool, points int) {
	if match.ClassifyOutcome(predictedHome, predictedAway) != match.ClassifyOutcome(actualHome, actualAway) {
		return false, 0
	}

	points = pointsOutcome
	if predictedHome == actualHome && predictedAway == actualAway {
		points += pointsExact
	}
	return true, points
}

// Accuracy returns the hit rate as a percentage rounded to two decimals.
// The denominator is every prediction made, settled or not, so accuracy
// dips while picks are awaiting settlement and recovers as they score.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
