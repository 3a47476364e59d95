package userstats

import "time"

// Stats is the denormalized per-user scoreboard, recomputed after each
// settlement run.
type Stats struct {
	UserID             string
	TotalPredictions   int
	CorrectPredictions int
	Accuracy           float64
	TotalPoints        int
	RankPosition       int
	UpdatedAt          time.Time
}
