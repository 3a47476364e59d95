package match

import (
	"strings"
	"time"
)

const (
	StatusUpcoming = "upcoming"
	StatusLive     = "live"
	StatusFinished = "finished"
)

// Match is one fixture as stored, keyed by the provider's external id.
type Match struct {
	ID            string
	ExternalID    int64
	HomeTeam      string
	AwayTeam      string
	HomeLogo      string
	AwayLogo      string
	LeagueName    string
	KickoffAt     time.Time
	Status        string
	APIStatus     string
	HomeScore     *int
	AwayScore     *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Provider short codes that mean the match is currently being played.
var liveAPIStatuses = map[string]struct{}{
	"1H": {}, "2H": {}, "HT": {}, "ET": {}, "P": {}, "LIVE": {},
	"Q1": {}, "Q2": {}, "Q3": {}, "Q4": {}, "OT": {}, "BT": {},
	"INT": {}, "BREAK": {}, "IN PROGRESS": {},
}

// Provider short codes that mean no further play will happen. Abandoned,
// awarded and walk-over codes count as finished so settlement is never
// blocked on them.
var finishedAPIStatuses = map[string]struct{}{
	"FT": {}, "AET": {}, "PEN": {}, "FT_PEN": {}, "FT_AET": {},
	"CANC": {}, "ABD": {}, "AWD": {}, "WO": {}, "POSTP": {}, "SUSP": {},
}

// MapAPIStatus classifies a provider short code into a stored status. The
// function is total: unrecognized codes fall through to upcoming, which
// only delays settlement and self-corrects on a later sync.
func MapAPIStatus(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := finishedAPIStatuses[code]; ok {
		return StatusFinished
	}
	if _, ok := liveAPIStatuses[code]; ok {
		return StatusLive
	}
	return StatusUpcoming
}

// StatusRank orders the match lifecycle. Upserts never move a match to a
// lower rank, so status transitions are monotonic.
func StatusRank(status string) int {
	switch status {
	case StatusLive:
		return 1
	case StatusFinished:
		return 2
	default:
		return 0
	}
}

const (
	OutcomeHomeWin = "local"
	OutcomeDraw    = "empate"
	OutcomeAwayWin = "visitante"
)

// ClassifyOutcome reduces a score pair to its outcome class.
func ClassifyOutcome(homeScore, awayScore int) string {
	switch {
	case homeScore > awayScore:
		return OutcomeHomeWin
	case awayScore > homeScore:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// HasFinalScore reports whether the match is eligible for settlement.
func (m Match) HasFinalScore() bool {
	return m.Status == StatusFinished && m.HomeScore != nil && m.AwayScore != nil
}
