package apisports

import (
	"strings"
	"time"
)

// fixturesEnvelope mirrors the api-sports /fixtures response shape.
type fixturesEnvelope struct {
	Errors   any               `json:"errors"`
	Results  int               `json:"results"`
	Response []fixtureResponse `json:"response"`
}

type fixtureResponse struct {
	Fixture fixtureBlock `json:"fixture"`
	League  leagueBlock  `json:"league"`
	Teams   teamsBlock   `json:"teams"`
	Goals   goalsBlock   `json:"goals"`
}

type fixtureBlock struct {
	ID        int64         `json:"id"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueBlock struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
}

type teamsBlock struct {
	Home teamBlock `json:"home"`
	Away teamBlock `json:"away"`
}

type teamBlock struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type goalsBlock struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// kickoff prefers the epoch timestamp and falls back to the date string.
func (f fixtureBlock) kickoff() (time.Time, bool) {
	if f.Timestamp > 0 {
		return time.Unix(f.Timestamp, 0).UTC(), true
	}

	value := strings.TrimSpace(f.Date)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
