package usecase

import (
	"context"
	"time"
)

// ExternalMatch is one fixture as the provider reports it, before
// normalization into the domain model.
type ExternalMatch struct {
	FixtureID   int64
	KickoffAt   time.Time
	StatusShort string
	HomeTeam    string
	HomeLogo    string
	AwayTeam    string
	AwayLogo    string
	HomeScore   *int
	AwayScore   *int

	LeagueExternalID int64
	LeagueName       string
	LeagueLogo       string
	LeagueCountry    string
	LeagueSeason     int
}

// FixturesProvider fetches one day's fixtures. date is formatted
// YYYY-MM-DD in UTC.
type FixturesProvider interface {
	FetchFixturesByDate(ctx context.Context, date string) ([]ExternalMatch, error)
}

// PopularProvider fetches the raw popular-matches payload.
type PopularProvider interface {
	FetchPopularMatches(ctx context.Context) ([]byte, error)
}
