package usecase

import (
	"github.com/golazo-app/predictions-api/internal/domain/league"
	"github.com/golazo-app/predictions-api/internal/domain/match"
)

// mapExternalMatches normalizes provider records into domain matches and
// their deduped leagues. Leagues dedupe by external id, last write wins
// within the batch.
func mapExternalMatches(items []ExternalMatch) ([]match.Match, []league.League) {
	matches := make([]match.Match, 0, len(items))
	leagueByExt := make(map[int64]league.League, 16)
	leagueOrder := make([]int64, 0, 16)

	for _, item := range items {
		if item.FixtureID <= 0 || item.KickoffAt.IsZero() {
			continue
		}

		matches = append(matches, match.Match{
			ExternalID: item.FixtureID,
			HomeTeam:   item.HomeTeam,
			AwayTeam:   item.AwayTeam,
			HomeLogo:   item.HomeLogo,
			AwayLogo:   item.AwayLogo,
			LeagueName: item.LeagueName,
			KickoffAt:  item.KickoffAt.UTC(),
			Status:     match.MapAPIStatus(item.StatusShort),
			APIStatus:  item.StatusShort,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		})

		if item.LeagueExternalID <= 0 {
			continue
		}
		if _, seen := leagueByExt[item.LeagueExternalID]; !seen {
			leagueOrder = append(leagueOrder, item.LeagueExternalID)
		}
		leagueByExt[item.LeagueExternalID] = league.League{
			ExternalID: item.LeagueExternalID,
			Name:       item.LeagueName,
			Logo:       item.LeagueLogo,
			Country:    item.LeagueCountry,
			Season:     item.LeagueSeason,
		}
	}

	leagues := make([]league.League, 0, len(leagueOrder))
	for _, extID := range leagueOrder {
		leagues = append(leagues, leagueByExt[extID])
	}
	return matches, leagues
}
