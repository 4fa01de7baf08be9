package goalg

import (
	"fmt"
	"sort"
	"strings"
)

// The full prediction pipeline. Every derived value (baseline, strengths,
// lambdas, matrix, result) is computed fresh per request from the snapshot
// supplied at call time, so concurrent callers need no coordination.

// FindTeam locates a team in a league snapshot by name.
// Case-insensitive exact match wins, then substring match in either direction
// so "Man United" finds "Manchester United" and vice versa.
func FindTeam(name string, teams []TeamSeasonStats) (TeamSeasonStats, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return TeamSeasonStats{}, fmt.Errorf("%w: empty team name", ErrTeamNotFound)
	}

	for i := range teams {
		if strings.ToLower(teams[i].TeamName) == needle {
			return teams[i], nil
		}
	}

	for i := range teams {
		haystack := strings.ToLower(teams[i].TeamName)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return teams[i], nil
		}
	}

	return TeamSeasonStats{}, fmt.Errorf("%w: '%s'", ErrTeamNotFound, name)
}

// PredictFixture runs the prediction pipeline over an already fetched league
// snapshot. Pure computation, no I/O.
func PredictFixture(homeTeam, awayTeam string, teams []TeamSeasonStats) (*PredictionResult, error) {
	home, err := FindTeam(homeTeam, teams)
	if err != nil {
		return nil, err
	}
	away, err := FindTeam(awayTeam, teams)
	if err != nil {
		return nil, err
	}

	baseline := ComputeLeagueBaseline(teams)

	homeStrength, err := CalculateStrength(home, baseline)
	if err != nil {
		return nil, err
	}
	awayStrength, err := CalculateStrength(away, baseline)
	if err != nil {
		return nil, err
	}

	exp := ExpectedGoals(homeStrength, awayStrength, baseline, Config.HomeAdvantage)
	matrix := BuildScoreMatrix(exp, Config.MaxGoals)
	result := ReduceMatrix(matrix, exp, Config.TopScoreCount)

	// Canonical names from the snapshot, not whatever the caller typed
	result.HomeTeam = home.TeamName
	result.AwayTeam = away.TeamName
	return result, nil
}

// PredictMatch resolves the league, fetches its snapshot and predicts the fixture
func PredictMatch(homeTeam, awayTeam, leagueIdentifier string) (*PredictionResult, League, error) {
	league, err := ResolveLeague(leagueIdentifier)
	if err != nil {
		return nil, League{}, err
	}

	teams, err := GetDatasourceInstance().GetLeagueTeams(league)
	if err != nil {
		return nil, league, err
	}

	result, err := PredictFixture(homeTeam, awayTeam, teams)
	if err != nil {
		return nil, league, err
	}
	return result, league, nil
}

// TableEntry pairs a team's season aggregates with its strength rating
type TableEntry struct {
	Stats    TeamSeasonStats `json:"stats"`
	Strength StrengthRating  `json:"strength"`
}

// LeagueTable returns every team in a league with its strength rating,
// sorted by attack strength descending. Teams with no played matches are
// skipped rather than failing the whole table.
func LeagueTable(leagueIdentifier string) ([]TableEntry, LeagueBaseline, League, error) {
	league, err := ResolveLeague(leagueIdentifier)
	if err != nil {
		return nil, LeagueBaseline{}, League{}, err
	}

	teams, err := GetDatasourceInstance().GetLeagueTeams(league)
	if err != nil {
		return nil, LeagueBaseline{}, league, err
	}

	baseline := ComputeLeagueBaseline(teams)

	entries := make([]TableEntry, 0, len(teams))
	for i := range teams {
		strength, err := CalculateStrength(teams[i], baseline)
		if err != nil {
			continue
		}
		entries = append(entries, TableEntry{Stats: teams[i], Strength: strength})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Strength.Attack > entries[j].Strength.Attack
	})

	return entries, baseline, league, nil
}
