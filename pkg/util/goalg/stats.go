package goalg

import "fmt"

// TeamSeasonStats holds one team's season aggregates as supplied by the
// datasource. The prediction core treats this as an immutable value.
type TeamSeasonStats struct {
	TeamName      string  `json:"teamName"`
	MatchesPlayed int     `json:"matchesPlayed"`
	GoalsScored   int     `json:"goalsScored"`
	GoalsConceded int     `json:"goalsConceded"`
	XG            float64 `json:"xG"`
	XGA           float64 `json:"xGA"`
}

// GoalsPerMatch returns actual goals scored per match played
func (ts *TeamSeasonStats) GoalsPerMatch() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return float64(ts.GoalsScored) / float64(ts.MatchesPlayed)
}

// XGPerMatch returns expected goals per match played
func (ts *TeamSeasonStats) XGPerMatch() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return ts.XG / float64(ts.MatchesPlayed)
}

// XGAPerMatch returns expected goals against per match played
func (ts *TeamSeasonStats) XGAPerMatch() float64 {
	if ts.MatchesPlayed == 0 {
		return 0
	}
	return ts.XGA / float64(ts.MatchesPlayed)
}

// LeagueBaseline holds league-wide per-match averages, recomputed from a full
// team snapshot every time one is supplied. Never persisted.
type LeagueBaseline struct {
	AvgGoals float64 `json:"avgGoals"` // average goals scored per team per match
	AvgXG    float64 `json:"avgXG"`    // average xG per team per match
}

// StrengthRating holds a team's attack and defense ratios relative to the
// league baseline, 1.0 being exactly league average. A defense below 1.0
// concedes fewer expected goals than average, ie a strong defense.
type StrengthRating struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// ComputeLeagueBaseline derives per-match league averages from a full team
// snapshot. Teams with no played matches contribute nothing. An empty
// snapshot falls back to the configured default average rather than zero,
// which would poison every downstream division.
func ComputeLeagueBaseline(teams []TeamSeasonStats) LeagueBaseline {
	var totalGoals, totalXG float64
	var count int

	for i := range teams {
		if teams[i].MatchesPlayed == 0 {
			continue
		}
		totalGoals += teams[i].GoalsPerMatch()
		totalXG += teams[i].XGPerMatch()
		count++
	}

	if count == 0 {
		return LeagueBaseline{
			AvgGoals: Config.DefaultLeagueAverage,
			AvgXG:    Config.DefaultLeagueAverage,
		}
	}

	return LeagueBaseline{
		AvgGoals: totalGoals / float64(count),
		AvgXG:    totalXG / float64(count),
	}
}

// CalculateStrength converts one team's aggregates into attack and defense
// ratios against the league baseline.
// attack  = (team xG per match)  / (league average xG per match)
// defense = (team xGA per match) / (league average xG per match)
func CalculateStrength(stats TeamSeasonStats, baseline LeagueBaseline) (StrengthRating, error) {
	if stats.MatchesPlayed == 0 {
		return StrengthRating{}, fmt.Errorf("%w: %s has played no matches", ErrInsufficientData, stats.TeamName)
	}

	avgXG := baseline.AvgXG
	if avgXG <= 0 {
		avgXG = Config.DefaultLeagueAverage
	}

	return StrengthRating{
		Attack:  stats.XGPerMatch() / avgXG,
		Defense: stats.XGAPerMatch() / avgXG,
	}, nil
}
