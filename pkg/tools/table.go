package tools

import (
	"fmt"

	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	"github.com/richard-senior/goalgorithm-mcp/pkg/protocol"
	"github.com/richard-senior/goalgorithm-mcp/pkg/util/goalg"
)

func LeagueTableTool() protocol.Tool {
	return protocol.Tool{
		Name: "get_league_table",
		Description: `
		Gets every team in a league with its xG statistics and attack/defense
		strength ratings, sorted by attack strength. A strength of 1.0 is
		exactly league average.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"league": {
					Type:        "string",
					Description: "League slug, name or numeric id ('EPL', 'Premier League', '9'). Defaults to EPL.",
				},
			},
			Required: []string{},
		},
	}
}

// HandleLeagueTableTool returns the per-team xG table for a league
func HandleLeagueTableTool(params any) (any, error) {
	leagueQuery := "EPL"
	if paramsMap, ok := params.(map[string]any); ok {
		if q, ok := paramsMap["league"].(string); ok && q != "" {
			leagueQuery = q
		}
	}

	logger.Info("Building league table for", leagueQuery)

	entries, baseline, league, err := goalg.LeagueTable(leagueQuery)
	if err != nil {
		return nil, err
	}

	season := goalg.CurrentSeason()

	teams := make([]map[string]any, 0, len(entries))
	for i, entry := range entries {
		teams = append(teams, map[string]any{
			"rank":             i + 1,
			"team":             entry.Stats.TeamName,
			"matches":          entry.Stats.MatchesPlayed,
			"goals_scored":     entry.Stats.GoalsScored,
			"goals_conceded":   entry.Stats.GoalsConceded,
			"xg":               round3(entry.Stats.XG),
			"xga":              round3(entry.Stats.XGA),
			"attack_strength":  round3(entry.Strength.Attack),
			"defense_strength": round3(entry.Strength.Defense),
		})
	}

	return map[string]any{
		"league": league.Name,
		"season": fmt.Sprintf("%d/%d", season, season+1),
		"averages": map[string]any{
			"goals_per_match": round3(baseline.AvgGoals),
			"xg_per_match":    round3(baseline.AvgXG),
		},
		"teams": teams,
	}, nil
}
