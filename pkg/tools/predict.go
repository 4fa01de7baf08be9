package tools

import (
	"fmt"

	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	"github.com/richard-senior/goalgorithm-mcp/pkg/protocol"
	"github.com/richard-senior/goalgorithm-mcp/pkg/util/goalg"
)

func PredictMatchTool() protocol.Tool {
	return protocol.Tool{
		Name: "predict_match",
		Description: `
		Predicts the outcome of a soccer match using an xG based Poisson model.
		Returns win/draw/loss probabilities, over/under 2.5 goals, both teams
		to score, expected goals and the most likely scorelines.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"home_team": {
					Type:        "string",
					Description: "Home team name, for instance 'Arsenal'. Partial names are matched.",
				},
				"away_team": {
					Type:        "string",
					Description: "Away team name, for instance 'Chelsea'. Partial names are matched.",
				},
				"league": {
					Type:        "string",
					Description: "League slug, name or numeric id ('EPL', 'Premier League', '9'). Defaults to EPL.",
				},
			},
			Required: []string{"home_team", "away_team"},
		},
	}
}

// HandlePredictMatchTool runs the prediction pipeline and formats the payload
// for the calling agent
func HandlePredictMatchTool(params any) (any, error) {
	if params == nil {
		return nil, fmt.Errorf("no params given")
	}
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("couldn't format the parameters as a map")
	}

	homeTeam, ok := paramsMap["home_team"].(string)
	if !ok || homeTeam == "" {
		return nil, fmt.Errorf("no home_team parameter was sent")
	}
	awayTeam, ok := paramsMap["away_team"].(string)
	if !ok || awayTeam == "" {
		return nil, fmt.Errorf("no away_team parameter was sent")
	}
	leagueQuery, ok := paramsMap["league"].(string)
	if !ok || leagueQuery == "" {
		leagueQuery = "EPL"
	}

	logger.Info("Predicting", homeTeam, "vs", awayTeam, "in", leagueQuery)

	result, league, err := goalg.PredictMatch(homeTeam, awayTeam, leagueQuery)
	if err != nil {
		return nil, err
	}

	topScores := make([]string, 0, len(result.TopScores))
	for _, s := range result.TopScores {
		topScores = append(topScores, fmt.Sprintf("%d-%d (%s)", s.Home, s.Away, percent(s.Probability)))
	}

	return map[string]any{
		"match":  fmt.Sprintf("%s vs %s", result.HomeTeam, result.AwayTeam),
		"league": league.Name,
		"expected_goals": map[string]any{
			"home": round3(result.ExpectedHomeGoals),
			"away": round3(result.ExpectedAwayGoals),
		},
		"probabilities": map[string]any{
			"home_win": percent(result.HomeWin),
			"draw":     percent(result.Draw),
			"away_win": percent(result.AwayWin),
		},
		"over_under_2.5": map[string]any{
			"over":  percent(result.Over2p5),
			"under": percent(result.Under2p5),
		},
		"btts": map[string]any{
			"yes": percent(result.BttsYes),
			"no":  percent(result.BttsNo),
		},
		"top_scores":   topScores,
		"score_matrix": result.Matrix.Cells,
	}, nil
}

// percent renders a probability as a one decimal place percentage string
func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// round3 trims a float for presentation without formatting it as a string
func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
